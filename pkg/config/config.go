package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	LapsDir            string // root directory of the session lap files
	LogLevel           string // sets the log level (zap log level values)
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules, empty: no filtering
	MaxConcurrentLoads int    // max number of session loads at the same time
	FuelCorrection     bool   // apply the fuel load correction when simulating
	SearchWorkers      int    // number of workers for the optimal strategy search, 0: number of CPUs
	Output             string // output format of the commands (text, json)
	EnableTelemetry    bool   // enable telemetry
)

const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds the configuration values which are used by the application
type Config struct {
	LapsDir            string
	MaxConcurrentLoads int
	FuelCorrection     bool
	SearchWorkers      int
}

// Current returns the resolved configuration values
func Current() Config {
	return Config{
		LapsDir:            LapsDir,
		MaxConcurrentLoads: MaxConcurrentLoads,
		FuelCorrection:     FuelCorrection,
		SearchWorkers:      SearchWorkers,
	}
}
