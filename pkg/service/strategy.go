package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/actual"
	"github.com/mpapenbr/iracelog-strategy/pkg/analysis"
	"github.com/mpapenbr/iracelog-strategy/pkg/degradation"
	"github.com/mpapenbr/iracelog-strategy/pkg/format"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
	"github.com/mpapenbr/iracelog-strategy/pkg/optimize"
	"github.com/mpapenbr/iracelog-strategy/pkg/pitloss"
	"github.com/mpapenbr/iracelog-strategy/pkg/racestints"
	"github.com/mpapenbr/iracelog-strategy/pkg/session"
)

var ErrDriverNotFound = errors.New("driver not found")

type (
	// SessionProvider is satisfied by session.Store
	SessionProvider interface {
		Get(ctx context.Context, key session.Key) (*session.Session, error)
	}

	Option func(*StrategyService)

	StrategyService struct {
		sessions       SessionProvider
		tracer         trace.Tracer
		meter          metric.MeterProvider
		durations      metric.Float64Histogram
		log            *log.Logger
		fuelCorrection bool
		workers        int
	}

	DegradationReport struct {
		TotalLaps  int                                         `json:"totalLaps"`
		Models     model.Models                                `json:"models"`
		Curves     map[model.Compound][]degradation.CurvePoint `json:"curves"`
		FuelEffect []racestints.FuelPoint                      `json:"fuelEffect"`
	}

	SimulateRequest struct {
		Key    session.Key
		Driver string // optional, without driver there is no comparison
		Plan   model.StrategyPlan
	}

	SuggestedStrategy struct {
		Label         string             `json:"label"`
		Plan          model.StrategyPlan `json:"stints"`
		TotalTime     float64            `json:"totalTime"`
		DeltaVsActual float64            `json:"deltaVsActual"`
	}

	SimulationReport struct {
		RunID         string                `json:"runId"`
		TotalLaps     int                   `json:"totalLaps"`
		PitLoss       float64               `json:"pitLoss"`
		Plan          model.StrategyPlan    `json:"plan"`
		SimulatedLaps []model.SimulatedLap  `json:"simulatedLaps"`
		UserTotalTime float64               `json:"userTotalTime"`
		Actual        *model.ActualStrategy `json:"actual,omitempty"`
		CumulativeGap []analysis.GapPoint   `json:"cumulativeGap"`
		StintAnalysis []model.StintAnalysis `json:"stintAnalysis"`
		Suggested     []SuggestedStrategy   `json:"suggestedStrategies"`
	}
)

func WithTracer(tracer trace.Tracer) Option {
	return func(s *StrategyService) {
		s.tracer = tracer
	}
}

// WithMeterProvider replaces the global meter provider
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *StrategyService) {
		s.meter = mp
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *StrategyService) {
		s.log = l
	}
}

func WithFuelCorrection(enabled bool) Option {
	return func(s *StrategyService) {
		s.fuelCorrection = enabled
	}
}

// WithSearchWorkers sets the workers of the optimal strategy search, 0 uses all CPUs
func WithSearchWorkers(n int) Option {
	return func(s *StrategyService) {
		s.workers = n
	}
}

func NewStrategyService(sessions SessionProvider, opts ...Option) *StrategyService {
	ret := &StrategyService{
		sessions: sessions,
		log:      log.Default().Named("service.strategy"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("rse")
	}
	if ret.meter == nil {
		ret.meter = otel.GetMeterProvider()
	}
	ret.durations, _ = ret.meter.Meter("service.strategy").Float64Histogram(
		"strategy_operation",
		metric.WithDescription("duration of strategy operations"),
		metric.WithUnit("s"))
	return ret
}

func (s *StrategyService) Drivers(ctx context.Context, key session.Key) ([]string, error) {
	ctx, span := s.startSpan(ctx, "Drivers", key)
	defer span.End()
	sess, err := s.load(ctx, span, key)
	if err != nil {
		return nil, err
	}
	return sess.Drivers(), nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *StrategyService) Degradation(
	ctx context.Context,
	key session.Key,
) (*DegradationReport, error) {
	ctx, span := s.startSpan(ctx, "Degradation", key)
	defer span.End()
	sess, err := s.load(ctx, span, key)
	if err != nil {
		return nil, err
	}
	total := sess.TotalLaps()
	return &DegradationReport{
		TotalLaps:  total,
		Models:     degradation.Build(sess.Laps),
		Curves:     degradation.Curves(sess.Laps),
		FuelEffect: racestints.FuelEffect(total),
	}, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *StrategyService) PitStats(
	ctx context.Context,
	key session.Key,
) (*model.PitLossEstimate, error) {
	ctx, span := s.startSpan(ctx, "PitStats", key)
	defer span.End()
	sess, err := s.load(ctx, span, key)
	if err != nil {
		return nil, err
	}
	ret := pitloss.Estimate(sess.Laps)
	return &ret, nil
}

// ActualStrategy returns ErrDriverNotFound if driver has no laps in the session
//
//nolint:whitespace // can't make both editor and linter happy
func (s *StrategyService) ActualStrategy(
	ctx context.Context,
	key session.Key,
	driver string,
) (*model.ActualStrategy, error) {
	ctx, span := s.startSpan(ctx, "ActualStrategy", key)
	defer span.End()
	span.SetAttributes(attribute.String("driver", driver))
	sess, err := s.load(ctx, span, key)
	if err != nil {
		return nil, err
	}
	ret, ok := actual.Reconstruct(sess.Laps, driver)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrDriverNotFound, driver, key)
	}
	return ret, nil
}

// Simulate validates and simulates the requested plan, compares it with the
// actual strategy of the driver and adds the best plan per stop count.
//
//nolint:whitespace,funlen // can't make both editor and linter happy
func (s *StrategyService) Simulate(
	ctx context.Context,
	req *SimulateRequest,
) (*SimulationReport, error) {
	ctx, span := s.startSpan(ctx, "Simulate", req.Key)
	defer span.End()
	sess, err := s.load(ctx, span, req.Key)
	if err != nil {
		return nil, err
	}
	total := sess.TotalLaps()
	if err := racestints.ValidatePlan(req.Plan, total); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	models := degradation.Build(sess.Laps)
	pitLoss := pitloss.Estimate(sess.Laps).AvgPitTime
	simOpts := s.simOptions()

	sim := racestints.Simulate(models, req.Plan, pitLoss, total, simOpts...)
	userTotal := racestints.TotalTime(sim)

	var act *model.ActualStrategy
	if req.Driver != "" {
		var ok bool
		if act, ok = actual.Reconstruct(sess.Laps, req.Driver); !ok {
			s.log.Warn("driver has no laps, skipping comparison",
				log.String("driver", req.Driver),
				log.String("session", req.Key.String()))
		}
	}

	optimal, err := optimize.FindOptimal(ctx, models, pitLoss, total,
		optimize.WithWorkers(s.workers),
		optimize.WithFuelCorrection(s.fuelCorrection),
	)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	reference := userTotal
	if act != nil {
		reference = act.TotalTime
	}

	ret := &SimulationReport{
		RunID:         uuid.NewString(),
		TotalLaps:     total,
		PitLoss:       pitLoss,
		Plan:          req.Plan,
		SimulatedLaps: sim,
		UserTotalTime: userTotal,
		Actual:        act,
		CumulativeGap: analysis.CumulativeGap(sim, act),
		StintAnalysis: analysis.AnalyzeStints(models, req.Plan, act, pitLoss, total, simOpts...),
		Suggested:     suggest(optimal, reference),
	}
	s.log.Debug("simulation done",
		log.String("runId", ret.RunID),
		log.String("plan", req.Plan.String()),
		log.Float64("total", userTotal))
	return ret, nil
}

// Optimal returns the best plan per stop count ordered by stops
//
//nolint:whitespace // can't make both editor and linter happy
func (s *StrategyService) Optimal(
	ctx context.Context,
	key session.Key,
) ([]model.OptimalResult, error) {
	ctx, span := s.startSpan(ctx, "Optimal", key)
	defer span.End()
	sess, err := s.load(ctx, span, key)
	if err != nil {
		return nil, err
	}
	models := degradation.Build(sess.Laps)
	pitLoss := pitloss.Estimate(sess.Laps).AvgPitTime
	res, err := optimize.FindOptimal(ctx, models, pitLoss, sess.TotalLaps(),
		optimize.WithWorkers(s.workers),
		optimize.WithFuelCorrection(s.fuelCorrection),
	)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return sortedResults(res), nil
}

func (s *StrategyService) simOptions() []racestints.Option {
	return []racestints.Option{racestints.WithFuelCorrection(s.fuelCorrection)}
}

//nolint:whitespace // can't make both editor and linter happy
func (s *StrategyService) startSpan(
	ctx context.Context,
	name string,
	key session.Key,
) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("session", key.String()))
	return ctx, &measuredSpan{Span: span, ctx: ctx, name: name, start: time.Now(), rec: s.durations}
}

// measuredSpan records the operation duration when the span ends
type measuredSpan struct {
	trace.Span
	ctx   context.Context
	name  string
	start time.Time
	rec   metric.Float64Histogram
}

func (m *measuredSpan) End(opts ...trace.SpanEndOption) {
	if m.rec != nil {
		m.rec.Record(m.ctx, time.Since(m.start).Seconds(),
			metric.WithAttributes(attribute.String("operation", m.name)))
	}
	m.Span.End(opts...)
}

//nolint:whitespace // can't make both editor and linter happy
func (s *StrategyService) load(
	ctx context.Context,
	span trace.Span,
	key session.Key,
) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return sess, nil
}

func sortedResults(res map[int]model.OptimalResult) []model.OptimalResult {
	ret := make([]model.OptimalResult, 0, len(res))
	for _, r := range res {
		ret = append(ret, r)
	}
	slices.SortFunc(ret, func(a, b model.OptimalResult) int { return a.Stops - b.Stops })
	return ret
}

func suggest(res map[int]model.OptimalResult, reference float64) []SuggestedStrategy {
	ret := []SuggestedStrategy{}
	for _, r := range sortedResults(res) {
		ret = append(ret, SuggestedStrategy{
			Label:         fmt.Sprintf("Best %d-stop", r.Stops),
			Plan:          r.Plan,
			TotalTime:     format.Round(r.TotalTime, 3),
			DeltaVsActual: format.Round(r.TotalTime-reference, 3),
		})
	}
	return ret
}
