package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

// lap files are either a plain array of laps or an object with a laps attribute
var lapsPath = jp.C("laps")

// FileSource reads sessions from <dir>/<year>/<race>/<type>.json
type FileSource struct {
	dir string
	l   *log.Logger
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir, l: log.Default().Named("session")}
}

func (f *FileSource) Path(key Key) string {
	return filepath.Join(f.dir, strconv.Itoa(key.Year), key.Race, key.Type+".json")
}

func (f *FileSource) Load(ctx context.Context, key Key) (*Session, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	file := f.Path(key)
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, key)
		}
		return nil, err
	}
	records, err := DecodeLaps(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	f.l.Debug("session loaded",
		log.String("key", key.String()),
		log.String("file", file),
		log.Int("laps", len(records)))
	return &Session{Key: key, Laps: records}, nil
}

// DecodeLaps parses a JSON lap file
func DecodeLaps(data []byte) ([]model.LapRecord, error) {
	obj, err := oj.Parse(data)
	if err != nil {
		return nil, err
	}
	var rows []any
	switch v := obj.(type) {
	case []any:
		rows = v
	case map[string]any:
		res := lapsPath.Get(v)
		if len(res) == 0 {
			return nil, errors.New("no laps attribute found")
		}
		list, ok := res[0].([]any)
		if !ok {
			return nil, errors.New("laps attribute is not an array")
		}
		rows = list
	default:
		return nil, fmt.Errorf("unexpected document type %T", obj)
	}
	ret := make([]model.LapRecord, 0, len(rows))
	for i, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("lap %d: not an object", i)
		}
		rec, err := toLapRecord(m)
		if err != nil {
			return nil, fmt.Errorf("lap %d: %w", i, err)
		}
		ret = append(ret, rec)
	}
	return ret, nil
}

func toLapRecord(m map[string]any) (model.LapRecord, error) {
	ret := model.LapRecord{Compound: model.CompoundUnknown, IsAccurate: true}
	var ok bool
	if ret.Driver, ok = stringAttr(m, "driver"); !ok || ret.Driver == "" {
		return ret, errors.New("driver missing")
	}
	lapNo, ok := numberAttr(m, "lapNumber")
	if !ok || lapNo < 1 {
		return ret, errors.New("lapNumber missing or not positive")
	}
	ret.LapNumber = int(lapNo)
	if v, ok := numberAttr(m, "lapTime"); ok {
		ret.LapTime = omit.From(secondsToDuration(v))
	}
	if v, ok := stringAttr(m, "compound"); ok {
		// unrecognized compounds stay UNKNOWN
		ret.Compound, _ = model.ParseCompound(v)
	}
	if v, ok := numberAttr(m, "tyreLife"); ok {
		ret.TyreLife = int(v)
	}
	if v, ok := numberAttr(m, "stint"); ok {
		ret.Stint = int(v)
	}
	if v, ok := numberAttr(m, "pitInTime"); ok {
		ret.PitInTime = omit.From(secondsToDuration(v))
	}
	if v, ok := numberAttr(m, "pitOutTime"); ok {
		ret.PitOutTime = omit.From(secondsToDuration(v))
	}
	if v, ok := stringAttr(m, "trackStatus"); ok {
		ret.TrackStatus = omit.From(v)
	} else if v, ok := numberAttr(m, "trackStatus"); ok {
		ret.TrackStatus = omit.From(strconv.Itoa(int(v)))
	}
	if v, ok := m["isAccurate"].(bool); ok {
		ret.IsAccurate = v
	}
	return ret, nil
}

func stringAttr(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// numberAttr returns numeric attributes. null and NaN count as absent.
func numberAttr(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case int64:
		return float64(v), true
	case float64:
		if math.IsNaN(v) {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}
