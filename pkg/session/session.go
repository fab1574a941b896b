// Package session provides the lap tables of race sessions.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mpapenbr/iracelog-strategy/pkg/laps"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultType is the race session
const DefaultType = "R"

type (
	Key struct {
		Year int
		Race string
		Type string
	}

	// Session is a loaded lap table. Laps must not be modified.
	Session struct {
		Key  Key
		Laps []model.LapRecord
	}

	// Source loads a session from the underlying storage
	Source interface {
		Load(ctx context.Context, key Key) (*Session, error)
	}
)

func (k Key) String() string {
	return fmt.Sprintf("%d/%s/%s", k.Year, k.Race, k.Type)
}

// ParseKey parses keys like "2024/Monza/R". A missing type defaults to DefaultType.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return Key{}, fmt.Errorf("invalid session key %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Key{}, fmt.Errorf("invalid year in session key %q: %w", s, err)
	}
	ret := Key{Year: year, Race: parts[1], Type: DefaultType}
	if len(parts) == 3 {
		ret.Type = parts[2]
	}
	return ret, ret.Validate()
}

func (k Key) Validate() error {
	if k.Year <= 0 {
		return fmt.Errorf("invalid year %d", k.Year)
	}
	if k.Race == "" {
		return errors.New("race must not be empty")
	}
	if k.Type == "" {
		return errors.New("session type must not be empty")
	}
	return nil
}

// TotalLaps is the race length, the highest lap number of the session
func (s *Session) TotalLaps() int {
	return laps.RaceLength(s.Laps)
}

func (s *Session) Drivers() []string {
	return laps.Drivers(s.Laps)
}

// DriverLaps returns the laps of driver ordered by lap number
func (s *Session) DriverLaps(driver string) []model.LapRecord {
	return laps.DriverLaps(s.Laps, driver)
}
