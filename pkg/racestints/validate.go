package racestints

import (
	"errors"
	"fmt"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

// MinDistinctCompounds is the number of different compounds a race plan has to use
const MinDistinctCompounds = 2

var ErrInvalidPlan = errors.New("invalid strategy plan")

// ValidatePlan checks plan against the race distance totalLaps.
// Returned errors wrap ErrInvalidPlan.
func ValidatePlan(plan model.StrategyPlan, totalLaps int) error {
	if len(plan) == 0 {
		return fmt.Errorf("%w: no stints given", ErrInvalidPlan)
	}
	for i, s := range plan {
		if s.Laps <= 0 {
			return fmt.Errorf("%w: stint %d has %d laps", ErrInvalidPlan, i+1, s.Laps)
		}
		if s.Compound == model.CompoundUnknown || s.Compound == "" {
			return fmt.Errorf("%w: stint %d has no compound", ErrInvalidPlan, i+1)
		}
	}
	if planned := plan.TotalLaps(); planned != totalLaps {
		return fmt.Errorf("%w: total planned laps (%d) must equal race distance (%d)",
			ErrInvalidPlan, planned, totalLaps)
	}
	if len(plan.Compounds()) < MinDistinctCompounds {
		return fmt.Errorf("%w: must use at least %d different tyre compounds",
			ErrInvalidPlan, MinDistinctCompounds)
	}
	return nil
}
