package strategy

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/iracelog-strategy/pkg/model"
)

// planFile is the yaml representation of a strategy plan
//
//	stints:
//	  - compound: MEDIUM
//	    laps: 20
//	  - compound: HARD
//	    laps: 37
type planFile struct {
	Stints model.StrategyPlan `yaml:"stints"`
}

func loadPlanFile(name string) (model.StrategyPlan, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return parsePlan(data)
}

func parsePlan(data []byte) (model.StrategyPlan, error) {
	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	return normalize(pf.Stints)
}

// parseStints parses stint args like MEDIUM:20
func parseStints(args []string) (model.StrategyPlan, error) {
	ret := make(model.StrategyPlan, 0, len(args))
	for _, arg := range args {
		c, n, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, fmt.Errorf("invalid stint %q, expected COMPOUND:LAPS", arg)
		}
		laps, err := strconv.Atoi(n)
		if err != nil {
			return nil, fmt.Errorf("invalid lap count in stint %q: %w", arg, err)
		}
		ret = append(ret, model.Stint{Compound: model.Compound(c), Laps: laps})
	}
	return normalize(ret)
}

func normalize(plan model.StrategyPlan) (model.StrategyPlan, error) {
	if len(plan) == 0 {
		return nil, errors.New("plan has no stints")
	}
	ret := make(model.StrategyPlan, len(plan))
	for i, s := range plan {
		c, err := model.ParseCompound(string(s.Compound))
		if err != nil {
			return nil, fmt.Errorf("stint %d: %w", i+1, err)
		}
		ret[i] = model.Stint{Compound: c, Laps: s.Laps}
	}
	return ret, nil
}
