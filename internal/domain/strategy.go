package domain

import (
	"fmt"
	"strings"
)

// Strategy selects how prompts are built for the classifier.
type Strategy string

const (
	StrategyZeroShot Strategy = "zeroshot"
	StrategySARP     Strategy = "sarp"
)

// MaxOutputTokens is the response ceiling requested for the strategy. SARP prompts
// are longer and tend to get longer justifications back.
func (s Strategy) MaxOutputTokens() int64 {
	if s == StrategySARP {
		return 1024
	}
	return 512
}

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyZeroShot:
		return StrategyZeroShot, nil
	case StrategySARP:
		return StrategySARP, nil
	}
	return "", fmt.Errorf("strategy must be %q or %q, got %q", StrategyZeroShot, StrategySARP, s)
}
