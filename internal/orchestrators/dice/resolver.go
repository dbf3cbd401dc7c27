package dice

import (
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
)

// Spectrum tiers describe how much a perception style check reveals
const (
	TierMinimal       = "minimal"
	TierBasic         = "basic"
	TierModerate      = "moderate"
	TierDetailed      = "detailed"
	TierComprehensive = "comprehensive"
	TierExceptional   = "exceptional"
)

var spectrumReasons = []string{"perception", "investigation", "insight", "search", "survival"}

// Outcome is a rolled or reported total with its check evaluation
type Outcome struct {
	Expression string `json:"expression"`
	Reason     string `json:"reason"`
	Total      int    `json:"total"`
	Rolls      []int  `json:"rolls,omitempty"`
	DC         *int   `json:"dc,omitempty"`
	Success    *bool  `json:"success,omitempty"`
	Tier       string `json:"tier,omitempty"`
}

// Resolver rolls dice through an rpg-toolkit roller
type Resolver struct {
	roller dice.Roller
}

// NewResolver creates a resolver; a nil roller uses dice.DefaultRoller
func NewResolver(roller dice.Roller) *Resolver {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	return &Resolver{roller: roller}
}

// Roll sums count uniform draws from 1..sides
func (r *Resolver) Roll(count, sides int) (int, []int, error) {
	if count < 1 || sides < 1 {
		return 0, nil, errors.InvalidArgumentf("cannot roll %dd%d", count, sides)
	}

	rolls, err := r.roller.RollN(count, sides)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "failed to roll %dd%d", count, sides)
	}

	total := 0
	for _, v := range rolls {
		total += v
	}
	return total, rolls, nil
}

// RollExpression rolls an "XdY" expression; anything unparseable rolls 1d20
func (r *Resolver) RollExpression(expression, reason string) (*Outcome, error) {
	count, sides, _ := narrative.ParseExpression(expression)

	total, rolls, err := r.Roll(count, sides)
	if err != nil {
		return nil, err
	}

	cleanReason, dc := narrative.SplitReason(reason)
	outcome := Evaluate(narrative.FormatExpression(count, sides), cleanReason, total, dc)
	outcome.Rolls = rolls
	return outcome, nil
}

// Evaluate attaches the check result for a total. With a DC the check
// succeeds when total >= DC; spectrum checks without a DC get a tier.
func Evaluate(expression, reason string, total int, dc *int) *Outcome {
	outcome := &Outcome{
		Expression: expression,
		Reason:     reason,
		Total:      total,
		DC:         dc,
	}

	if dc != nil {
		success := total >= *dc
		outcome.Success = &success
	} else if IsSpectrumCheck(reason) {
		outcome.Tier = SpectrumTier(total)
	}

	return outcome
}

// IsSpectrumCheck reports whether a reason names an open-ended discovery check
func IsSpectrumCheck(reason string) bool {
	lower := strings.ToLower(reason)
	for _, word := range spectrumReasons {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// SpectrumTier maps a total onto the discovery tiers
func SpectrumTier(total int) string {
	switch {
	case total <= 5:
		return TierMinimal
	case total <= 10:
		return TierBasic
	case total <= 15:
		return TierModerate
	case total <= 20:
		return TierDetailed
	case total <= 25:
		return TierComprehensive
	default:
		return TierExceptional
	}
}
