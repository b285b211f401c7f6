package oracle

import (
	"github.com/hearthloom/soloquest/internal/dice"
	"github.com/hearthloom/soloquest/internal/random"
)

// Fate target clamp bounds: no question is ever a sure thing or hopeless.
const (
	fateTargetMin = 5
	fateTargetMax = 95
)

// Likelihood is the player's prior on a yes answer.
type Likelihood int

const (
	LikelihoodUnspecified Likelihood = iota
	Impossible
	VeryUnlikely
	Unlikely
	FiftyFifty
	Likely
	Certain
)

func (l Likelihood) String() string {
	switch l {
	case Impossible:
		return "impossible"
	case VeryUnlikely:
		return "veryUnlikely"
	case Unlikely:
		return "unlikely"
	case FiftyFifty:
		return "fiftyFifty"
	case Likely:
		return "likely"
	case Certain:
		return "certain"
	default:
		return "unspecified"
	}
}

// basePercentile is the yes target at chaos factor 5.
func (l Likelihood) basePercentile() int {
	switch l {
	case Impossible:
		return 5
	case VeryUnlikely:
		return 10
	case Unlikely:
		return 25
	case Likely:
		return 75
	case Certain:
		return 90
	default:
		return 50
	}
}

// LikelihoodFromString maps draft/user strings to a Likelihood. The second
// return is false for unrecognized values; callers reject those drafts
// rather than coercing them.
func LikelihoodFromString(raw string) (Likelihood, bool) {
	switch raw {
	case "impossible":
		return Impossible, true
	case "veryUnlikely":
		return VeryUnlikely, true
	case "unlikely":
		return Unlikely, true
	case "fiftyFifty":
		return FiftyFifty, true
	case "likely":
		return Likely, true
	case "certain":
		return Certain, true
	default:
		return LikelihoodUnspecified, false
	}
}

// FateTarget computes the percentile a yes answer must roll at or under:
// the likelihood's base shifted by (chaosFactor-5)*5, clamped to [5, 95].
func FateTarget(likelihood Likelihood, chaosFactor int) int {
	target := likelihood.basePercentile() + (chaosFactor-5)*5
	return clamp(target, fateTargetMin, fateTargetMax)
}

// FateResult is the outcome of one yes/no fate question.
type FateResult struct {
	Roll     int
	Target   int
	Yes      bool
	Sequence uint64
}

// AskFate rolls d100 against the likelihood-and-chaos-derived target.
// The answer is yes iff the roll is at or under the target.
func AskFate(stream *random.Stream, likelihood Likelihood, chaosFactor int) FateResult {
	target := FateTarget(likelihood, chaosFactor)
	roll := dice.RollSpec(stream, dice.Spec{Count: 1, Sides: 100})
	return FateResult{
		Roll:     roll.Total,
		Target:   target,
		Yes:      roll.Total <= target,
		Sequence: roll.Sequence,
	}
}
