// Package rules implements check resolution: skill and contested checks,
// DC band snapping, and validation of check-request drafts coming back
// from the narration layer.
package rules

import (
	"strings"

	"github.com/hearthloom/soloquest/internal/dice"
	"github.com/hearthloom/soloquest/internal/random"
)

// Outcome is the tiered result of a skill check.
type Outcome int

const (
	OutcomeUnspecified Outcome = iota
	OutcomeSuccess
	OutcomePartialSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePartialSuccess:
		return "partial_success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unspecified"
	}
}

// dcBands is the ruleset's fixed difficulty ladder. Every DC in play is
// snapped to the nearest band before evaluation.
var dcBands = []int{5, 10, 12, 15, 18, 20, 25}

// SnapDC snaps a difficulty to the nearest band value, resolving ties
// toward the easier band.
func SnapDC(dc int) int {
	best := dcBands[0]
	bestDist := abs(dc - best)
	for _, band := range dcBands[1:] {
		dist := abs(dc - band)
		if dist < bestDist {
			best = band
			bestDist = dist
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// SkillCheck describes a skill check against a difficulty, with an
// optional partial-success tier (PartialDC of 0 means no tier).
type SkillCheck struct {
	Skill     string
	Modifier  int
	DC        int
	PartialDC int
}

// EvaluateSkillCheck resolves a rolled total against the check: success at
// total >= DC, otherwise partial success when a partial tier is set and
// met, otherwise failure. Both DCs are snapped to the band ladder first.
func EvaluateSkillCheck(roll int, check SkillCheck) Outcome {
	total := roll + check.Modifier
	if total >= SnapDC(check.DC) {
		return OutcomeSuccess
	}
	if check.PartialDC > 0 && total >= SnapDC(check.PartialDC) {
		return OutcomePartialSuccess
	}
	return OutcomeFailure
}

// ContestedCheck describes a check against an opponent's difficulty.
// Contested checks have no partial tier.
type ContestedCheck struct {
	Skill      string
	Modifier   int
	OpponentDC int
}

// EvaluateContested resolves a rolled total against the opponent: success
// iff total >= the snapped opponent DC.
func EvaluateContested(roll int, check ContestedCheck) Outcome {
	if roll+check.Modifier >= SnapDC(check.OpponentDC) {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// CheckResult captures a rolled skill check.
type CheckResult struct {
	Roll     int
	Total    int
	Outcome  Outcome
	Sequence uint64
}

// RollSkillCheck draws the d20 and evaluates the check.
func RollSkillCheck(stream *random.Stream, check SkillCheck) CheckResult {
	roll := dice.RollSpec(stream, dice.Spec{Count: 1, Sides: 20})
	return CheckResult{
		Roll:     roll.Total,
		Total:    roll.Total + check.Modifier,
		Outcome:  EvaluateSkillCheck(roll.Total, check),
		Sequence: roll.Sequence,
	}
}

// RollContested draws the d20 and evaluates the contested check.
func RollContested(stream *random.Stream, check ContestedCheck) CheckResult {
	roll := dice.RollSpec(stream, dice.Spec{Count: 1, Sides: 20})
	return CheckResult{
		Roll:     roll.Total,
		Total:    roll.Total + check.Modifier,
		Outcome:  EvaluateContested(roll.Total, check),
		Sequence: roll.Sequence,
	}
}

// knownSkills is the closed skill vocabulary check drafts must use.
var knownSkills = map[string]string{
	"acrobatics":      "Acrobatics",
	"animal handling": "Animal Handling",
	"arcana":          "Arcana",
	"athletics":       "Athletics",
	"deception":       "Deception",
	"history":         "History",
	"insight":         "Insight",
	"intimidation":    "Intimidation",
	"investigation":   "Investigation",
	"medicine":        "Medicine",
	"nature":          "Nature",
	"perception":      "Perception",
	"performance":     "Performance",
	"persuasion":      "Persuasion",
	"religion":        "Religion",
	"sleight of hand": "Sleight of Hand",
	"stealth":         "Stealth",
	"survival":        "Survival",
}

// CheckKind distinguishes draft request shapes.
type CheckKind int

const (
	CheckKindUnspecified CheckKind = iota
	CheckKindSkill
	CheckKindContested
)

// CheckDraft is the untrusted check request a narration draft proposes.
type CheckDraft struct {
	Kind      string
	Skill     string
	Modifier  int
	DC        int
	PartialDC int
}

// CheckRequest is a validated, canonicalized check request.
type CheckRequest struct {
	Kind      CheckKind
	Skill     string
	Modifier  int
	DC        int
	PartialDC int
}

// ValidateDraft canonicalizes a check draft. It returns nil for unknown
// skill names or unrecognized kinds so the caller re-prompts instead of
// acting on a coerced guess.
func ValidateDraft(draft CheckDraft) *CheckRequest {
	skill, ok := knownSkills[strings.ToLower(strings.TrimSpace(draft.Skill))]
	if !ok {
		return nil
	}

	var kind CheckKind
	switch strings.ToLower(strings.TrimSpace(draft.Kind)) {
	case "skill":
		kind = CheckKindSkill
	case "contested":
		kind = CheckKindContested
	default:
		return nil
	}

	if draft.DC <= 0 {
		return nil
	}

	request := &CheckRequest{
		Kind:     kind,
		Skill:    skill,
		Modifier: draft.Modifier,
		DC:       SnapDC(draft.DC),
	}
	if kind == CheckKindSkill && draft.PartialDC > 0 {
		request.PartialDC = SnapDC(draft.PartialDC)
	}
	return request
}
