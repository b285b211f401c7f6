// Package oracle implements the fate primitives pacing a solo session:
// scene-type classification, chaos-factor drift, yes/no fate questions,
// and meaning-word generation.
package oracle

import (
	"github.com/hearthloom/soloquest/internal/dice"
	"github.com/hearthloom/soloquest/internal/random"
)

// Chaos factor bounds.
const (
	ChaosMin = 1
	ChaosMax = 9
)

// SceneType classifies how a scene opens relative to the player's
// expectation.
type SceneType int

const (
	SceneUnspecified SceneType = iota
	// SceneExpected plays out as the player planned.
	SceneExpected
	// SceneAltered starts as planned but with a twist.
	SceneAltered
	// SceneInterrupt replaces the plan with a random event.
	SceneInterrupt
)

func (t SceneType) String() string {
	switch t {
	case SceneExpected:
		return "expected"
	case SceneAltered:
		return "altered"
	case SceneInterrupt:
		return "interrupt"
	default:
		return "unspecified"
	}
}

// SceneTypeFromString maps persisted scene type strings to SceneType.
func SceneTypeFromString(raw string) SceneType {
	switch raw {
	case "expected":
		return SceneExpected
	case "altered":
		return SceneAltered
	case "interrupt":
		return SceneInterrupt
	default:
		return SceneUnspecified
	}
}

// ClassifyScene maps a 1d10 roll and the current chaos factor to a scene
// type: above the chaos factor the scene is expected; at or below it, even
// rolls interrupt and odd rolls alter.
func ClassifyScene(roll, chaosFactor int) SceneType {
	if roll > chaosFactor {
		return SceneExpected
	}
	if roll%2 == 0 {
		return SceneInterrupt
	}
	return SceneAltered
}

// SceneRoll captures the opening roll of a scene.
type SceneRoll struct {
	Roll     int
	Type     SceneType
	Sequence uint64
}

// RollSceneType draws the scene-opening 1d10 from the stream and
// classifies it against the chaos factor.
func RollSceneType(stream *random.Stream, chaosFactor int) SceneRoll {
	roll := dice.RollSpec(stream, dice.Spec{Count: 1, Sides: 10})
	return SceneRoll{
		Roll:     roll.Total,
		Type:     ClassifyScene(roll.Total, chaosFactor),
		Sequence: roll.Sequence,
	}
}

// UpdateChaosFactor drifts the chaos factor after a scene: down when the
// player characters stayed in control, up otherwise. The result is always
// clamped to [ChaosMin, ChaosMax].
func UpdateChaosFactor(current int, pcsInControl bool) int {
	if pcsInControl {
		current--
	} else {
		current++
	}
	return clamp(current, ChaosMin, ChaosMax)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
