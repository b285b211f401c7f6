// Package dice implements deterministic dice rolling over the shared
// random stream.
package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hearthloom/soloquest/internal/random"
)

// DefaultSpec is the fallback die used when a specification is missing or
// cannot be parsed. Generation never fails on a bad spec; it degrades to a
// plain percentile roll.
var DefaultSpec = Spec{Count: 1, Sides: 100}

var specPattern = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// Spec describes a dice expression of the form [count]d sides[+modifier].
type Spec struct {
	Count    int
	Sides    int
	Modifier int
}

// ParseSpec parses a dice expression such as "2d6+1" or "d20". Invalid or
// empty input returns DefaultSpec rather than an error.
func ParseSpec(raw string) Spec {
	cleaned := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	match := specPattern.FindStringSubmatch(cleaned)
	if match == nil {
		return DefaultSpec
	}

	count := 1
	if match[1] != "" {
		parsed, err := strconv.Atoi(match[1])
		if err != nil || parsed < 1 {
			return DefaultSpec
		}
		count = parsed
	}

	sides, err := strconv.Atoi(match[2])
	if err != nil || sides < 1 {
		return DefaultSpec
	}

	modifier := 0
	if match[3] != "" {
		modifier, err = strconv.Atoi(match[3])
		if err != nil {
			return DefaultSpec
		}
	}

	return Spec{Count: count, Sides: sides, Modifier: modifier}
}

// String renders the spec in canonical [count]d sides[+modifier] form.
func (s Spec) String() string {
	out := fmt.Sprintf("%dd%d", s.Count, s.Sides)
	if s.Modifier > 0 {
		out += fmt.Sprintf("+%d", s.Modifier)
	} else if s.Modifier < 0 {
		out += strconv.Itoa(s.Modifier)
	}
	return out
}

// Min returns the lowest total the spec can produce.
func (s Spec) Min() int {
	return s.Count + s.Modifier
}

// Max returns the highest total the spec can produce.
func (s Spec) Max() int {
	return s.Count*s.Sides + s.Modifier
}

// Roll captures the result of rolling a single spec.
type Roll struct {
	Spec     Spec
	Faces    []int
	Total    int
	Sequence uint64 // stream cursor after the draw
}

// RollSpec draws Count independent faces in [1, Sides] from the stream,
// advancing its sequence by Count, and returns the summed total plus
// modifier.
//
// # Determinism
//
// RollSpec is deterministic with respect to the stream's (seed, sequence)
// pair: rolling the same spec on a stream reopened at the same cursor
// always produces the same faces in the same order.
func RollSpec(stream *random.Stream, spec Spec) Roll {
	if spec.Count < 1 || spec.Sides < 1 {
		spec = DefaultSpec
	}

	faces := make([]int, spec.Count)
	total := spec.Modifier
	for i := 0; i < spec.Count; i++ {
		face := stream.IntN(spec.Sides) + 1
		faces[i] = face
		total += face
	}

	return Roll{
		Spec:     spec,
		Faces:    faces,
		Total:    total,
		Sequence: stream.Sequence(),
	}
}
