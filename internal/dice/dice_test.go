package dice

import (
	"testing"

	"github.com/hearthloom/soloquest/internal/random"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		raw  string
		want Spec
	}{
		{"2d6+1", Spec{Count: 2, Sides: 6, Modifier: 1}},
		{"d20", Spec{Count: 1, Sides: 20}},
		{"1d100", Spec{Count: 1, Sides: 100}},
		{"3d8-2", Spec{Count: 3, Sides: 8, Modifier: -2}},
		{" 2D6 + 1 ", Spec{Count: 2, Sides: 6, Modifier: 1}},
		{"", DefaultSpec},
		{"garbage", DefaultSpec},
		{"d0", DefaultSpec},
		{"0d6", DefaultSpec},
		{"2x6", DefaultSpec},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseSpec(tt.raw)
			if got != tt.want {
				t.Fatalf("ParseSpec(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSpecString(t *testing.T) {
	tests := []struct {
		spec Spec
		want string
	}{
		{Spec{Count: 2, Sides: 6, Modifier: 1}, "2d6+1"},
		{Spec{Count: 1, Sides: 100}, "1d100"},
		{Spec{Count: 3, Sides: 8, Modifier: -2}, "3d8-2"},
	}
	for _, tt := range tests {
		if got := tt.spec.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRollSpecDeterministic(t *testing.T) {
	spec := ParseSpec("2d6+1")

	first := RollSpec(random.NewStream(42, 0), spec)
	second := RollSpec(random.NewStream(42, 0), spec)

	if first.Total != second.Total {
		t.Fatalf("totals diverged: %d vs %d", first.Total, second.Total)
	}
	if len(first.Faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(first.Faces))
	}
	for i, face := range first.Faces {
		if face != second.Faces[i] {
			t.Fatalf("face %d diverged: %d vs %d", i, face, second.Faces[i])
		}
		if face < 1 || face > 6 {
			t.Fatalf("face %d out of range: %d", i, face)
		}
	}
}

func TestRollSpecAdvancesSequenceByCount(t *testing.T) {
	stream := random.NewStream(7, 5)
	roll := RollSpec(stream, Spec{Count: 3, Sides: 6})

	if roll.Sequence != 8 {
		t.Fatalf("expected sequence 8 after 3 draws from 5, got %d", roll.Sequence)
	}
	if stream.Sequence() != 8 {
		t.Fatalf("stream cursor = %d, want 8", stream.Sequence())
	}
}

func TestRollSpecRange(t *testing.T) {
	stream := random.NewStream(1, 0)
	spec := Spec{Count: 2, Sides: 6, Modifier: 1}

	for i := 0; i < 200; i++ {
		roll := RollSpec(stream, spec)
		if roll.Total < spec.Min() || roll.Total > spec.Max() {
			t.Fatalf("total %d outside [%d, %d]", roll.Total, spec.Min(), spec.Max())
		}
	}
}

func TestRollSpecInvalidFallsBack(t *testing.T) {
	stream := random.NewStream(3, 0)
	roll := RollSpec(stream, Spec{})

	if roll.Spec != DefaultSpec {
		t.Fatalf("expected fallback to %+v, got %+v", DefaultSpec, roll.Spec)
	}
	if roll.Total < 1 || roll.Total > 100 {
		t.Fatalf("fallback total out of range: %d", roll.Total)
	}
}
