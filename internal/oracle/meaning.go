package oracle

import (
	"github.com/hearthloom/soloquest/internal/random"
)

// The two meaning-word lists are independent: the first supplies an
// action, the second a subject. Pairs like "abandon / treasure" seed the
// player's interpretation of an event.
var meaningActions = []string{
	"abandon", "guard", "pursue", "betray", "heal", "break", "reveal",
	"conceal", "bargain", "threaten", "celebrate", "mourn", "create",
	"destroy", "release", "imprison", "deceive", "trust", "journey",
	"return", "gather", "scatter", "awaken", "silence", "protect",
	"attack", "transform", "ruin", "bless", "curse", "warn", "invite",
}

var meaningSubjects = []string{
	"treasure", "enemy", "ally", "home", "path", "door", "beast",
	"stranger", "message", "weapon", "ruin", "fire", "water", "shadow",
	"light", "storm", "secret", "promise", "debt", "wound", "festival",
	"bridge", "border", "leader", "child", "elder", "relic", "map",
	"disease", "dream", "grave", "harvest",
}

// MeaningPair is two words drawn from independent lists.
type MeaningPair struct {
	Action  string
	Subject string
}

// DrawMeaning draws one word from each list, consuming two stream values.
func DrawMeaning(stream *random.Stream) MeaningPair {
	return MeaningPair{
		Action:  meaningActions[stream.IntN(len(meaningActions))],
		Subject: meaningSubjects[stream.IntN(len(meaningSubjects))],
	}
}

// EventFocus names who or what a random event centers on.
type EventFocus struct {
	Min  int
	Max  int
	Name string
}

// eventFocuses tiles 1-100; the weighting favors NPC activity, the usual
// driver of solo play.
var eventFocuses = []EventFocus{
	{1, 7, "remote event"},
	{8, 28, "npc action"},
	{29, 35, "introduce new npc"},
	{36, 45, "move toward a thread"},
	{46, 52, "move away from a thread"},
	{53, 55, "close a thread"},
	{56, 67, "pc negative"},
	{68, 75, "pc positive"},
	{76, 83, "ambiguous event"},
	{84, 92, "npc negative"},
	{93, 100, "npc positive"},
}

// RandomEvent is an interrupt scene's generated event: a focus category
// plus a meaning pair to interpret it by.
type RandomEvent struct {
	FocusRoll int
	Focus     string
	Meaning   MeaningPair
	Sequence  uint64
}

// RollRandomEvent draws the focus percentile and a meaning pair. It
// consumes three stream values: one for the focus, two for the words.
func RollRandomEvent(stream *random.Stream) RandomEvent {
	roll := stream.IntN(100) + 1
	focus := eventFocuses[len(eventFocuses)-1].Name
	for _, candidate := range eventFocuses {
		if roll >= candidate.Min && roll <= candidate.Max {
			focus = candidate.Name
			break
		}
	}
	meaning := DrawMeaning(stream)
	return RandomEvent{
		FocusRoll: roll,
		Focus:     focus,
		Meaning:   meaning,
		Sequence:  stream.Sequence(),
	}
}
