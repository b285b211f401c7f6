// Package scene orchestrates a scene's lifecycle: roll, classify, maybe
// alter, narrate, bookkeep, finalize. The in-progress Record is transient
// and revisable; finalizing appends an immutable entry to the campaign's
// scene log and drifts the chaos factor.
package scene

import (
	"errors"
	"time"

	"github.com/hearthloom/soloquest/internal/campaign"
	"github.com/hearthloom/soloquest/internal/oracle"
)

// State names a scene's position in its lifecycle.
type State int

const (
	StateResolving State = iota
	StateAltering
	StateNarrating
	StateBookkeeping
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateAltering:
		return "altering"
	case StateNarrating:
		return "narrating"
	case StateBookkeeping:
		return "bookkeeping"
	case StateFinalized:
		return "finalized"
	default:
		return "resolving"
	}
}

// ErrInvalidState indicates an operation was attempted in the wrong
// lifecycle state.
var ErrInvalidState = errors.New("scene is not in the required state")

// ErrFinalized indicates an attempt to revise an already finalized scene.
var ErrFinalized = errors.New("scene is already finalized")

// AlterationMethod is one of the five ways an altered scene deviates.
type AlterationMethod int

const (
	MethodUnspecified AlterationMethod = iota
	MethodMeaningWords
	MethodSceneAdjustment
	MethodNPCSurprise
	MethodEscalateStakes
	MethodRemoveElement
)

func (m AlterationMethod) String() string {
	switch m {
	case MethodMeaningWords:
		return "meaningWords"
	case MethodSceneAdjustment:
		return "sceneAdjustment"
	case MethodNPCSurprise:
		return "npcSurprise"
	case MethodEscalateStakes:
		return "escalateStakes"
	case MethodRemoveElement:
		return "removeElement"
	default:
		return "unspecified"
	}
}

// methodGuidance carries the fixed guidance string for methods that add
// no further state.
var methodGuidance = map[AlterationMethod]string{
	MethodNPCSurprise:    "an NPC present acts against expectation",
	MethodEscalateStakes: "raise the stakes of what was planned",
	MethodRemoveElement:  "remove an element the player expected",
}

// sceneAdjustmentLabel is the fixed label the sceneAdjustment method
// attaches.
const sceneAdjustmentLabel = "adjust one detail of the expected scene"

// Alteration describes how an altered scene deviates from expectation.
type Alteration struct {
	Method     AlterationMethod
	Guidance   string
	Meaning    *oracle.MeaningPair
	Adjustment string
}

// Bookkeeping collects the deltas a finished scene applies to the
// campaign's weighted trackers.
type Bookkeeping struct {
	NewCharacters      []string
	FeaturedCharacters []string
	RemovedCharacters  []string
	NewThreads         []string
	FeaturedThreads    []string
	RemovedThreads     []string
}

// Record is the transient, in-progress scene. It may be revised up until
// finalization.
type Record struct {
	State        State
	Number       int
	Roll         int
	Type         oracle.SceneType
	ChaosAtRoll  int
	Setup        string
	Alteration   *Alteration
	Event        *oracle.RandomEvent
	Summary      string
	Concluded    bool
	PCsInControl bool
	Bookkeeping  Bookkeeping
}

// Machine runs scene lifecycles against a campaign aggregate.
type Machine struct {
	now func() time.Time
}

// NewMachine creates a machine with the provided clock; nil uses
// time.Now.
func NewMachine(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{now: now}
}

// ResolveScene opens a scene: draw the 1d10, classify it against the
// chaos factor, and, for interrupts, immediately generate the random
// event that replaces the player's plan. Altered scenes move to the
// altering state; everything else goes straight to narrating.
func (m *Machine) ResolveScene(camp *campaign.Campaign, setup string) *Record {
	stream := camp.Stream()
	sceneRoll := oracle.RollSceneType(stream, camp.ChaosFactor)
	camp.AdvanceSequence(sceneRoll.Sequence)
	camp.LogRoll(campaign.RollEntry{
		TableID:  "scene-resolution",
		Spec:     "1d10",
		Faces:    []int{sceneRoll.Roll},
		Total:    sceneRoll.Roll,
		Sequence: sceneRoll.Sequence,
	})

	record := &Record{
		State:       StateNarrating,
		Number:      camp.SceneNumber,
		Roll:        sceneRoll.Roll,
		Type:        sceneRoll.Type,
		ChaosAtRoll: camp.ChaosFactor,
		Setup:       setup,
	}

	switch sceneRoll.Type {
	case oracle.SceneAltered:
		record.State = StateAltering
	case oracle.SceneInterrupt:
		event := oracle.RollRandomEvent(stream)
		camp.AdvanceSequence(event.Sequence)
		record.Event = &event
	}
	return record
}

// ApplyAlteration applies one of the five alteration methods to an
// altered scene and moves it to narrating. Only meaningWords and
// sceneAdjustment carry extra state; the rest are guidance strings.
func (m *Machine) ApplyAlteration(camp *campaign.Campaign, record *Record, method AlterationMethod) error {
	if record.State != StateAltering {
		return ErrInvalidState
	}

	alteration := &Alteration{Method: method}
	switch method {
	case MethodMeaningWords:
		stream := camp.Stream()
		pair := oracle.DrawMeaning(stream)
		camp.AdvanceSequence(stream.Sequence())
		alteration.Meaning = &pair
	case MethodSceneAdjustment:
		alteration.Adjustment = sceneAdjustmentLabel
	case MethodNPCSurprise, MethodEscalateStakes, MethodRemoveElement:
		alteration.Guidance = methodGuidance[method]
	default:
		return ErrInvalidState
	}

	record.Alteration = alteration
	record.State = StateNarrating
	return nil
}

// Narrate attaches the accepted narration summary and moves the scene to
// bookkeeping.
func (m *Machine) Narrate(record *Record, summary string) error {
	if record.State != StateNarrating {
		return ErrInvalidState
	}
	record.Summary = summary
	record.State = StateBookkeeping
	return nil
}

// FinalizeScene merges the scene's bookkeeping into the campaign: tracker
// deltas, chaos drift, the immutable scene entry, and the next scene
// number. Finalizing twice is an error.
func (m *Machine) FinalizeScene(camp *campaign.Campaign, record *Record) error {
	if record.State == StateFinalized {
		return ErrFinalized
	}
	if record.State != StateBookkeeping {
		return ErrInvalidState
	}

	deltas := record.Bookkeeping
	for _, name := range deltas.NewCharacters {
		camp.Characters.Add(name)
	}
	for _, name := range deltas.FeaturedCharacters {
		camp.Characters.Feature(name)
	}
	for _, name := range deltas.RemovedCharacters {
		camp.Characters.Remove(name)
	}
	for _, name := range deltas.NewThreads {
		camp.Threads.Add(name)
	}
	for _, name := range deltas.FeaturedThreads {
		camp.Threads.Feature(name)
	}
	for _, name := range deltas.RemovedThreads {
		camp.Threads.Remove(name)
	}

	camp.ChaosFactor = oracle.UpdateChaosFactor(camp.ChaosFactor, record.PCsInControl)

	entry := campaign.SceneEntry{
		Number:      record.Number,
		Type:        record.Type,
		Roll:        record.Roll,
		ChaosFactor: record.ChaosAtRoll,
		Setup:       record.Setup,
		Summary:     record.Summary,
		Concluded:   record.Concluded,
		CreatedAt:   m.now().UTC(),
	}
	if record.Alteration != nil {
		entry.Alteration = record.Alteration.Method.String()
	}
	camp.AppendScene(entry)

	if !record.Concluded {
		camp.SceneNumber++
	}

	camp.LogEvent("scene finalized: " + record.Setup)
	record.State = StateFinalized
	return nil
}
