// Package campaign models the mutable campaign aggregate the engine
// operates on. Every engine call receives the aggregate by exclusive
// reference, mutates it in place, and leaves persistence to the caller.
package campaign

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hearthloom/soloquest/internal/platform/id"
	"github.com/hearthloom/soloquest/internal/random"
)

// Chaos factor bounds. The dial never leaves [ChaosMin, ChaosMax].
const (
	ChaosMin     = 1
	ChaosMax     = 9
	ChaosDefault = 5
)

// ErrEmptyName indicates a missing campaign name.
var ErrEmptyName = errors.New("campaign name is required")

// Campaign is the aggregate root: identity, the deterministic roll cursor,
// pacing state, the location graph, and the narration bookkeeping lists.
type Campaign struct {
	ID   string
	Name string

	// Seed and Sequence address the deterministic random stream. Sequence
	// advances exactly once per consumed die face and is never rewound
	// except at fresh-campaign creation.
	Seed     int64
	Sequence uint64

	ChaosFactor int
	SceneNumber int

	ActiveLocationID string
	ActiveNodeID     string
	// LastNodeID is single-slot backtrack memory: one hop, not a stack.
	LastNodeID string

	Scenes     []SceneEntry
	Characters *Tracker
	Threads    *Tracker
	Locations  map[string]*Location
	NPCs       []*NPC

	EventLog []EventEntry
	RollLog  []RollEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInput describes the metadata needed to create a campaign.
type CreateInput struct {
	Name string
	// Seed of 0 requests a fresh crypto seed.
	Seed int64
}

// Create creates a new campaign with a generated ID, a fresh seed, and the
// pacing state of a first scene.
func Create(input CreateInput, now func() time.Time, idGenerator func() (string, error)) (*Campaign, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrEmptyName
	}

	campaignID, err := idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate campaign id: %w", err)
	}

	seed := input.Seed
	if seed == 0 {
		seed, err = random.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("generate campaign seed: %w", err)
		}
	}

	createdAt := now().UTC()
	return &Campaign{
		ID:          campaignID,
		Name:        input.Name,
		Seed:        seed,
		Sequence:    0,
		ChaosFactor: ChaosDefault,
		SceneNumber: 1,
		Characters:  NewTracker(),
		Threads:     NewTracker(),
		Locations:   make(map[string]*Location),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// Stream opens the campaign's deterministic stream at the persisted cursor.
func (c *Campaign) Stream() *random.Stream {
	return random.NewStream(c.Seed, c.Sequence)
}

// AdvanceSequence moves the persisted cursor forward to the given point.
// The cursor is monotonic: requests to move backwards are ignored.
func (c *Campaign) AdvanceSequence(to uint64) {
	if to > c.Sequence {
		c.Sequence = to
	}
}

// ActiveLocation returns the location the party is currently in, if any.
func (c *Campaign) ActiveLocation() *Location {
	if c.ActiveLocationID == "" {
		return nil
	}
	return c.Locations[c.ActiveLocationID]
}

// ActiveNode returns the node the party currently occupies, if any.
func (c *Campaign) ActiveNode() *Node {
	loc := c.ActiveLocation()
	if loc == nil || c.ActiveNodeID == "" {
		return nil
	}
	return loc.Nodes[c.ActiveNodeID]
}

// LogEvent appends an entry to the campaign event log.
func (c *Campaign) LogEvent(message string, entityIDs ...string) {
	c.EventLog = append(c.EventLog, EventEntry{
		SceneNumber: c.SceneNumber,
		Message:     message,
		EntityIDs:   entityIDs,
	})
}

// LogRoll appends a die roll to the campaign roll log.
func (c *Campaign) LogRoll(entry RollEntry) {
	c.RollLog = append(c.RollLog, entry)
}
