package campaign

import (
	"time"

	"github.com/hearthloom/soloquest/internal/oracle"
)

// SceneEntry is the immutable, persisted form of a finished scene. Entries
// are append-only history: once on the log they are never revised.
type SceneEntry struct {
	Number      int
	Type        oracle.SceneType
	Roll        int
	ChaosFactor int
	Setup       string
	Summary     string
	Alteration  string
	Concluded   bool
	CreatedAt   time.Time
}

// AppendScene adds a finalized scene to the campaign's scene log.
func (c *Campaign) AppendScene(entry SceneEntry) {
	c.Scenes = append(c.Scenes, entry)
}

// RecentScenes returns up to limit scenes ordered by ascending scene
// number, selecting the most recent ones first.
func (c *Campaign) RecentScenes(limit int) []SceneEntry {
	if limit <= 0 || len(c.Scenes) == 0 {
		return nil
	}

	sorted := make([]SceneEntry, len(c.Scenes))
	copy(sorted, c.Scenes)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Number > sorted[j].Number; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	if len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}
	return sorted
}

// EventEntry is one line of the campaign event log, attributing a change
// to the scene it happened in and the entities it touched.
type EventEntry struct {
	SceneNumber int
	Message     string
	EntityIDs   []string
}

// RollEntry records one die roll for audit and replay.
type RollEntry struct {
	TableID  string
	Spec     string
	Faces    []int
	Total    int
	Sequence uint64
}
