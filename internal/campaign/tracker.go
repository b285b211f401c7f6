package campaign

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Weight bounds for tracked entities.
const (
	WeightMin = 1
	WeightMax = 3
)

var keyFolder = cases.Fold()

// NormalizeKey derives the dedup identity for a tracked name: trimmed and
// case-folded, so "The Baron " and "the baron" are the same entity.
func NormalizeKey(name string) string {
	return keyFolder.String(strings.TrimSpace(name))
}

// Entity is a character or thread tracked with a saturating relevance
// weight used to bias narration context.
type Entity struct {
	Name   string
	Key    string
	Weight int
}

// Tracker maintains a de-duplicated, weight-ranked list of entities.
type Tracker struct {
	entries []*Entity
	byKey   map[string]*Entity
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{byKey: make(map[string]*Entity)}
}

// Add inserts a name at minimum weight. Adding an already tracked name is
// a no-op: the first spelling wins and the weight is untouched.
func (t *Tracker) Add(name string) {
	key := NormalizeKey(name)
	if key == "" {
		return
	}
	if _, ok := t.byKey[key]; ok {
		return
	}
	entity := &Entity{
		Name:   strings.TrimSpace(name),
		Key:    key,
		Weight: WeightMin,
	}
	t.entries = append(t.entries, entity)
	t.byKey[key] = entity
}

// Feature bumps the weight of a tracked name, capped at WeightMax. Names
// not yet tracked are added first so featuring is never lost.
func (t *Tracker) Feature(name string) {
	key := NormalizeKey(name)
	if key == "" {
		return
	}
	entity, ok := t.byKey[key]
	if !ok {
		t.Add(name)
		entity = t.byKey[key]
	}
	if entity.Weight < WeightMax {
		entity.Weight++
	}
}

// Remove drops a name by its normalized key. Unknown names are ignored.
func (t *Tracker) Remove(name string) {
	key := NormalizeKey(name)
	if _, ok := t.byKey[key]; !ok {
		return
	}
	delete(t.byKey, key)
	for i, entity := range t.entries {
		if entity.Key == key {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			break
		}
	}
}

// Entries returns the tracked entities in insertion order, for
// snapshots.
func (t *Tracker) Entries() []Entity {
	out := make([]Entity, len(t.entries))
	for i, entity := range t.entries {
		out[i] = *entity
	}
	return out
}

// RestoreTracker rebuilds a tracker from persisted entities, preserving
// insertion order. Weights are clamped to the valid range and entries
// with a blank name are dropped.
func RestoreTracker(entities []Entity) *Tracker {
	t := NewTracker()
	for _, entity := range entities {
		key := NormalizeKey(entity.Name)
		if key == "" {
			continue
		}
		if _, ok := t.byKey[key]; ok {
			continue
		}
		weight := entity.Weight
		if weight < WeightMin {
			weight = WeightMin
		}
		if weight > WeightMax {
			weight = WeightMax
		}
		restored := &Entity{
			Name:   strings.TrimSpace(entity.Name),
			Key:    key,
			Weight: weight,
		}
		t.entries = append(t.entries, restored)
		t.byKey[key] = restored
	}
	return t
}

// Contains reports whether a name is tracked.
func (t *Tracker) Contains(name string) bool {
	_, ok := t.byKey[NormalizeKey(name)]
	return ok
}

// Len returns the number of tracked entities.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Sorted returns the tracked entities by weight descending. Ties keep
// insertion order so narration context stays stable between calls.
func (t *Tracker) Sorted() []Entity {
	out := make([]Entity, len(t.entries))
	for i, entity := range t.entries {
		out[i] = *entity
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}
