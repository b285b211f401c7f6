// Package content models the static, versioned content packs the engine
// rolls against: roll tables, their entries, and entry actions. Packs are
// loaded once per process and immutable afterwards.
package content

import (
	"github.com/hearthloom/soloquest/internal/dice"
)

// Scope describes who authored a table.
type Scope int

const (
	ScopeUnspecified Scope = iota
	// ScopeSystem marks tables bundled with the application.
	ScopeSystem
	// ScopeUser marks tables imported by the player.
	ScopeUser
)

func (s Scope) String() string {
	switch s {
	case ScopeSystem:
		return "system"
	case ScopeUser:
		return "user"
	default:
		return "unspecified"
	}
}

// Entry maps an inclusive [Min, Max] roll range to an ordered action list.
// Ranges are non-overlapping by authoring convention; the engine does not
// enforce it and resolves overlaps by first match.
type Entry struct {
	Min     int
	Max     int
	Actions []Action
}

// Contains reports whether the roll total falls inside the entry's range.
func (e Entry) Contains(total int) bool {
	return total >= e.Min && total <= e.Max
}

// Table is a named mapping from die-roll ranges to outcome actions.
type Table struct {
	ID      string
	Name    string
	Scope   Scope
	Dice    dice.Spec
	Entries []Entry
}

// EntryFor returns the first entry whose range contains total. When no
// entry matches (an authoring error) it falls back to the table's first
// entry so a bad range never blocks generation. The second return is false
// only for tables with no entries at all.
func (t Table) EntryFor(total int) (Entry, bool) {
	for _, entry := range t.Entries {
		if entry.Contains(total) {
			return entry, true
		}
	}
	if len(t.Entries) > 0 {
		return t.Entries[0], true
	}
	return Entry{}, false
}
