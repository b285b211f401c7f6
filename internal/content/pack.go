package content

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/hearthloom/soloquest/internal/dice"
	apperrors "github.com/hearthloom/soloquest/internal/platform/errors"
)

// Pack is an immutable, versioned set of table definitions.
type Pack struct {
	ID      string
	Version string
	tables  map[string]Table
}

// Table looks up a table by id.
func (p *Pack) Table(id string) (Table, bool) {
	if p == nil {
		return Table{}, false
	}
	table, ok := p.tables[id]
	return table, ok
}

// TableIDs returns the ids of every table in the pack, sorted.
func (p *Pack) TableIDs() []string {
	if p == nil {
		return nil
	}
	ids := make([]string, 0, len(p.tables))
	for id := range p.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Add returns a copy of the pack with the provided tables merged in.
// Later tables win id collisions; used to layer user imports over the
// bundled system pack.
func (p *Pack) Add(tables ...Table) *Pack {
	merged := &Pack{ID: "", Version: "", tables: make(map[string]Table)}
	if p != nil {
		merged.ID = p.ID
		merged.Version = p.Version
		for id, table := range p.tables {
			merged.tables[id] = table
		}
	}
	for _, table := range tables {
		if table.ID == "" {
			continue
		}
		merged.tables[table.ID] = table
	}
	return merged
}

// packJSON is the wire shape of a bundled content pack document.
type packJSON struct {
	ID      string      `json:"id"`
	Version string      `json:"version"`
	Tables  []tableJSON `json:"tables"`
}

type tableJSON struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Scope   string      `json:"scope"`
	Dice    string      `json:"dice"`
	Entries []entryJSON `json:"entries"`
}

type entryJSON struct {
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Actions []Action `json:"actions"`
}

// DecodePack reads a content pack JSON document. Unknown action kinds and
// fields are preserved, not rejected.
func DecodePack(r io.Reader) (*Pack, error) {
	var wire packJSON
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, apperrors.Wrap(apperrors.CodePackInvalid, "decode content pack", err)
	}
	if wire.ID == "" {
		return nil, apperrors.New(apperrors.CodePackInvalid, "content pack missing id")
	}

	pack := &Pack{
		ID:      wire.ID,
		Version: wire.Version,
		tables:  make(map[string]Table, len(wire.Tables)),
	}
	for _, t := range wire.Tables {
		if t.ID == "" {
			continue
		}
		table := Table{
			ID:    t.ID,
			Name:  t.Name,
			Scope: scopeFromString(t.Scope),
			Dice:  dice.ParseSpec(t.Dice),
		}
		for _, e := range t.Entries {
			table.Entries = append(table.Entries, Entry{
				Min:     e.Min,
				Max:     e.Max,
				Actions: e.Actions,
			})
		}
		pack.tables[t.ID] = table
	}
	return pack, nil
}

func scopeFromString(raw string) Scope {
	switch raw {
	case "system":
		return ScopeSystem
	case "user":
		return ScopeUser
	default:
		return ScopeUnspecified
	}
}

// EncodePack writes a pack as an indented JSON document, tables sorted by
// id. Used by the table importer to emit merged packs.
func EncodePack(w io.Writer, pack *Pack) error {
	if pack == nil || pack.ID == "" {
		return apperrors.New(apperrors.CodePackInvalid, "content pack missing id")
	}

	wire := packJSON{
		ID:      pack.ID,
		Version: pack.Version,
		Tables:  make([]tableJSON, 0, len(pack.tables)),
	}
	for _, id := range pack.TableIDs() {
		table := pack.tables[id]
		out := tableJSON{
			ID:      table.ID,
			Name:    table.Name,
			Scope:   table.Scope.String(),
			Dice:    table.Dice.String(),
			Entries: make([]entryJSON, 0, len(table.Entries)),
		}
		for _, entry := range table.Entries {
			out.Entries = append(out.Entries, entryJSON{
				Min:     entry.Min,
				Max:     entry.Max,
				Actions: entry.Actions,
			})
		}
		wire.Tables = append(wire.Tables, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(wire); err != nil {
		return fmt.Errorf("encode content pack: %w", err)
	}
	return nil
}

// NewPack assembles a pack from tables, for importer output.
func NewPack(id, version string, tables ...Table) *Pack {
	pack := &Pack{ID: id, Version: version, tables: make(map[string]Table, len(tables))}
	return pack.Add(tables...)
}

// LoadPack opens and decodes a pack file from the provided filesystem.
func LoadPack(fsys fs.FS, path string) (*Pack, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content pack: %w", err)
	}
	defer file.Close()
	return DecodePack(file)
}

// Cache lazily loads a pack on first use and keeps it for the life of the
// process. The engine is single-threaded by contract, so no locking.
type Cache struct {
	load func() (*Pack, error)
	pack *Pack
	err  error
	done bool
}

// NewCache creates a cache around the provided loader.
func NewCache(load func() (*Pack, error)) *Cache {
	return &Cache{load: load}
}

// Pack returns the cached pack, loading it on first call. A load failure is
// also cached: generation steps that need the pack treat it as "skip".
func (c *Cache) Pack() (*Pack, error) {
	if !c.done {
		c.pack, c.err = c.load()
		c.done = true
	}
	if c.err != nil {
		return nil, apperrors.Wrap(apperrors.CodePackNotLoaded, "content pack unavailable", c.err)
	}
	return c.pack, nil
}
