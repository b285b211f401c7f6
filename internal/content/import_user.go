package content

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hearthloom/soloquest/internal/dice"
	apperrors "github.com/hearthloom/soloquest/internal/platform/errors"
)

// userImportJSON is the constrained shape accepted from user table imports:
// {"table": [{"name": "...", "rows": [[...], ...]}]}.
type userImportJSON struct {
	Table []userTableJSON `json:"table"`
}

type userTableJSON struct {
	Name string              `json:"name"`
	Rows [][]json.RawMessage `json:"rows"`
}

// ImportUserTables converts a user-supplied JSON document into table
// definitions. Each row is either [min, max, text], ["1-3", text], or
// [value, text]; the row text becomes a log action. Rows that cannot be
// read are skipped, not fatal.
func ImportUserTables(data []byte) ([]Table, error) {
	var wire userImportJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeImportUnreadable, "decode user tables", err)
	}

	var tables []Table
	for _, t := range wire.Table {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}

		table := Table{
			ID:    slugify(name),
			Name:  name,
			Scope: ScopeUser,
		}
		for _, row := range t.Rows {
			entry, ok := userRowEntry(row)
			if !ok {
				continue
			}
			table.Entries = append(table.Entries, entry)
		}
		if len(table.Entries) == 0 {
			continue
		}

		table.Dice = dice.Spec{Count: 1, Sides: maxEntryBound(table.Entries)}
		tables = append(tables, table)
	}
	if len(tables) == 0 {
		return nil, apperrors.New(apperrors.CodeImportUnreadable, "no usable tables in import")
	}
	return tables, nil
}

// userRowEntry reads one import row into an entry.
func userRowEntry(row []json.RawMessage) (Entry, bool) {
	if len(row) < 2 {
		return Entry{}, false
	}

	var min, max int
	var textStart int

	var lead string
	if err := json.Unmarshal(row[0], &lead); err == nil {
		parsedMin, parsedMax, ok := parseRange(lead)
		if !ok {
			return Entry{}, false
		}
		min, max = parsedMin, parsedMax
		textStart = 1
	} else {
		var leadNum int
		if err := json.Unmarshal(row[0], &leadNum); err != nil {
			return Entry{}, false
		}
		min, max = leadNum, leadNum
		textStart = 1

		// [min, max, text] form: second element numeric with text after.
		if len(row) >= 3 {
			var second int
			if err := json.Unmarshal(row[1], &second); err == nil {
				max = second
				textStart = 2
			}
		}
	}

	var parts []string
	for _, raw := range row[textStart:] {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Entry{}, false
		}
		parts = append(parts, s)
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" || min < 1 || max < min {
		return Entry{}, false
	}

	return Entry{
		Min:     min,
		Max:     max,
		Actions: []Action{{Kind: ActionLog, Message: text}},
	}, true
}

// parseRange reads "3" or "1-3" (en dash tolerated) into inclusive bounds.
func parseRange(raw string) (int, int, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "–", "-"))
	if cleaned == "" {
		return 0, 0, false
	}

	if idx := strings.Index(cleaned, "-"); idx > 0 {
		min, errMin := strconv.Atoi(strings.TrimSpace(cleaned[:idx]))
		max, errMax := strconv.Atoi(strings.TrimSpace(cleaned[idx+1:]))
		if errMin != nil || errMax != nil || max < min {
			return 0, 0, false
		}
		return min, max, true
	}

	value, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, 0, false
	}
	return value, value, true
}

func maxEntryBound(entries []Entry) int {
	max := 1
	for _, entry := range entries {
		if entry.Max > max {
			max = entry.Max
		}
	}
	return max
}

// slugify lowers a display name into a stable table id.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
