package content

import (
	"regexp"
	"strings"

	"github.com/hearthloom/soloquest/internal/dice"
	apperrors "github.com/hearthloom/soloquest/internal/platform/errors"
)

// rollHeader matches header cells that denote a roll column ("d20", "2d6",
// "roll", "#").
var (
	rollHeader = regexp.MustCompile(`(?i)^(\d*d\d+|roll|#)$`)
	dieHeader  = regexp.MustCompile(`^\d*d\d+$`)
)

// ImportMarkdown heuristically converts heading-prefixed Markdown pipe
// tables into roll tables. A pipe table whose header repeats roll/result
// column pairs side by side is split into one table per pair, named after
// the pair's result header.
func ImportMarkdown(src string) ([]Table, error) {
	lines := strings.Split(src, "\n")

	heading := "Imported Table"
	var block []string
	var tables []Table

	flush := func() {
		if len(block) >= 2 {
			tables = append(tables, convertPipeBlock(heading, block)...)
		}
		block = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			flush()
			heading = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		case strings.HasPrefix(trimmed, "|"):
			block = append(block, trimmed)
		default:
			flush()
		}
	}
	flush()

	if len(tables) == 0 {
		return nil, apperrors.New(apperrors.CodeImportUnreadable, "no roll tables found in markdown")
	}
	return tables, nil
}

// convertPipeBlock turns one contiguous pipe-table block into roll tables.
func convertPipeBlock(heading string, block []string) []Table {
	header := splitPipeRow(block[0])
	if len(header) < 2 {
		return nil
	}

	rows := make([][]string, 0, len(block)-1)
	for _, line := range block[1:] {
		cells := splitPipeRow(line)
		if isSeparatorRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil
	}

	pairs := columnPairs(header)
	var tables []Table
	for _, pair := range pairs {
		name := heading
		if len(pairs) > 1 {
			name = heading + ": " + header[pair.result]
		}

		table := Table{
			ID:    slugify(name),
			Name:  name,
			Scope: ScopeUser,
		}
		for _, cells := range rows {
			if pair.result >= len(cells) {
				continue
			}
			min, max, ok := parseRange(cells[pair.roll])
			text := strings.TrimSpace(cells[pair.result])
			if !ok || text == "" {
				continue
			}
			table.Entries = append(table.Entries, Entry{
				Min:     min,
				Max:     max,
				Actions: []Action{{Kind: ActionLog, Message: text}},
			})
		}
		if len(table.Entries) == 0 {
			continue
		}

		table.Dice = pairDice(header[pair.roll], table.Entries)
		tables = append(tables, table)
	}
	return tables
}

type pair struct {
	roll   int
	result int
}

// columnPairs locates roll/result column pairs in a header row. When the
// header encodes several pairs side by side (| d20 | Event | d20 | Omen |)
// each pair becomes its own table; otherwise the first column is the roll
// column and the second the result.
func columnPairs(header []string) []pair {
	var pairs []pair
	for i := 0; i+1 < len(header); i += 2 {
		if rollHeader.MatchString(strings.TrimSpace(header[i])) {
			pairs = append(pairs, pair{roll: i, result: i + 1})
		}
	}
	if len(pairs) == 0 {
		pairs = []pair{{roll: 0, result: 1}}
	}
	return pairs
}

// pairDice derives a dice spec from the roll header when it names a die,
// falling back to 1dN over the widest entry bound.
func pairDice(header string, entries []Entry) dice.Spec {
	cleaned := strings.TrimSpace(strings.ToLower(header))
	if dieHeader.MatchString(cleaned) {
		return dice.ParseSpec(cleaned)
	}
	return dice.Spec{Count: 1, Sides: maxEntryBound(entries)}
}

func splitPipeRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, strings.TrimSpace(part))
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		cleaned := strings.Trim(cell, ":- ")
		if cleaned != "" {
			return false
		}
	}
	return true
}
