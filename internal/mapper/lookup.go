package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dt-pm-tools/sheet-sync/internal/sheet"
)

// Lookup maps the numeric ids of one enumerated field to display labels
// and back. Loaded fresh for every operation from a named range on the
// Lookups worksheet.
type Lookup struct {
	labels map[int]string
	ids    map[string]int
}

// Label returns the display label for id.
func (l Lookup) Label(id int) (string, bool) {
	label, ok := l.labels[id]
	return label, ok
}

// ID resolves a display label (trimmed, case-insensitive) to its id.
func (l Lookup) ID(label string) (int, bool) {
	id, ok := l.ids[strings.ToLower(strings.TrimSpace(label))]
	return id, ok
}

// Len returns the number of entries.
func (l Lookup) Len() int { return len(l.labels) }

// LoadLookup reads the named range from the workbook into a Lookup. The
// range rows hold the labels; the numeric id is read from the column
// immediately to the right of the range (by convention, not part of the
// range itself). Rows with an empty label or unparsable id are skipped;
// on duplicate ids the first occurrence wins.
func LoadLookup(book sheet.Workbook, rangeName string) (Lookup, error) {
	r, ok := book.NamedRange(rangeName)
	if !ok {
		return Lookup{}, fmt.Errorf("named range %q not found (check the Lookups worksheet)", rangeName)
	}
	ws, err := book.Worksheet(r.Sheet)
	if err != nil {
		return Lookup{}, fmt.Errorf("loading lookup %q: %w", rangeName, err)
	}

	lk := Lookup{
		labels: make(map[int]string),
		ids:    make(map[string]int),
	}
	idCol := r.LastCol + 1
	for row := r.FirstRow; row <= r.LastRow; row++ {
		label := strings.TrimSpace(asString(ws.Value(row, r.FirstCol)))
		if label == "" {
			continue
		}
		id, ok := parseLookupID(ws.Value(row, idCol))
		if !ok {
			continue
		}
		if _, dup := lk.labels[id]; dup {
			continue
		}
		lk.labels[id] = label
		key := strings.ToLower(label)
		if _, dup := lk.ids[key]; !dup {
			lk.ids[key] = id
		}
	}
	return lk, nil
}

// parseLookupID extracts an integer id from a string, integer or
// floating-point cell representation.
func parseLookupID(v any) (int, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}
