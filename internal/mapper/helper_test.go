package mapper

import (
	"github.com/dt-pm-tools/sheet-sync/internal/sheet"
)

type lookupEntry struct {
	label string
	id    int
}

// Canonical lookup contents used across the routine tests.
var testLookups = map[string][]lookupEntry{
	"Req_Status":     {{"Requested", 1}, {"Planned", 2}, {"In Progress", 3}, {"Completed", 4}},
	"Req_Importance": {{"Critical", 1}, {"High", 2}, {"Medium", 3}, {"Low", 4}},
	"TC_Priority":    {{"Critical", 1}, {"High", 2}, {"Medium", 3}, {"Low", 4}},
	"TestRun_Status": {{"Failed", 1}, {"Passed", 2}, {"Not Run", 3}, {"Blocked", 5}},
	"Inc_Type":       {{"Incident", 1}, {"Bug", 2}, {"Enhancement", 3}},
	"Inc_Status":     {{"New", 1}, {"Open", 2}, {"Closed", 3}},
	"Inc_Priority":   {{"Critical", 1}, {"High", 2}},
	"Inc_Severity":   {{"Critical", 1}, {"High", 2}},
	"Task_Status":    {{"Not Started", 1}, {"In Progress", 2}, {"Completed", 3}},
	"Task_Priority":  {{"Critical", 1}, {"High", 2}},
}

// newTestBook builds a workbook with the sheet's header row and every
// lookup range its fields reference, laid out on a Lookups sheet with
// the id column to the right of each named range.
func newTestBook(spec artifactSheet) (*sheet.MemoryWorkbook, *sheet.MemoryWorksheet) {
	book := sheet.NewMemoryWorkbook()
	ws := book.AddSheet(spec.sheetName)
	for i, def := range spec.defs {
		ws.SetValue(headerRow, i+1, def.label)
	}

	lk := book.AddSheet("Lookups")
	row := 2
	seen := map[string]bool{}
	for _, def := range spec.defs {
		if def.kind != kindLookup || seen[def.lookup] {
			continue
		}
		seen[def.lookup] = true
		entries := testLookups[def.lookup]
		for i, e := range entries {
			lk.SetValue(row+i, 1, e.label)
			lk.SetValue(row+i, 2, e.id)
		}
		book.DefineName(def.lookup, sheet.Range{
			Sheet:    "Lookups",
			FirstRow: row,
			LastRow:  row + len(entries) - 1,
			FirstCol: 1,
			LastCol:  1,
		})
		row += len(entries) + 1
	}
	return book, ws
}

// headerCol returns the 1-based column a field label occupies in the
// header layout written by newTestBook.
func headerCol(spec artifactSheet, name string) int {
	for i, def := range spec.defs {
		if def.name == name {
			return i + 1
		}
	}
	return 0
}

func intp(v int) *int { return &v }
