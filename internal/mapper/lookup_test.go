package mapper

import (
	"testing"

	"github.com/dt-pm-tools/sheet-sync/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLookup(t *testing.T) {
	book := sheet.NewMemoryWorkbook()
	ws := book.AddSheet("Lookups")
	ws.SetValue(2, 1, "Requested")
	ws.SetValue(2, 2, 1)
	ws.SetValue(3, 1, "Planned")
	ws.SetValue(3, 2, "2") // string ids parse too
	ws.SetValue(4, 1, "")  // skipped: empty label
	ws.SetValue(4, 2, 3)
	ws.SetValue(5, 1, "Broken")
	ws.SetValue(5, 2, "not-a-number") // skipped: unparsable id
	ws.SetValue(6, 1, "Duplicate")
	ws.SetValue(6, 2, 1) // skipped: id already mapped
	book.DefineName("Req_Status", sheet.Range{Sheet: "Lookups", FirstRow: 2, LastRow: 6, FirstCol: 1, LastCol: 1})

	lk, err := LoadLookup(book, "Req_Status")
	require.NoError(t, err)
	assert.Equal(t, 2, lk.Len())

	label, ok := lk.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "Requested", label)

	id, ok := lk.ID("  planned ")
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	_, ok = lk.ID("Broken")
	assert.False(t, ok)
}

func TestLoadLookupMissingRange(t *testing.T) {
	book := sheet.NewMemoryWorkbook()
	_, err := LoadLookup(book, "No_Such_Range")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No_Such_Range")
}
