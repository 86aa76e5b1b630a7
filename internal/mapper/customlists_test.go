package mapper

import (
	"context"
	"testing"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCustomListValues(t *testing.T) {
	svc := newFakeService()
	svc.customLists = []remote.ProjectCustomList{
		{ID: 5, Name: "Teams", Values: []remote.CustomListValue{
			{ID: intp(11), Name: "Core", Active: true},
			{ID: intp(12), Name: "Platform", Active: false},
		}},
	}

	book, ws := newTestBook(customListValueSheet)
	im := New(svc, book, Options{})
	require.NoError(t, im.ImportCustomListValues(context.Background()))

	keyCol := headerCol(customListValueSheet, "ValueID")
	listCol := headerCol(customListValueSheet, "ListID")
	nameCol := headerCol(customListValueSheet, "Name")
	activeCol := headerCol(customListValueSheet, "Active")

	assert.Equal(t, 11, ws.Value(firstDataRow, keyCol))
	assert.Equal(t, 5, ws.Value(firstDataRow, listCol))
	assert.Equal(t, "Core", ws.Value(firstDataRow, nameCol))
	assert.Equal(t, "Y", ws.Value(firstDataRow, activeCol))
	assert.Equal(t, "N", ws.Value(firstDataRow+1, activeCol))
}

func TestExportCustomListValues(t *testing.T) {
	svc := newFakeService()
	svc.customLists = []remote.ProjectCustomList{{ID: 5, Name: "Teams"}}

	book, ws := newTestBook(customListValueSheet)
	keyCol := headerCol(customListValueSheet, "ValueID")
	listCol := headerCol(customListValueSheet, "ListID")
	nameCol := headerCol(customListValueSheet, "Name")
	activeCol := headerCol(customListValueSheet, "Active")

	// Already-exported row: left alone.
	ws.SetValue(firstDataRow, keyCol, 11)
	ws.SetValue(firstDataRow, listCol, 5)
	ws.SetValue(firstDataRow, nameCol, "Core")
	// New row: created and id written back.
	ws.SetValue(firstDataRow+1, listCol, 5)
	ws.SetValue(firstDataRow+1, nameCol, "Field Ops")
	ws.SetValue(firstDataRow+1, activeCol, "Y")

	im := New(svc, book, Options{})
	require.NoError(t, im.ExportCustomListValues(context.Background()))

	require.Len(t, svc.customLists[0].Values, 1)
	created := svc.customLists[0].Values[0]
	assert.Equal(t, "Field Ops", created.Name)
	assert.Equal(t, 5, created.ListID)
	assert.True(t, created.Active)
	assert.Equal(t, *created.ID, ws.Value(firstDataRow+1, keyCol))
}
