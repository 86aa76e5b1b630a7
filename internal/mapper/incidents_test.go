package mapper

import (
	"context"
	"testing"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportIncidents(t *testing.T) {
	svc := newFakeService()
	svc.components = []remote.Component{{ID: 7, Name: "Engine"}, {ID: 8, Name: "UI"}}
	svc.releases = []remote.Release{{ID: intp(20), VersionNumber: "1.0.0"}}
	svc.incidents = []remote.Incident{{
		ID: intp(70), Name: "Crash on save", TypeID: intp(2), StatusID: intp(1),
		DetectedReleaseID: intp(20), ComponentIDs: []int{7, 8},
	}}

	book, ws := newTestBook(incidentSheet)
	im := New(svc, book, Options{})
	require.NoError(t, im.ImportIncidents(context.Background()))

	assert.Equal(t, "Crash on save", ws.Value(firstDataRow, headerCol(incidentSheet, "Name")))
	assert.Equal(t, "Bug", ws.Value(firstDataRow, headerCol(incidentSheet, "TypeID")))
	assert.Equal(t, "New", ws.Value(firstDataRow, headerCol(incidentSheet, "StatusID")))
	assert.Equal(t, "1.0.0", ws.Value(firstDataRow, headerCol(incidentSheet, "DetectedReleaseID")))
	assert.Equal(t, "Engine, UI", ws.Value(firstDataRow, headerCol(incidentSheet, "ComponentIDs")))
}

func TestExportIncidentsResolutionBecomesComment(t *testing.T) {
	svc := newFakeService()
	svc.incidents = []remote.Incident{{ID: intp(70), Name: "Crash on save", StatusID: intp(1)}}

	book, ws := newTestBook(incidentSheet)
	keyCol := headerCol(incidentSheet, "IncidentID")
	nameCol := headerCol(incidentSheet, "Name")
	statusCol := headerCol(incidentSheet, "StatusID")
	resolutionCol := headerCol(incidentSheet, "Resolution")

	ws.SetValue(firstDataRow, keyCol, 70)
	ws.SetValue(firstDataRow, nameCol, "Crash on save")
	ws.SetValue(firstDataRow, statusCol, "Closed")
	ws.SetValue(firstDataRow, resolutionCol, "Fixed by reindexing")

	ws.SetValue(firstDataRow+1, nameCol, "New defect")

	im := New(svc, book, Options{})
	require.NoError(t, im.ExportIncidents(context.Background()))

	require.Len(t, svc.incidents, 2)
	assert.Equal(t, 3, *svc.incidents[0].StatusID)

	// New rows with no Type or Status get the documented defaults.
	created := svc.incidents[1]
	assert.Equal(t, defaultIncidentTypeID, *created.TypeID)
	assert.Equal(t, defaultIncidentStatusID, *created.StatusID)
	assert.Equal(t, *created.ID, ws.Value(firstDataRow+1, keyCol))

	// The resolution was posted as a comment and blanked.
	require.Len(t, svc.comments, 1)
	assert.Equal(t, remote.ArtifactIncident, svc.comments[0].artifact)
	assert.Equal(t, 70, svc.comments[0].id)
	assert.Equal(t, "Fixed by reindexing", svc.comments[0].text)
	assert.Nil(t, ws.Value(firstDataRow, resolutionCol))
}
