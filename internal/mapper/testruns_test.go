package mapper

import (
	"context"
	"testing"
	"time"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportTestRuns(t *testing.T) {
	svc := newFakeService()
	svc.releases = []remote.Release{{ID: intp(20), VersionNumber: "1.0.0"}}
	svc.testRuns = []remote.TestRun{{
		ID: intp(50), TestCaseID: 31, ReleaseID: intp(20),
		ExecutionStatusID: 2,
		RunDate:           time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Steps: []remote.TestRunStep{
			{Description: "open page", ActualResult: "ok", ExecutionStatusID: 2},
			{Description: "submit", ActualResult: "boom", ExecutionStatusID: 1},
		},
	}}

	book, ws := newTestBook(testRunSheet)
	im := New(svc, book, Options{})
	require.NoError(t, im.ImportTestRuns(context.Background()))

	caseCol := headerCol(testRunSheet, "TestCaseID")
	statusCol := headerCol(testRunSheet, "ExecutionStatusID")
	releaseCol := headerCol(testRunSheet, "ReleaseID")
	rowTypeCol := headerCol(testRunSheet, "RowType")
	actualCol := headerCol(testRunSheet, "ActualResult")

	assert.Equal(t, 31, ws.Value(firstDataRow, caseCol))
	assert.Equal(t, "Passed", ws.Value(firstDataRow, statusCol))
	assert.Equal(t, "1.0.0", ws.Value(firstDataRow, releaseCol))
	assert.Equal(t, rowTypeStep, ws.Value(firstDataRow+1, rowTypeCol))
	assert.Equal(t, "ok", ws.Value(firstDataRow+1, actualCol))
	assert.Equal(t, "Failed", ws.Value(firstDataRow+2, statusCol))

	stepCol := headerCol(testRunSheet, "StepDescription")
	assert.True(t, ws.Format(firstDataRow+1, stepCol).Italic)
}

func TestExportTestRuns(t *testing.T) {
	svc := newFakeService()
	svc.releases = []remote.Release{{ID: intp(20), VersionNumber: "1.0.0"}}

	book, ws := newTestBook(testRunSheet)
	caseCol := headerCol(testRunSheet, "TestCaseID")
	statusCol := headerCol(testRunSheet, "ExecutionStatusID")
	releaseCol := headerCol(testRunSheet, "ReleaseID")
	rowTypeCol := headerCol(testRunSheet, "RowType")
	stepCol := headerCol(testRunSheet, "StepDescription")
	actualCol := headerCol(testRunSheet, "ActualResult")

	ws.SetValue(firstDataRow, caseCol, 31)
	ws.SetValue(firstDataRow, statusCol, "Passed")
	ws.SetValue(firstDataRow, releaseCol, "1.0.0")
	ws.SetValue(firstDataRow+1, rowTypeCol, ">TestStep")
	ws.SetValue(firstDataRow+1, stepCol, "open page")
	ws.SetValue(firstDataRow+1, actualCol, "ok")
	ws.SetValue(firstDataRow+1, statusCol, "Passed")
	ws.SetValue(firstDataRow+2, rowTypeCol, ">TestStep")
	ws.SetValue(firstDataRow+2, stepCol, "submit")
	ws.SetValue(firstDataRow+2, actualCol, "boom")
	ws.SetValue(firstDataRow+2, statusCol, "Failed")
	// A second run with no steps and no explicit status.
	ws.SetValue(firstDataRow+3, caseCol, 32)

	runDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.Local)
	im := New(svc, book, Options{RunDate: runDate, RunnerName: "fred"})
	require.NoError(t, im.ExportTestRuns(context.Background()))

	require.Len(t, svc.testRuns, 2)
	first := svc.testRuns[0]
	assert.Equal(t, 31, first.TestCaseID)
	assert.Equal(t, 2, first.ExecutionStatusID)
	require.NotNil(t, first.ReleaseID)
	assert.Equal(t, 20, *first.ReleaseID)
	assert.Equal(t, "fred", first.RunnerName)
	assert.True(t, first.RunDate.Equal(runDate))
	require.Len(t, first.Steps, 2)
	assert.Equal(t, 2, first.Steps[0].ExecutionStatusID)
	assert.Equal(t, 1, first.Steps[1].ExecutionStatusID)
	assert.Equal(t, "boom", first.Steps[1].ActualResult)

	second := svc.testRuns[1]
	assert.Equal(t, 32, second.TestCaseID)
	assert.Equal(t, defaultExecutionStatusID, second.ExecutionStatusID)
	assert.Empty(t, second.Steps)
}
