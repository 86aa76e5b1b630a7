package mapper

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// ImportTestRuns replaces the Test Runs sheet's data rows with the
// project's recorded runs, one run row followed by its step rows.
func (im *Importer) ImportTestRuns(ctx context.Context) error {
	op, err := im.newOperation(ctx, testRunSheet)
	if err != nil {
		return err
	}
	op.clearDataRows()

	row := firstDataRow
	count := 0
	start := 1
	for {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		page, err := im.svc.TestRunsRetrieve(ctx, start, im.opts.PageSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		for i := range page {
			run := &page[i]
			op.setFieldCell(row, "TestCaseID", run.TestCaseID)
			if run.ReleaseID != nil {
				if version, ok := op.releaseVersion(*run.ReleaseID); ok {
					op.setFieldCell(row, "ReleaseID", version)
				} else {
					op.setFieldCell(row, "ReleaseID", *run.ReleaseID)
				}
			}
			op.writeExecStatus(row, run.ExecutionStatusID)
			op.setFieldCell(row, "RunDate", run.RunDate.In(time.Local))
			op.setIndent(row, 0, true)
			row++
			for j := range run.Steps {
				step := &run.Steps[j]
				op.setFieldCell(row, "RowType", rowTypeStep)
				op.writeLongText(row, "StepDescription", step.Description)
				op.writeLongText(row, "ExpectedResult", step.ExpectedResult)
				op.writeLongText(row, "ActualResult", step.ActualResult)
				op.writeExecStatus(row, step.ExecutionStatusID)
				op.setStepFormat(row)
				row++
			}
			count++
			im.report("Importing test runs", count, 0)
		}
		start += len(page)
	}
	return op.finalize("import")
}

// writeExecStatus renders an execution status id as its lookup label,
// falling back to the raw id.
func (op *operation) writeExecStatus(row, statusID int) {
	if label, ok := op.lookups["TestRun_Status"].Label(statusID); ok {
		op.setFieldCell(row, "ExecutionStatusID", label)
	} else {
		op.setFieldCell(row, "ExecutionStatusID", statusID)
	}
}

// execStatus resolves the row's Execution Status cell to a status id:
// a number is taken as-is, a label goes through the lookup, anything
// else falls back to Not Run.
func (op *operation) execStatus(row int) int {
	raw := op.fieldCell(row, "ExecutionStatusID")
	if isEmptyCell(raw) {
		return defaultExecutionStatusID
	}
	if n, err := parseCellInt(raw); err == nil {
		return n
	}
	if id, ok := op.lookups["TestRun_Status"].ID(asString(raw)); ok {
		return id
	}
	return defaultExecutionStatusID
}

// ExportTestRuns records one test run per run row, folding the step
// rows below it into the run's step results. Runs are recorded at the
// next boundary row; run rows never update existing runs.
func (im *Importer) ExportTestRuns(ctx context.Context) error {
	op, err := im.newOperation(ctx, testRunSheet)
	if err != nil {
		return err
	}

	type pendingRun struct {
		run *remote.TestRun
		row int
	}
	var pending *pendingRun

	flush := func() {
		if pending == nil {
			return
		}
		p := pending
		pending = nil
		if _, err := im.svc.TestRunRecord(ctx, p.run); err != nil {
			op.rowFailed(p.row, err)
		}
	}

	limit := op.ws.Rows()
	for row := firstDataRow; row <= limit; row++ {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		rowType := op.fieldText(row, "RowType")
		if rowType == "" &&
			isEmptyCell(op.fieldCell(row, "TestCaseID")) &&
			isEmptyCell(op.fieldCell(row, "Name")) {
			break
		}
		im.report("Exporting test runs", row-firstDataRow+1, 0)

		if strings.EqualFold(rowType, rowTypeStep) {
			if pending == nil {
				op.rowFailed(row, errors.New("test step row has no test run above it"))
				continue
			}
			pending.run.Steps = append(pending.run.Steps, remote.TestRunStep{
				Description:       op.longText(row, "StepDescription"),
				ExpectedResult:    op.longText(row, "ExpectedResult"),
				ActualResult:      op.longText(row, "ActualResult"),
				ExecutionStatusID: op.execStatus(row),
			})
			continue
		}

		flush()
		caseID, err := parseCellInt(op.fieldCell(row, "TestCaseID"))
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		run := &remote.TestRun{
			TestCaseID:        caseID,
			ExecutionStatusID: op.execStatus(row),
			RunDate:           im.opts.RunDate,
			RunnerName:        im.opts.RunnerName,
		}
		if version := op.fieldText(row, "ReleaseID"); version != "" {
			if id, ok := op.releaseIDForVersion(version); ok {
				run.ReleaseID = &id
			}
		}
		if t, err := parseCellDate(op.fieldCell(row, "RunDate")); err == nil && t != nil {
			run.RunDate = *t
		}
		pending = &pendingRun{run: run, row: row}
	}
	flush()
	return op.finalize("export")
}
