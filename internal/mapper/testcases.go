package mapper

import (
	"context"
	"errors"
	"strings"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// The Test Cases sheet interleaves three row shapes, discriminated by
// the Row Type column: "FOLDER" rows, plain test case rows, and
// ">TestStep" rows belonging to the case above them.

// ImportTestCases replaces the Test Cases sheet's data rows with the
// project's folder tree, each folder followed by its test cases and
// their steps.
func (im *Importer) ImportTestCases(ctx context.Context) error {
	op, err := im.newOperation(ctx, testCaseSheet)
	if err != nil {
		return err
	}
	op.clearDataRows()

	row := firstDataRow
	count := 0

	writeCase := func(tc *remote.TestCase, indent int) {
		writeRow(op, row, tc, testCaseBind)
		op.writeCustomProps(row, tc.CustomProperties)
		op.setIndent(row, indent, false)
		row++
		for i := range tc.Steps {
			step := &tc.Steps[i]
			op.setFieldCell(row, "RowType", rowTypeStep)
			if step.ID != nil {
				op.setFieldCell(row, "TestCaseID", *step.ID)
			}
			op.writeLongText(row, "StepDescription", step.Description)
			op.writeLongText(row, "ExpectedResult", step.ExpectedResult)
			op.writeLongText(row, "SampleData", step.SampleData)
			op.setStepFormat(row)
			row++
		}
		count++
		im.report("Importing test cases", count, 0)
	}

	writeFolderCases := func(folderID *int, indent int) error {
		cases, err := im.svc.TestCasesRetrieveByFolder(ctx, folderID)
		if err != nil {
			return err
		}
		for i := range cases {
			if err := checkCancel(ctx); err != nil {
				return err
			}
			writeCase(&cases[i], indent)
		}
		return nil
	}

	// Root-level cases come first, then each folder with its contents.
	if err := writeFolderCases(nil, 0); err != nil {
		return err
	}
	folders, err := im.svc.TestCaseFoldersRetrieve(ctx)
	if err != nil {
		return err
	}
	for i := range folders {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		f := &folders[i]
		op.setFieldCell(row, "RowType", rowTypeFolder)
		if f.ID != nil {
			op.setFieldCell(row, "TestCaseID", *f.ID)
		}
		op.setFieldCell(row, "Name", f.Name)
		op.writeLongText(row, "Description", f.Description)
		op.setIndent(row, f.IndentLevel, true)
		row++
		if err := writeFolderCases(f.ID, f.IndentLevel+1); err != nil {
			return err
		}
	}
	return op.finalize("import")
}

// writeLongText applies the long-text import conversion (markup strip
// and truncation) to a named cell outside the binding tables.
func (op *operation) writeLongText(row int, name, s string) {
	if op.im.opts.StripRichText {
		s = StripRichText(s)
	}
	s, truncated := truncateText(s)
	if truncated {
		op.markTruncated(row)
	}
	if s != "" {
		op.setFieldCell(row, name, s)
	}
}

// longText reads a named cell for export as plain text.
func (op *operation) longText(row int, name string) string {
	return stripControlChars(asString(op.fieldCell(row, name)))
}

// pendingCase is a test case whose step rows are still being collected.
// The save is deferred to the next boundary row (folder, case, or end
// of data).
type pendingCase struct {
	rec       *remote.TestCase
	row       int
	isNew     bool
	origSteps []remote.TestStep
	stepRows  []int
}

// ExportTestCases walks the Test Cases sheet, creating folders and
// cases without an id and updating cases that have one. Step rows are
// folded into the case above them; each case is saved when the next
// boundary row is reached.
func (im *Importer) ExportTestCases(ctx context.Context) error {
	op, err := im.newOperation(ctx, testCaseSheet)
	if err != nil {
		return err
	}

	tracker := newIndentTracker()
	var currentFolder *int
	var pending *pendingCase

	flush := func() {
		if pending == nil {
			return
		}
		p := pending
		pending = nil
		for i := range p.rec.Steps {
			p.rec.Steps[i].Position = i + 1
		}
		if p.isNew {
			p.rec.FolderID = currentFolder
			created, err := im.svc.TestCaseCreate(ctx, p.rec)
			if err != nil {
				op.rowFailed(p.row, err)
				return
			}
			op.writeKey(p.row, created.ID)
			for i, stepRow := range p.stepRows {
				if i < len(created.Steps) && created.Steps[i].ID != nil {
					op.setFieldCell(stepRow, "TestCaseID", *created.Steps[i].ID)
				}
			}
			return
		}
		// An update with no step rows keeps the server-side steps.
		if len(p.stepRows) == 0 {
			p.rec.Steps = p.origSteps
		}
		if err := im.svc.TestCaseUpdate(ctx, p.rec); err != nil {
			op.rowFailed(p.row, err)
		}
	}

	limit := op.ws.Rows()
	for row := firstDataRow; row <= limit; row++ {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		rowType := op.fieldText(row, "RowType")
		if rowType == "" && op.rowBlank(row) {
			break
		}
		im.report("Exporting test cases", row-firstDataRow+1, 0)

		switch {
		case strings.EqualFold(rowType, rowTypeFolder):
			flush()
			level := op.indentOf(row)
			id, err := op.keyID(row)
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			if id != nil {
				tracker.saw(level, *id)
				currentFolder = id
				continue
			}
			folder := &remote.TestCaseFolder{
				IndentLevel: level,
				Name:        op.fieldText(row, "Name"),
				Description: op.longText(row, "Description"),
			}
			created, err := im.svc.TestCaseFolderCreate(ctx, folder, tracker.parentFor(level))
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			op.writeKey(row, created.ID)
			if created.ID != nil {
				tracker.saw(level, *created.ID)
			}
			currentFolder = created.ID

		case strings.EqualFold(rowType, rowTypeStep):
			if pending == nil {
				op.rowFailed(row, errors.New("test step row has no test case above it"))
				continue
			}
			step := remote.TestStep{
				Description:    op.longText(row, "StepDescription"),
				ExpectedResult: op.longText(row, "ExpectedResult"),
				SampleData:     op.longText(row, "SampleData"),
			}
			id, err := op.keyID(row)
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			step.ID = id
			pending.rec.Steps = append(pending.rec.Steps, step)
			pending.stepRows = append(pending.stepRows, row)

		default:
			flush()
			id, err := op.keyID(row)
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			if id != nil {
				existing, err := im.svc.TestCaseRetrieveByID(ctx, *id)
				if err != nil {
					op.rowFailed(row, err)
					continue
				}
				orig := existing.Steps
				existing.Steps = nil
				if err := readRow(op, row, existing, testCaseBind); err != nil {
					op.rowFailed(row, err)
					continue
				}
				if err := op.exportCustomProps(row, &existing.CustomProperties); err != nil {
					op.rowFailed(row, err)
					continue
				}
				pending = &pendingCase{rec: existing, row: row, origSteps: orig}
				continue
			}
			rec := &remote.TestCase{}
			if err := readRow(op, row, rec, testCaseBind); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := op.exportCustomProps(row, &rec.CustomProperties); err != nil {
				op.rowFailed(row, err)
				continue
			}
			pending = &pendingCase{rec: rec, row: row, isNew: true}
		}
	}
	flush()
	return op.finalize("export")
}
