package mapper

import (
	"context"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// ImportTestSets replaces the Test Sets sheet's data rows with the
// project's folder tree and test sets. Folder rows carry "Y" in the
// Folder column.
func (im *Importer) ImportTestSets(ctx context.Context) error {
	op, err := im.newOperation(ctx, testSetSheet)
	if err != nil {
		return err
	}
	op.clearDataRows()

	row := firstDataRow
	count := 0

	writeSets := func(folderID *int, indent int) error {
		sets, err := im.svc.TestSetsRetrieveByFolder(ctx, folderID)
		if err != nil {
			return err
		}
		for i := range sets {
			if err := checkCancel(ctx); err != nil {
				return err
			}
			ts := &sets[i]
			writeRow(op, row, ts, testSetBind)
			op.writeCustomProps(row, ts.CustomProperties)
			op.setFieldCell(row, "Folder", "N")
			op.setIndent(row, indent, false)
			row++
			count++
			im.report("Importing test sets", count, 0)
		}
		return nil
	}

	if err := writeSets(nil, 0); err != nil {
		return err
	}
	folders, err := im.svc.TestSetFoldersRetrieve(ctx)
	if err != nil {
		return err
	}
	for i := range folders {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		f := &folders[i]
		if f.ID != nil {
			op.setFieldCell(row, "TestSetID", *f.ID)
		}
		op.setFieldCell(row, "Name", f.Name)
		op.writeLongText(row, "Description", f.Description)
		op.setFieldCell(row, "Folder", "Y")
		op.setIndent(row, f.IndentLevel, true)
		row++
		if err := writeSets(f.ID, f.IndentLevel+1); err != nil {
			return err
		}
	}
	return op.finalize("import")
}

// ExportTestSets walks the Test Sets sheet. Folder rows create or track
// folders; set rows create or update test sets under the most recent
// folder. The Test Case Ids cell drives set membership: ids not already
// mapped into the set are added.
func (im *Importer) ExportTestSets(ctx context.Context) error {
	op, err := im.newOperation(ctx, testSetSheet)
	if err != nil {
		return err
	}

	tracker := newIndentTracker()
	var currentFolder *int

	last := op.lastDataRow()
	for row := firstDataRow; row <= last; row++ {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		im.report("Exporting test sets", row-firstDataRow+1, last-firstDataRow+1)

		id, err := op.keyID(row)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		level := op.indentOf(row)

		if parseCellBool(op.fieldCell(row, "Folder")) {
			if id != nil {
				tracker.saw(level, *id)
				currentFolder = id
				continue
			}
			folder := &remote.TestSetFolder{
				IndentLevel: level,
				Name:        op.fieldText(row, "Name"),
				Description: op.longText(row, "Description"),
			}
			created, err := im.svc.TestSetFolderCreate(ctx, folder, tracker.parentFor(level))
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			op.writeKey(row, created.ID)
			if created.ID != nil {
				tracker.saw(level, *created.ID)
			}
			currentFolder = created.ID
			continue
		}

		if id != nil {
			existing, err := im.svc.TestSetRetrieveByID(ctx, *id)
			if err != nil {
				op.rowFailed(row, err)
				continue
			}
			mapped := existing.TestCaseIDs
			if err := readRow(op, row, existing, testSetBind); err != nil {
				op.rowFailed(row, err)
				continue
			}
			wanted := existing.TestCaseIDs
			existing.TestCaseIDs = mapped
			if err := op.exportCustomProps(row, &existing.CustomProperties); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := im.svc.TestSetUpdate(ctx, existing); err != nil {
				op.rowFailed(row, err)
				continue
			}
			if err := op.addMissingCases(ctx, *id, mapped, wanted); err != nil {
				op.rowFailed(row, err)
				continue
			}
			continue
		}

		rec := &remote.TestSet{FolderID: currentFolder}
		if err := readRow(op, row, rec, testSetBind); err != nil {
			op.rowFailed(row, err)
			continue
		}
		wanted := rec.TestCaseIDs
		rec.TestCaseIDs = nil
		if err := op.exportCustomProps(row, &rec.CustomProperties); err != nil {
			op.rowFailed(row, err)
			continue
		}
		created, err := im.svc.TestSetCreate(ctx, rec)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		op.writeKey(row, created.ID)
		if created.ID != nil {
			if err := op.addMissingCases(ctx, *created.ID, nil, wanted); err != nil {
				op.rowFailed(row, err)
				continue
			}
		}
	}
	return op.finalize("export")
}

// addMissingCases maps each wanted test case into the set unless it is
// already mapped.
func (op *operation) addMissingCases(ctx context.Context, setID int, mapped, wanted []int) error {
	have := make(map[int]bool, len(mapped))
	for _, id := range mapped {
		have[id] = true
	}
	for _, id := range wanted {
		if have[id] {
			continue
		}
		if err := op.im.svc.TestSetAddTestCase(ctx, setID, id); err != nil {
			return err
		}
	}
	return nil
}
