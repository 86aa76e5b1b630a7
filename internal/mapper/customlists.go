package mapper

import (
	"context"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
)

// ImportCustomListValues replaces the Custom Values sheet's data rows
// with every value of every project custom list.
func (im *Importer) ImportCustomListValues(ctx context.Context) error {
	op, err := im.newOperation(ctx, customListValueSheet)
	if err != nil {
		return err
	}
	op.clearDataRows()

	lists, err := im.svc.CustomListsRetrieve(ctx)
	if err != nil {
		return err
	}

	row := firstDataRow
	count := 0
	for _, list := range lists {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		for i := range list.Values {
			v := &list.Values[i]
			v.ListID = list.ID
			writeRow(op, row, v, customListValueBind)
			row++
			count++
			im.report("Importing custom list values", count, 0)
		}
	}
	return op.finalize("import")
}

// ExportCustomListValues adds the sheet's new rows (no Value #) to
// their custom lists. Rows that already carry an id are left alone:
// the service does not update list values in place.
func (im *Importer) ExportCustomListValues(ctx context.Context) error {
	op, err := im.newOperation(ctx, customListValueSheet)
	if err != nil {
		return err
	}

	last := op.lastDataRow()
	for row := firstDataRow; row <= last; row++ {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		im.report("Exporting custom list values", row-firstDataRow+1, last-firstDataRow+1)

		id, err := op.keyID(row)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		if id != nil {
			continue
		}

		rec := &remote.CustomListValue{}
		if err := readRow(op, row, rec, customListValueBind); err != nil {
			op.rowFailed(row, err)
			continue
		}
		created, err := im.svc.CustomListValueCreate(ctx, rec)
		if err != nil {
			op.rowFailed(row, err)
			continue
		}
		op.writeKey(row, created.ID)
	}
	return op.finalize("export")
}
