// Package mapper implements the field-mapping engine that moves typed
// artifact records between worksheet rows and the remote service: header
// mapping, lookup resolution, bidirectional value conversion, and the
// per-artifact import/export routines.
package mapper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dt-pm-tools/sheet-sync/internal/remote"
	"github.com/dt-pm-tools/sheet-sync/internal/sheet"
)

// Sheet layout constants. Row 1 is a title banner, row 2 holds the
// column labels, data starts at row 3.
const (
	headerRow    = 2
	firstDataRow = 3

	// maxCellLength is the longest text written into a single cell.
	// Longer values are truncated and the row flagged.
	maxCellLength = 8000

	// defaultPageSize is the batch size for flat paged retrievals.
	defaultPageSize = 250

	// maxCustomProperties bounds the CUS-NN column scan.
	maxCustomProperties = 30

	truncatedMessage = "This row had data truncated."
)

// ErrAborted tags a cancellation requested by the user. Errors returned
// for cancellation satisfy errors.Is for both ErrAborted and the
// underlying context error.
var ErrAborted = errors.New("aborted by user")

// checkCancel returns the tagged abort error if ctx is done.
func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrAborted, context.Cause(ctx))
	default:
		return nil
	}
}

// Options configures an Importer.
type Options struct {
	// StripRichText converts long-text fields from markup to plain text
	// on import.
	StripRichText bool

	// RunDate is the execution date recorded on exported test runs.
	RunDate time.Time

	// RunnerName is recorded on exported test runs.
	RunnerName string

	// PageSize overrides the flat-retrieval batch size (default 250).
	PageSize int
}

// Importer moves artifacts between a workbook and the remote service.
// One Importer may run many operations, but never two at once on the
// same workbook (the runner enforces this).
type Importer struct {
	svc      remote.Service
	book     sheet.Workbook
	opts     Options
	progress func(stage string, current, max int)
}

// New creates an Importer over the given service and workbook.
func New(svc remote.Service, book sheet.Workbook, opts Options) *Importer {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.RunDate.IsZero() {
		opts.RunDate = time.Now()
	}
	return &Importer{svc: svc, book: book, opts: opts}
}

// OnProgress registers a callback invoked as rows are processed. max is
// 0 when the total is not known up front.
func (im *Importer) OnProgress(fn func(stage string, current, max int)) {
	im.progress = fn
}

func (im *Importer) report(stage string, current, max int) {
	if im.progress != nil {
		im.progress(stage, current, max)
	}
}

// operation is the per-call state: field/column mappings, lookup tables
// and error bookkeeping, all rebuilt on every import or export and
// discarded afterwards.
type operation struct {
	im         *Importer
	ws         sheet.Worksheet
	spec       artifactSheet
	lookups    map[string]Lookup
	fieldCols  map[string]int
	customCols map[int]int
	customDefs []remote.CustomPropertyDefinition
	errCol     int

	errorCount int
	truncated  bool

	// pre-fetched reference lists for cross-reference fields
	releases   []remote.Release
	components []remote.Component
}

// newOperation performs the Setup and Validate stages shared by every
// routine: open the sheet, load lookups and custom property definitions,
// build the header mapping and verify required columns.
func (im *Importer) newOperation(ctx context.Context, spec artifactSheet) (*operation, error) {
	ws, err := im.book.Worksheet(spec.sheetName)
	if err != nil {
		return nil, err
	}
	op := &operation{
		im:      im,
		ws:      ws,
		spec:    spec,
		lookups: make(map[string]Lookup),
	}

	if spec.customProps {
		defs, err := im.svc.CustomProperties(ctx, spec.artifact)
		if err != nil {
			return nil, err
		}
		op.customDefs = defs
	}

	needReleases := false
	needComponents := false
	for _, def := range spec.defs {
		switch def.kind {
		case kindLookup:
			if _, ok := op.lookups[def.lookup]; ok {
				continue
			}
			lk, err := LoadLookup(im.book, def.lookup)
			if err != nil {
				return nil, err
			}
			op.lookups[def.lookup] = lk
		case kindReleaseVersion:
			needReleases = true
		case kindComponent, kindComponents:
			needComponents = true
		}
	}
	if needReleases {
		if op.releases, err = im.svc.ReleasesRetrieve(ctx); err != nil {
			return nil, err
		}
	}
	if needComponents {
		if op.components, err = im.svc.ComponentsRetrieve(ctx); err != nil {
			return nil, err
		}
	}

	if err := op.mapHeaders(ctx); err != nil {
		return nil, err
	}
	return op, nil
}

// rowFailed records a per-row error into the trailing error column and
// counts it. Row processing continues.
func (op *operation) rowFailed(row int, err error) {
	op.errorCount++
	op.ws.SetValue(row, op.errCol, err.Error())
}

// markTruncated flags the row (and the whole operation) as truncated.
// A real row error takes precedence in the error cell.
func (op *operation) markTruncated(row int) {
	op.truncated = true
	if op.ws.Value(row, op.errCol) == nil {
		op.ws.SetValue(row, op.errCol, truncatedMessage)
	}
}

// finalize raises exactly one aggregate error per operation: row errors
// first, then truncation (truncation is only surfaced when every row
// otherwise succeeded).
func (op *operation) finalize(verb string) error {
	if op.errorCount > 0 {
		return fmt.Errorf("%d row(s) failed to %s; see the error column on the %s sheet",
			op.errorCount, verb, op.ws.Name())
	}
	if op.truncated {
		return fmt.Errorf("one or more rows had text truncated to %d characters; see the error column on the %s sheet",
			maxCellLength, op.ws.Name())
	}
	return nil
}

// clearDataRows wipes the data area (row 3 down) including formats and
// the error column. Headers are untouched.
func (op *operation) clearDataRows() {
	rows := op.ws.Rows()
	cols := op.ws.Cols()
	if op.errCol > cols {
		cols = op.errCol
	}
	for row := firstDataRow; row <= rows; row++ {
		for col := 1; col <= cols; col++ {
			op.ws.SetValue(row, col, nil)
			op.ws.SetFormat(row, col, sheet.Format{})
		}
	}
}

// Clear wipes the data rows of the named artifact's sheet, leaving the
// two header rows in place.
func (im *Importer) Clear(ctx context.Context, artifact remote.ArtifactType) error {
	spec, err := sheetFor(artifact)
	if err != nil {
		return err
	}
	ws, err := im.book.Worksheet(spec.sheetName)
	if err != nil {
		return err
	}
	rows := ws.Rows()
	cols := ws.Cols()
	for row := firstDataRow; row <= rows; row++ {
		if err := checkCancel(ctx); err != nil {
			return err
		}
		for col := 1; col <= cols; col++ {
			ws.SetValue(row, col, nil)
			ws.SetFormat(row, col, sheet.Format{})
		}
	}
	return nil
}

// Import runs the import routine for one artifact kind.
func (im *Importer) Import(ctx context.Context, artifact remote.ArtifactType) error {
	switch artifact {
	case remote.ArtifactRequirement:
		return im.ImportRequirements(ctx)
	case remote.ArtifactRelease:
		return im.ImportReleases(ctx)
	case remote.ArtifactTestCase:
		return im.ImportTestCases(ctx)
	case remote.ArtifactTestSet:
		return im.ImportTestSets(ctx)
	case remote.ArtifactTestRun:
		return im.ImportTestRuns(ctx)
	case remote.ArtifactIncident:
		return im.ImportIncidents(ctx)
	case remote.ArtifactTask:
		return im.ImportTasks(ctx)
	case remote.ArtifactCustomListValue:
		return im.ImportCustomListValues(ctx)
	default:
		return fmt.Errorf("unknown artifact type %q", artifact)
	}
}

// Export runs the export routine for one artifact kind.
func (im *Importer) Export(ctx context.Context, artifact remote.ArtifactType) error {
	switch artifact {
	case remote.ArtifactRequirement:
		return im.ExportRequirements(ctx)
	case remote.ArtifactRelease:
		return im.ExportReleases(ctx)
	case remote.ArtifactTestCase:
		return im.ExportTestCases(ctx)
	case remote.ArtifactTestSet:
		return im.ExportTestSets(ctx)
	case remote.ArtifactTestRun:
		return im.ExportTestRuns(ctx)
	case remote.ArtifactIncident:
		return im.ExportIncidents(ctx)
	case remote.ArtifactTask:
		return im.ExportTasks(ctx)
	case remote.ArtifactCustomListValue:
		return im.ExportCustomListValues(ctx)
	default:
		return fmt.Errorf("unknown artifact type %q", artifact)
	}
}
