package mapper

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// customColumnPattern recognizes custom-property columns: "CUS-" plus
// the zero-padded property number, compared case-insensitively.
var customColumnPattern = regexp.MustCompile(`^cus-([0-9]{2,})$`)

// mapHeaders scans header row 2 and builds the field-name → column and
// custom-property-number → column mappings. Matching is exact after
// trimming, case-insensitive; the first column wins when a label
// repeats. The scan is bounded by the smaller of the declared column
// count and the sheet's used range, and the cancellation context is
// polled as it goes. Missing required columns abort the operation.
func (op *operation) mapHeaders(ctx context.Context) error {
	op.fieldCols = make(map[string]int)
	op.customCols = make(map[int]int)

	byLabel := make(map[string]string, len(op.spec.defs))
	for _, def := range op.spec.defs {
		byLabel[strings.ToLower(def.label)] = def.name
	}

	cols := op.spec.declaredCols()
	if used := op.ws.Cols(); used < cols {
		cols = used
	}

	lastMapped := 0
	for col := 1; col <= cols; col++ {
		if col%16 == 0 {
			if err := checkCancel(ctx); err != nil {
				return err
			}
		}
		label := strings.TrimSpace(asString(op.ws.Value(headerRow, col)))
		if label == "" {
			continue
		}
		lower := strings.ToLower(label)

		if m := customColumnPattern.FindStringSubmatch(lower); m != nil {
			num, err := strconv.Atoi(m[1])
			if err != nil || num < 1 || num > maxCustomProperties {
				continue
			}
			if _, dup := op.customCols[num]; !dup {
				op.customCols[num] = col
				if col > lastMapped {
					lastMapped = col
				}
			}
			continue
		}

		name, known := byLabel[lower]
		if !known {
			continue
		}
		if _, dup := op.fieldCols[name]; !dup {
			op.fieldCols[name] = col
			if col > lastMapped {
				lastMapped = col
			}
		}
	}

	for _, def := range op.spec.defs {
		if def.required {
			if _, ok := op.fieldCols[def.name]; !ok {
				return fmt.Errorf("required column %q not found in row %d of the %s sheet",
					def.label, headerRow, op.ws.Name())
			}
		}
	}

	// The error column sits one past the last mapped column.
	op.errCol = lastMapped + 1
	return nil
}
