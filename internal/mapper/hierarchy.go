package mapper

// indentTracker remembers the most recently exported artifact id at
// each indent level. A newly inserted row at level N is parented under
// the last id seen at level N-1; updates never re-parent.
type indentTracker struct {
	lastByLevel map[int]int
}

func newIndentTracker() *indentTracker {
	return &indentTracker{lastByLevel: make(map[int]int)}
}

// parentFor returns the parent id for a new row at the given level, or
// nil when the row is at the root (or no ancestor has been seen yet).
func (t *indentTracker) parentFor(level int) *int {
	if level <= 0 {
		return nil
	}
	id, ok := t.lastByLevel[level-1]
	if !ok {
		return nil
	}
	return &id
}

// saw records the id just processed at the given level.
func (t *indentTracker) saw(level, id int) {
	t.lastByLevel[level] = id
}
