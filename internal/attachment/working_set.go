package attachment

import "fmt"

// WorkingSet is the in-memory attachment list of a draft. It never talks to
// the object store: removing an entry leaves its blob in place.
type WorkingSet struct {
	items []Meta
}

// NewWorkingSet starts a working set from a copy of initial.
func NewWorkingSet(initial []Meta) *WorkingSet {
	ws := &WorkingSet{}
	ws.Append(initial...)
	return ws
}

// Append adds metas at the end, preserving their order.
func (w *WorkingSet) Append(metas ...Meta) {
	w.items = append(w.items, metas...)
}

// RemoveAt drops the entry at index and returns the remaining items.
func (w *WorkingSet) RemoveAt(index int) ([]Meta, error) {
	if index < 0 || index >= len(w.items) {
		return nil, fmt.Errorf("%w: attachment index %d out of range [0,%d)", ErrInvalidInput, index, len(w.items))
	}
	w.items = append(w.items[:index:index], w.items[index+1:]...)
	return w.Items(), nil
}

// Items returns a copy of the current list. It is never nil.
func (w *WorkingSet) Items() []Meta {
	out := make([]Meta, len(w.items))
	copy(out, w.items)
	return out
}

// Len reports the number of entries.
func (w *WorkingSet) Len() int { return len(w.items) }
