package memloc

// ValueTable tracks the known value per location across program points.
// A pass keeps one table per block state, clones it along branches and
// merges it at joins; locations whose predecessors disagree degrade to
// covering values, to be resolved on demand through ReduceValues.
type ValueTable struct {
	values LocationValueMap
}

// NewValueTable creates an empty table.
func NewValueTable() *ValueTable {
	return &ValueTable{values: make(LocationValueMap)}
}

// Get returns the tracked value of loc.
func (t *ValueTable) Get(loc Location) (Value, bool) {
	v, ok := t.values[loc]
	return v, ok
}

// Set records the value of loc, typically from a store or a prior load.
func (t *ValueTable) Set(loc Location, v Value) {
	t.values[loc] = v
}

// Forget drops whatever is known about loc.
func (t *ValueTable) Forget(loc Location) {
	delete(t.values, loc)
}

// Len returns the number of tracked locations.
func (t *ValueTable) Len() int { return len(t.values) }

// Values exposes the underlying map for ReduceValues. The map stays owned
// by the table.
func (t *ValueTable) Values() LocationValueMap { return t.values }

// Clone returns an independent copy of the table.
func (t *ValueTable) Clone() *ValueTable {
	nt := &ValueTable{values: make(LocationValueMap, len(t.values))}
	for k, v := range t.values {
		nt.values[k] = v
	}
	return nt
}

// MergeFrom joins the other predecessor's table into this one. Only
// locations known on both sides survive; where the two sides disagree the
// location degrades to a covering value.
func (t *ValueTable) MergeFrom(other *ValueTable) {
	for loc, v := range t.values {
		ov, ok := other.values[loc]
		if !ok {
			delete(t.values, loc)
			continue
		}
		if !v.Equal(ov) {
			t.values[loc] = CoveringValue()
		}
	}
}
