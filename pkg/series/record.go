package series

// Record is one time series sample: a mapping from field name to an array.
// Sequence fields carry the time axis first; per-record values such as
// timestamps are zero-dimensional arrays.
type Record map[string]Array

// Clone returns a shallow copy of the record. Arrays are shared; transforms
// that mutate buffers must Clone the arrays they touch.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether the record contains the named field.
func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}
