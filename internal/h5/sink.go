package h5

// ColumnSink receives prediction columns. The HDF5 implementation opens
// and closes the file around every call, so each chunk's results are
// durable once the call returns.
type ColumnSink struct {
	path string
	key  string
}

// NewColumnSink returns a sink writing into the group key of path.
func NewColumnSink(path, key string) *ColumnSink {
	return &ColumnSink{path: path, key: key}
}

// EnsureColumn creates (or NaN-resets) a full-extent prediction column.
func (s *ColumnSink) EnsureColumn(name string, n int) error {
	return WithReadWrite(s.path, func(f *File) error {
		return f.EnsurePredictionColumn(s.key, name, n)
	})
}

// WriteRange writes one chunk's values at the given row offset.
func (s *ColumnSink) WriteRange(name string, offset int, values []float64) error {
	return WithReadWrite(s.path, func(f *File) error {
		return f.WriteColumnRange(s.key, name, offset, values)
	})
}
