package h5

import (
	"io"

	"github.com/jlzhang001/aict-tools/internal/dataset"
)

// Range is a half-open row window [Start, End).
type Range struct {
	Start int
	End   int
}

// ChunkRanges plans the row windows for a chunked pass over total rows.
// A chunk size of zero or less means a single full-length window.
func ChunkRanges(total, chunkSize int) []Range {
	if total <= 0 {
		return nil
	}
	if chunkSize <= 0 || chunkSize >= total {
		return []Range{{Start: 0, End: total}}
	}

	ranges := make([]Range, 0, (total+chunkSize-1)/chunkSize)
	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}

// ChunkReader streams the named columns of an event file window by
// window. The file is opened per window and closed again, so the reader
// never holds a handle across the caller's own writes to the same file.
type ChunkReader struct {
	path    string
	key     string
	columns []string
	ranges  []Range
	next    int
	total   int
}

// NewChunkReader plans a chunked pass over the given columns.
func NewChunkReader(path, key string, columns []string, chunkSize int) (*ChunkReader, error) {
	f, err := OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total, err := f.NumRows(key, columns[0])
	if err != nil {
		return nil, err
	}

	return &ChunkReader{
		path:    path,
		key:     key,
		columns: columns,
		ranges:  ChunkRanges(total, chunkSize),
		total:   total,
	}, nil
}

// TotalRows returns the number of rows of the full pass.
func (r *ChunkReader) TotalRows() int {
	return r.total
}

// NumChunks returns the number of windows the pass is split into.
func (r *ChunkReader) NumChunks() int {
	return len(r.ranges)
}

// Next reads the next window and returns it together with its row range.
// It returns io.EOF after the last window.
func (r *ChunkReader) Next() (*dataset.Table, Range, error) {
	if r.next >= len(r.ranges) {
		return nil, Range{}, io.EOF
	}
	rng := r.ranges[r.next]
	r.next++

	f, err := OpenRead(r.path)
	if err != nil {
		return nil, Range{}, err
	}
	defer f.Close()

	cols := make(map[string][]float64, len(r.columns))
	for _, name := range r.columns {
		data, err := f.ReadColumnRange(r.key, name, rng.Start, rng.End-rng.Start)
		if err != nil {
			return nil, Range{}, err
		}
		cols[name] = data
	}

	tab, err := dataset.FromColumns(r.columns, cols)
	if err != nil {
		return nil, Range{}, err
	}
	return tab, rng, nil
}
