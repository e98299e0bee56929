package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// WriteCSV writes the table with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.names); err != nil {
		return errors.Wrap(err, "writing csv header")
	}

	record := make([]string, len(t.names))
	for i := 0; i < t.nrows; i++ {
		for j, name := range t.names {
			record[j] = strconv.FormatFloat(t.cols[name][i], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "writing csv row %d", i)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

// ReadCSV reads a table written by WriteCSV: a header row followed by
// float64 records.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv header")
	}

	cols := make(map[string][]float64, len(header))
	for _, name := range header {
		cols[name] = []float64{}
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading csv record")
		}
		if len(record) != len(header) {
			return nil, errors.NewDimensionError("ReadCSV", len(header), len(record), 1)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing field %q in column %q", field, header[j])
			}
			cols[header[j]] = append(cols[header[j]], v)
		}
	}

	return FromColumns(header, cols)
}
