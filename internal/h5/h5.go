// Package h5 is the HDF5 plumbing for the aict tools. Event files hold a
// group (default "events") of equal-length 1-D datasets, one per column.
// All access to the gonum hdf5 binding lives here; callers work with
// column names and dataset tables.
//
// Write access is scoped: a handle is acquired, one mutation is
// performed and the handle is released on every exit path. The apply
// commands therefore never hold the output file open across chunks, so a
// crash between chunks leaves previously written chunks durable.
package h5

import (
	"math"

	"gonum.org/v1/hdf5"

	"github.com/jlzhang001/aict-tools/internal/dataset"
	"github.com/jlzhang001/aict-tools/pkg/errors"
)

// File wraps an open HDF5 file.
type File struct {
	f    *hdf5.File
	path string
}

// OpenRead opens path read-only.
func OpenRead(path string) (*File, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	return &File{f: f, path: path}, nil
}

// OpenReadWrite opens path for in-place mutation.
func OpenReadWrite(path string) (*File, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDWR)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q read-write", path)
	}
	return &File{f: f, path: path}, nil
}

// Create creates (or truncates) path.
func Create(path string) (*File, error) {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %q", path)
	}
	return &File{f: f, path: path}, nil
}

// Close releases the file handle.
func (f *File) Close() error {
	return f.f.Close()
}

// WithReadWrite opens path read-write, runs fn and closes the file again,
// including when fn fails.
func WithReadWrite(path string, fn func(*File) error) error {
	f, err := OpenReadWrite(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}

// NumRows returns the length of the named column, which by the layout
// invariant is the row count of the whole group.
func (f *File) NumRows(key, column string) (int, error) {
	grp, err := f.f.OpenGroup(key)
	if err != nil {
		return 0, errors.Wrapf(err, "opening group %q in %q", key, f.path)
	}
	defer grp.Close()

	dset, err := grp.OpenDataset(column)
	if err != nil {
		return 0, errors.Wrapf(err, "opening column %q in %q", column, f.path)
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return 0, errors.Wrapf(err, "reading extent of column %q", column)
	}
	if len(dims) != 1 {
		return 0, errors.Newf("h5: column %q in %q is not 1-D", column, f.path)
	}
	return int(dims[0]), nil
}

// HasColumn reports whether the group contains the named dataset.
func (f *File) HasColumn(key, name string) bool {
	grp, err := f.f.OpenGroup(key)
	if err != nil {
		return false
	}
	defer grp.Close()

	dset, err := grp.OpenDataset(name)
	if err != nil {
		return false
	}
	dset.Close()
	return true
}

// ColumnNames lists the datasets in the group, in file order.
func (f *File) ColumnNames(key string) ([]string, error) {
	grp, err := f.f.OpenGroup(key)
	if err != nil {
		return nil, errors.Wrapf(err, "opening group %q in %q", key, f.path)
	}
	defer grp.Close()

	n, err := grp.NumObjects()
	if err != nil {
		return nil, errors.Wrapf(err, "listing group %q", key)
	}
	names := make([]string, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := grp.ObjectNameByIndex(i)
		if err != nil {
			return nil, errors.Wrapf(err, "listing group %q", key)
		}
		names = append(names, name)
	}
	return names, nil
}

// ReadColumnRange reads count values of the named column starting at
// offset. Stored integer or float32 columns are converted to float64 by
// the HDF5 library.
func (f *File) ReadColumnRange(key, name string, offset, count int) ([]float64, error) {
	if count == 0 {
		return []float64{}, nil
	}
	grp, err := f.f.OpenGroup(key)
	if err != nil {
		return nil, errors.Wrapf(err, "opening group %q in %q", key, f.path)
	}
	defer grp.Close()

	dset, err := grp.OpenDataset(name)
	if err != nil {
		return nil, errors.Wrapf(err, "opening column %q in %q", name, f.path)
	}
	defer dset.Close()

	filespace := dset.Space()
	defer filespace.Close()

	if err := filespace.SelectHyperslab([]int{offset}, nil, []int{count}, nil); err != nil {
		return nil, errors.Wrapf(err, "selecting rows [%d, %d) of column %q", offset, offset+count, name)
	}

	memspace, err := hdf5.CreateSimpleDataspace([]uint{uint(count)}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating memory dataspace")
	}
	defer memspace.Close()

	out := make([]float64, count)
	if err := dset.ReadSubset(&out, memspace, filespace); err != nil {
		return nil, errors.Wrapf(err, "reading rows [%d, %d) of column %q", offset, offset+count, name)
	}
	return out, nil
}

// CreateColumn creates the named float64 column filled with the given
// value. The column must not exist yet.
func (f *File) CreateColumn(key, name string, n int, fill float64) error {
	grp, err := f.f.OpenGroup(key)
	if err != nil {
		return errors.Wrapf(err, "opening group %q in %q", key, f.path)
	}
	defer grp.Close()

	space, err := hdf5.CreateSimpleDataspace([]uint{uint(n)}, nil)
	if err != nil {
		return errors.Wrap(err, "creating dataspace")
	}
	defer space.Close()

	dset, err := grp.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return errors.Wrapf(err, "creating column %q in %q", name, f.path)
	}
	defer dset.Close()

	values := make([]float64, n)
	if fill != 0 {
		for i := range values {
			values[i] = fill
		}
	}
	if err := dset.Write(&values); err != nil {
		return errors.Wrapf(err, "filling column %q", name)
	}
	return nil
}

// WriteColumnRange writes values into the named column starting at
// offset. The column must already exist and be long enough.
func (f *File) WriteColumnRange(key, name string, offset int, values []float64) error {
	grp, err := f.f.OpenGroup(key)
	if err != nil {
		return errors.Wrapf(err, "opening group %q in %q", key, f.path)
	}
	defer grp.Close()

	dset, err := grp.OpenDataset(name)
	if err != nil {
		return errors.Wrapf(err, "opening column %q in %q", name, f.path)
	}
	defer dset.Close()

	filespace := dset.Space()
	defer filespace.Close()

	dims, _, err := filespace.SimpleExtentDims()
	if err != nil {
		return errors.Wrapf(err, "reading extent of column %q", name)
	}
	if len(dims) != 1 || int(dims[0]) < offset+len(values) {
		return errors.NewDimensionError("WriteColumnRange", offset+len(values), int(dims[0]), 0)
	}

	if err := filespace.SelectHyperslab([]int{offset}, nil, []int{len(values)}, nil); err != nil {
		return errors.Wrapf(err, "selecting rows [%d, %d) of column %q", offset, offset+len(values), name)
	}

	memspace, err := hdf5.CreateSimpleDataspace([]uint{uint(len(values))}, nil)
	if err != nil {
		return errors.Wrap(err, "creating memory dataspace")
	}
	defer memspace.Close()

	if err := dset.WriteSubset(&values, memspace, filespace); err != nil {
		return errors.Wrapf(err, "writing rows [%d, %d) of column %q", offset, offset+len(values), name)
	}
	return nil
}

// EnsurePredictionColumn makes sure the named column exists with length n,
// NaN-filled. An existing column is re-filled in place so stale values
// from an earlier run never leak into rows a rerun does not reach.
func (f *File) EnsurePredictionColumn(key, name string, n int) error {
	if !f.HasColumn(key, name) {
		return f.CreateColumn(key, name, n, math.NaN())
	}

	length, err := f.NumRows(key, name)
	if err != nil {
		return err
	}
	if length != n {
		return errors.NewDimensionError("EnsurePredictionColumn", n, length, 0)
	}

	nan := make([]float64, n)
	for i := range nan {
		nan[i] = math.NaN()
	}
	return f.WriteColumnRange(key, name, 0, nan)
}

// ReadTable loads the named columns fully into a table. A nil column
// list loads every column in the group.
func ReadTable(path, key string, columns []string) (*dataset.Table, error) {
	f, err := OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if columns == nil {
		columns, err = f.ColumnNames(key)
		if err != nil {
			return nil, err
		}
	}
	if len(columns) == 0 {
		return nil, errors.Newf("h5: no columns to read from %q", path)
	}

	n, err := f.NumRows(key, columns[0])
	if err != nil {
		return nil, err
	}

	cols := make(map[string][]float64, len(columns))
	for _, name := range columns {
		data, err := f.ReadColumnRange(key, name, 0, n)
		if err != nil {
			return nil, err
		}
		cols[name] = data
	}
	return dataset.FromColumns(columns, cols)
}

// WriteTable writes the table as a fresh file with one dataset per
// column under the given group key.
func WriteTable(path, key string, t *dataset.Table) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	grp, err := f.f.CreateGroup(key)
	if err != nil {
		return errors.Wrapf(err, "creating group %q in %q", key, path)
	}
	defer grp.Close()

	for _, name := range t.Columns() {
		col, err := t.Column(name)
		if err != nil {
			return err
		}

		space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(col))}, nil)
		if err != nil {
			return errors.Wrap(err, "creating dataspace")
		}

		dset, err := grp.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
		if err != nil {
			space.Close()
			return errors.Wrapf(err, "creating column %q in %q", name, path)
		}

		err = dset.Write(&col)
		dset.Close()
		space.Close()
		if err != nil {
			return errors.Wrapf(err, "writing column %q to %q", name, path)
		}
	}
	return nil
}
