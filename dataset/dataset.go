// Package dataset provides paired (grayscale, color) training samples
// built from a directory of color images.
package dataset

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/mangacolor/base"
)

// DefaultSize is the default side of the square sample tensors.
const DefaultSize = 256

var (
	// ErrNoImages is returned by New when the directory holds no eligible
	// image file.
	ErrNoImages = errors.New("no images found")
	// ErrInvalidSize is returned by New for a non-positive size.
	ErrInvalidSize = errors.New("target size must be positive")
	// ErrIndexOutOfRange is wrapped by IndexError.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// IndexError reports an access outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("dataset: index %d out of range [0, %d)", e.Index, e.Len)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

var extensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Eligible reports whether a file name has an accepted image extension.
func Eligible(name string) bool {
	return extensions[strings.ToLower(filepath.Ext(name))]
}

// Pair is one training sample. Gray is [1 S S], Color is [3 S S], both in
// [-1, 1].
type Pair struct {
	Gray  *ts.Tensor
	Color *ts.Tensor
}

// MustDrop frees both tensors.
func (p *Pair) MustDrop() {
	p.Gray.MustDrop()
	p.Color.MustDrop()
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithSize sets the side of the square sample tensors.
func WithSize(size int) Option {
	return func(ds *Dataset) { ds.size = size }
}

// WithResampler sets the resize filter.
func WithResampler(r Resampler) Option {
	return func(ds *Dataset) { ds.resampler = r }
}

// WithConfig sets device and dtype of the produced tensors.
func WithConfig(cfg base.Config) Option {
	return func(ds *Dataset) { ds.cfg = cfg }
}

// Dataset is a paired sample source over the image files of one
// directory. Samples are decoded on every access; nothing is cached.
type Dataset struct {
	dir       string
	fnames    []string
	size      int
	resampler Resampler
	cfg       base.Config
}

// New enumerates the .jpg, .jpeg and .png files directly inside dir,
// sorted by name. Subdirectories are not traversed.
func New(dir string, opts ...Option) (*Dataset, error) {
	ds := &Dataset{
		dir:       dir,
		size:      DefaultSize,
		resampler: DefaultResampler,
		cfg:       base.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(ds)
	}
	if ds.size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "got %d", ds.size)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read dataset directory")
	}
	for _, e := range entries {
		if !Eligible(e.Name()) || !isFile(dir, e) {
			continue
		}
		ds.fnames = append(ds.fnames, e.Name())
	}
	if len(ds.fnames) == 0 {
		return nil, errors.Wrapf(ErrNoImages, "in %v", dir)
	}
	sort.Strings(ds.fnames)

	return ds, nil
}

// isFile reports whether e is a file, following symlinks. Broken links
// are skipped.
func isFile(dir string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return !e.IsDir()
	}
	fi, err := os.Stat(filepath.Join(dir, e.Name()))
	if err != nil {
		return false
	}

	return !fi.IsDir()
}

// Len returns the number of samples.
func (ds *Dataset) Len() int {
	return len(ds.fnames)
}

// Size returns the side of the sample tensors.
func (ds *Dataset) Size() int {
	return ds.size
}

// Path returns the file path of sample idx.
func (ds *Dataset) Path(idx int) (string, error) {
	if idx < 0 || idx >= len(ds.fnames) {
		return "", &IndexError{Index: idx, Len: len(ds.fnames)}
	}

	return filepath.Join(ds.dir, ds.fnames[idx]), nil
}

// Planes decodes sample idx into normalized pixel planes.
func (ds *Dataset) Planes(idx int) (*Planes, error) {
	path, err := ds.Path(idx)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load image %v", path)
	}

	return MakePlanes(img, ds.size, ds.resampler), nil
}

// Pair returns sample idx as a (gray, color) tensor pair.
func (ds *Dataset) Pair(idx int) (*Pair, error) {
	p, err := ds.Planes(idx)
	if err != nil {
		return nil, err
	}
	s := int64(p.Size)

	gray, err := ts.OfSlice(p.Gray)
	if err != nil {
		return nil, err
	}
	color, err := ts.OfSlice(p.Color)
	if err != nil {
		gray.MustDrop()
		return nil, err
	}

	return &Pair{
		Gray:  ds.cfg.Move(gray.MustView([]int64{1, s, s}, true)),
		Color: ds.cfg.Move(color.MustView([]int64{3, s, s}, true)),
	}, nil
}

// Item implements the gotch dutil.Dataset interface. It returns a Pair.
func (ds *Dataset) Item(idx int) (interface{}, error) {
	return ds.Pair(idx)
}

// DType implements the gotch dutil.Dataset interface. It is the type
// returned by Item.
func (ds *Dataset) DType() reflect.Type {
	return reflect.TypeOf(&Pair{})
}

// ToImage converts a normalized color tensor, [3 S S] or [1 3 S S], back
// to an image.
func ToImage(x *ts.Tensor) (image.Image, error) {
	size := x.MustSize()
	if len(size) == 4 && size[0] == 1 {
		size = size[1:]
	}
	if len(size) != 3 || size[0] != 3 || size[1] != size[2] {
		return nil, &base.ShapeError{Name: "color image", Shape: x.MustSize(), Want: "[3 S S] or [1 3 S S]"}
	}

	cpu := x.MustTo(gotch.CPU, false)
	vals := cpu.Float64Values()
	cpu.MustDrop()
	planes := make([]float32, len(vals))
	for i, v := range vals {
		planes[i] = float32(v)
	}

	return PlanesImage(planes, int(size[1])), nil
}
