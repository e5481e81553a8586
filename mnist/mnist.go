// Package mnist reads the MNIST handwritten digit dataset from IDX files.
package mnist

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/baldhumanity/evonet/evolve/nn"
)

const (
	ImageRows  = 28
	ImageCols  = 28
	ImageSize  = ImageRows * ImageCols
	NumClasses = 10

	imageMagic = 2051
	labelMagic = 2049
)

var (
	// ErrBadMagic is returned when a file does not start with the expected IDX magic number.
	ErrBadMagic = errors.New("mnist: bad magic number")

	// ErrCountMismatch is returned when image and label files disagree on the sample count.
	ErrCountMismatch = errors.New("mnist: image and label counts differ")

	// ErrBadLabel is returned for a label byte outside [0, NumClasses).
	ErrBadLabel = errors.New("mnist: label out of range")
)

// Dataset holds normalized images and one-hot labels, one sample per row.
type Dataset struct {
	Images *nn.Matrix // Len() x (rows*cols), pixels scaled to [0,1]
	Labels *nn.Matrix // Len() x NumClasses, exactly one 1.0 per row
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return d.Images.Rows() }

// Pixels returns the image of sample i. The slice aliases the dataset.
func (d *Dataset) Pixels(i int) []float64 { return d.Images.Row(i) }

// Label returns the one-hot label of sample i. The slice aliases the dataset.
func (d *Dataset) Label(i int) []float64 { return d.Labels.Row(i) }

// Class returns the digit of sample i, or -1 if its label has no hot entry.
func (d *Dataset) Class(i int) int {
	for c, v := range d.Labels.Row(i) {
		if v == 1.0 {
			return c
		}
	}
	return -1
}

// Load reads an IDX image file and its matching IDX label file.
// Paths ending in ".gz" are decompressed transparently.
func Load(imagePath, labelPath string) (*Dataset, error) {
	imageFile, err := openIDX(imagePath)
	if err != nil {
		return nil, err
	}
	defer imageFile.Close()

	labelFile, err := openIDX(labelPath)
	if err != nil {
		return nil, err
	}
	defer labelFile.Close()

	var imageHeader struct{ Magic, Count, Rows, Cols uint32 }
	if err := binary.Read(imageFile, binary.BigEndian, &imageHeader); err != nil {
		return nil, fmt.Errorf("read image header of '%s': %w", imagePath, err)
	}
	if imageHeader.Magic != imageMagic {
		return nil, fmt.Errorf("image file '%s' has magic %d, want %d: %w", imagePath, imageHeader.Magic, imageMagic, ErrBadMagic)
	}

	var labelHeader struct{ Magic, Count uint32 }
	if err := binary.Read(labelFile, binary.BigEndian, &labelHeader); err != nil {
		return nil, fmt.Errorf("read label header of '%s': %w", labelPath, err)
	}
	if labelHeader.Magic != labelMagic {
		return nil, fmt.Errorf("label file '%s' has magic %d, want %d: %w", labelPath, labelHeader.Magic, labelMagic, ErrBadMagic)
	}
	if imageHeader.Count != labelHeader.Count {
		return nil, fmt.Errorf("%d images, %d labels: %w", imageHeader.Count, labelHeader.Count, ErrCountMismatch)
	}

	count := int(imageHeader.Count)
	size := int(imageHeader.Rows) * int(imageHeader.Cols)
	ds, err := newDataset(count, size)
	if err != nil {
		return nil, err
	}

	pixels := make([]byte, size)
	var label [1]byte
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(imageFile, pixels); err != nil {
			return nil, fmt.Errorf("read image %d: %w", i, err)
		}
		row := ds.Images.Row(i)
		for j, px := range pixels {
			row[j] = float64(px) / 255.0
		}

		if _, err := io.ReadFull(labelFile, label[:]); err != nil {
			return nil, fmt.Errorf("read label %d: %w", i, err)
		}
		if int(label[0]) >= NumClasses {
			return nil, fmt.Errorf("label %d is %d: %w", i, label[0], ErrBadLabel)
		}
		ds.Labels.Set(i, int(label[0]), 1.0)
	}
	return ds, nil
}

// NewRandom creates n samples of uniformly random pixels with random labels.
func NewRandom(n int, rng *rand.Rand) (*Dataset, error) {
	ds, err := newDataset(n, ImageSize)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		row := ds.Images.Row(i)
		for j := range row {
			row[j] = rng.Float64()
		}
		ds.Labels.Set(i, rng.Intn(NumClasses), 1.0)
	}
	return ds, nil
}

func newDataset(count, size int) (*Dataset, error) {
	images, err := nn.NewMatrix(count, size)
	if err != nil {
		return nil, fmt.Errorf("allocate %d images of %d pixels: %w", count, size, err)
	}
	labels, err := nn.NewMatrix(count, NumClasses)
	if err != nil {
		return nil, fmt.Errorf("allocate %d labels: %w", count, err)
	}
	return &Dataset{Images: images, Labels: labels}, nil
}

type idxFile struct {
	*bufio.Reader
	file *os.File
	gz   *gzip.Reader
}

func openIDX(path string) (*idxFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	f := &idxFile{file: file}
	var r io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("gzip reader for '%s': %w", path, err)
		}
		f.gz = gz
		r = gz
	}
	f.Reader = bufio.NewReader(r)
	return f, nil
}

func (f *idxFile) Close() error {
	if f.gz != nil {
		f.gz.Close()
	}
	return f.file.Close()
}
