package nn

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a dense row-major matrix of float64 values.
// rows*cols elements live in a single flat slice, so a Matrix is either fully
// allocated or not allocated at all.
type Matrix struct {
	rows, cols int
	data       []float64 // length == rows*cols
}

// maxElements caps the size of a single matrix (16 GiB of float64).
const maxElements = math.MaxInt32

// NewMatrix creates a rows×cols matrix filled with zeros.
// Matrices of more than maxElements values are refused with ErrAllocation.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("matrix %dx%d: %w", rows, cols, ErrAllocation)
	}
	if rows > maxElements/cols {
		return nil, fmt.Errorf("matrix %dx%d is too large: %w", rows, cols, ErrAllocation)
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// NewMatrixFromRows copies a rectangular grid into a new Matrix.
func NewMatrixFromRows(grid [][]float64) (*Matrix, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("matrix from empty grid: %w", ErrAllocation)
	}
	m, err := NewMatrix(len(grid), len(grid[0]))
	if err != nil {
		return nil, err
	}
	for i, row := range grid {
		if len(row) != m.cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), m.cols, ErrDimensionMismatch)
		}
		copy(m.data[i*m.cols:], row)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the element at (r, c). It panics if the index is out of range.
func (m *Matrix) At(r, c int) float64 {
	return m.data[m.offset(r, c)]
}

// Set assigns v at (r, c). It panics if the index is out of range.
func (m *Matrix) Set(r, c int, v float64) {
	m.data[m.offset(r, c)] = v
}

// Row returns row r as a slice backed by the matrix storage.
// Writes through the slice modify the matrix.
func (m *Matrix) Row(r int) []float64 {
	if r < 0 || r >= m.rows {
		panic(fmt.Sprintf("nn: row %d out of range [0,%d)", r, m.rows))
	}
	return m.data[r*m.cols : (r+1)*m.cols : (r+1)*m.cols]
}

func (m *Matrix) offset(r, c int) int {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("nn: index (%d,%d) out of range for %dx%d matrix", r, c, m.rows, m.cols))
	}
	return r*m.cols + c
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Matrix{rows: m.rows, cols: m.cols, data: data}
}

// SameShape reports whether m and o have identical dimensions.
func (m *Matrix) SameShape(o *Matrix) bool {
	return m.rows == o.rows && m.cols == o.cols
}

// Equal reports whether m and o have the same shape and bit-identical elements.
func (m *Matrix) Equal(o *Matrix) bool {
	if !m.SameShape(o) {
		return false
	}
	for i, v := range m.data {
		if v != o.data[i] {
			return false
		}
	}
	return true
}

// String renders the matrix one bracketed row per line, for debugging.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.cols+j])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// Dot returns the matrix product a×b as a new (a.Rows(), b.Cols()) matrix.
// The product is a plain triple loop accumulating in k order.
func Dot(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, fmt.Errorf("dot %dx%d by %dx%d: %w", a.rows, a.cols, b.rows, b.cols, ErrDimensionMismatch)
	}
	out, err := NewMatrix(a.rows, b.cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < a.rows; i++ {
		arow := a.data[i*a.cols : (i+1)*a.cols]
		orow := out.data[i*out.cols : (i+1)*out.cols]
		for j := 0; j < b.cols; j++ {
			sum := 0.0
			for k, av := range arow {
				sum += av * b.data[k*b.cols+j]
			}
			orow[j] = sum
		}
	}
	return out, nil
}

// AddBiasRow adds the single row of bias to every row of m, in place.
// m is left untouched when the shapes are incompatible.
func AddBiasRow(m, bias *Matrix) error {
	if bias.rows != 1 || bias.cols != m.cols {
		return fmt.Errorf("bias %dx%d for %dx%d matrix: %w", bias.rows, bias.cols, m.rows, m.cols, ErrDimensionMismatch)
	}
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		for j, b := range bias.data {
			row[j] += b
		}
	}
	return nil
}

// ApplySigmoid replaces every element x of m with Sigmoid(x).
func ApplySigmoid(m *Matrix) {
	for i, v := range m.data {
		m.data[i] = Sigmoid(v)
	}
}
