package nn

import (
	"fmt"
	"io"

	"golang.org/x/exp/constraints"

	"github.com/LexaHoods/tensorslow/internal/matrix"
)

// Parameter files are plain text: a matrix count, then each matrix as a
// "rows cols" line followed by its row-major entries. The engine itself
// supplies no serialization; models read and write their parameters here
// through the value accessors.

// writeMatrices writes a length-prefixed list of matrices to w.
func writeMatrices[T constraints.Float](w io.Writer, ms []*matrix.Dense[T]) error {
	if err := writeCount(w, len(ms)); err != nil {
		return err
	}
	for _, m := range ms {
		rows, cols := m.Dims()
		if _, err := fmt.Fprintln(w, rows, cols); err != nil {
			return err
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if c > 0 {
					if _, err := fmt.Fprint(w, " "); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintf(w, "%v", float64(m.At(r, c))); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// readMatrices reads a list written by writeMatrices.
func readMatrices[T constraints.Float](r io.Reader) ([]*matrix.Dense[T], error) {
	count, err := readCount(r)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("nn: negative matrix count %d", count)
	}

	ms := make([]*matrix.Dense[T], 0, count)
	for i := 0; i < count; i++ {
		var rows, cols int
		if _, err := fmt.Fscan(r, &rows, &cols); err != nil {
			return nil, fmt.Errorf("nn: reading matrix %d header: %w", i, err)
		}
		if rows <= 0 || cols <= 0 {
			return nil, fmt.Errorf("nn: matrix %d has shape %dx%d", i, rows, cols)
		}
		m := matrix.New[T](rows, cols)
		for rr := 0; rr < rows; rr++ {
			for cc := 0; cc < cols; cc++ {
				var v float64
				if _, err := fmt.Fscan(r, &v); err != nil {
					return nil, fmt.Errorf("nn: reading matrix %d entry (%d,%d): %w", i, rr, cc, err)
				}
				m.Set(rr, cc, T(v))
			}
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func writeCount(w io.Writer, n int) error {
	_, err := fmt.Fprintln(w, n)
	return err
}

func readCount(r io.Reader) (int, error) {
	var n int
	if _, err := fmt.Fscan(r, &n); err != nil {
		return 0, fmt.Errorf("nn: reading count: %w", err)
	}
	return n, nil
}
