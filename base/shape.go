package base

import (
	"fmt"

	"github.com/sugarme/gotch/ts"
)

// ShapeError reports a tensor that violates a network's input contract.
type ShapeError struct {
	Name  string
	Shape []int64
	Want  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: invalid shape %v, want %s", e.Name, e.Shape, e.Want)
}

// CheckInput verifies x is [B C H W] with C == channels, B >= 1 and both
// spatial sizes positive multiples of factor.
func CheckInput(name string, x *ts.Tensor, channels, factor int64) error {
	if x == nil {
		return &ShapeError{Name: name, Want: "non-nil tensor"}
	}
	size := x.MustSize()
	return CheckShape(name, size, channels, factor)
}

// CheckShape is CheckInput on a bare shape.
func CheckShape(name string, size []int64, channels, factor int64) error {
	want := fmt.Sprintf("[B %d H W] with H, W multiples of %d", channels, factor)
	if len(size) != 4 || size[0] < 1 || size[1] != channels {
		return &ShapeError{Name: name, Shape: size, Want: want}
	}
	for _, d := range size[2:] {
		if d <= 0 || d%factor != 0 {
			return &ShapeError{Name: name, Shape: size, Want: want}
		}
	}

	return nil
}
