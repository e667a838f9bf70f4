package base

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"
)

// ColorHead is the generator's output layer: a stride-2 transposed conv
// followed by tanh so values land in [-1, 1], the range of normalized
// color tensors.
type ColorHead struct {
	Deconv *nn.ConvTranspose2D
}

// NewColorHead creates new ColorHead doubling the spatial size.
func NewColorHead(p *nn.Path, cIn, cOut int64) *ColorHead {
	return &ColorHead{Deconv: ConvTranspose2d(p, cIn, cOut, 4, 1, 2)}
}

// ForwardT implements ts.ModuleT for ColorHead.
func (h *ColorHead) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	return h.Deconv.Forward(x).MustTanh(true)
}
