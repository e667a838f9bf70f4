package encoder

import (
	"github.com/sugarme/gotch/ts"
)

// Encoder is the contracting path of an encoder-decoder network.
//
// ForwardAll returns every stage output in order, shallowest first. The
// last element is the bottleneck.
type Encoder interface {
	ForwardAll(x *ts.Tensor, train bool) []*ts.Tensor
}
