package base

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"
)

// LeakySlope is the negative slope of every leaky ReLU in the networks.
const LeakySlope = 0.2

// Conv2d creates Conv2D module.
func Conv2d(p *nn.Path, cIn, cOut, ksize, padding, stride int64) *nn.Conv2D {
	config := nn.DefaultConv2DConfig()
	config.Stride = []int64{stride, stride}
	config.Padding = []int64{padding, padding}

	return nn.NewConv2D(p, cIn, cOut, ksize, config)
}

// ConvTranspose2d creates ConvTranspose2D module with a square kernel.
//
// libtorch's conv_transpose2d reads the weight as [cIn cOut k k], so the
// variables are allocated here rather than through nn.NewConvTranspose2D,
// which lays them out as [cOut cIn k k].
func ConvTranspose2d(p *nn.Path, cIn, cOut, ksize, padding, stride int64) *nn.ConvTranspose2D {
	config := &nn.ConvTranspose2DConfig{
		Stride:        []int64{stride, stride},
		Padding:       []int64{padding, padding},
		OutputPadding: []int64{0, 0},
		Dilation:      []int64{1, 1},
		Groups:        1,
		Bias:          true,
		WsInit:        nn.NewKaimingUniformInit(),
		BsInit:        nn.NewConstInit(0),
	}

	return &nn.ConvTranspose2D{
		Ws:     p.MustNewVar("weight", []int64{cIn, cOut, ksize, ksize}, config.WsInit),
		Bs:     p.MustNewVar("bias", []int64{cOut}, config.BsInit),
		Config: config,
	}
}

// LeakyRelu applies max(x, slope*x) for 0 < slope < 1,
// computed as slope*x + (1-slope)*relu(x).
func LeakyRelu(x *ts.Tensor, slope float64) *ts.Tensor {
	lin := x.MustMulScalar(ts.FloatScalar(slope), false)
	pos := x.MustRelu(false).MustMulScalar(ts.FloatScalar(1-slope), true)
	out := lin.MustAdd(pos, true)
	pos.MustDrop()

	return out
}

// ConvBlock is a 4x4 convolution with padding 1, an optional batch norm
// and a leaky ReLU.
type ConvBlock struct {
	Conv *nn.Conv2D
	Bn   *nn.BatchNorm // nil for the unnormalized first stages
}

// NewConvBlock creates a ConvBlock. Stride 2 halves the spatial size,
// stride 1 shrinks it by one.
func NewConvBlock(p *nn.Path, cIn, cOut, stride int64, normalize bool) *ConvBlock {
	conv := Conv2d(p.Sub("conv"), cIn, cOut, 4, 1, stride)
	var bn *nn.BatchNorm
	if normalize {
		bn = nn.BatchNorm2D(p.Sub("bn"), cOut, nn.DefaultBatchNormConfig())
	}

	return &ConvBlock{Conv: conv, Bn: bn}
}

// ForwardT implements ts.ModuleT for ConvBlock.
func (b *ConvBlock) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	out := b.Conv.ForwardT(x, train)
	if b.Bn != nil {
		bn := b.Bn.ForwardT(out, train)
		out.MustDrop()
		out = bn
	}
	res := LeakyRelu(out, LeakySlope)
	out.MustDrop()

	return res
}
