package unet

import (
	"fmt"

	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/mangacolor/base"
)

// UpBlock is a stride-2 transposed conv, batch norm and ReLU. It doubles
// the spatial size.
type UpBlock struct {
	Deconv *nn.ConvTranspose2D
	Bn     *nn.BatchNorm
}

// NewUpBlock creates an UpBlock.
func NewUpBlock(p *nn.Path, cIn, cOut int64) *UpBlock {
	return &UpBlock{
		Deconv: base.ConvTranspose2d(p.Sub("deconv"), cIn, cOut, 4, 1, 2),
		Bn:     nn.BatchNorm2D(p.Sub("bn"), cOut, nn.DefaultBatchNormConfig()),
	}
}

// ForwardT implements ts.ModuleT for UpBlock.
func (u *UpBlock) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	d := u.Deconv.Forward(x)
	bn := u.Bn.ForwardT(d, train)
	d.MustDrop()

	return bn.MustRelu(true)
}

// ForwardSkip upsamples x and concatenates skip after it along the
// channel dimension.
func (u *UpBlock) ForwardSkip(x, skip *ts.Tensor, train bool) *ts.Tensor {
	up := u.ForwardT(x, train)
	cat := ts.MustCat([]*ts.Tensor{up, skip}, 1)
	up.MustDrop()

	return cat
}

// Stage is the channel width of one decoder stage.
type Stage struct {
	In   int64 // upsampled input, skip of the previous stage included
	Out  int64 // transposed conv output, before concatenation
	Skip int64 // encoder channels concatenated after Out
}

// DecoderStages derives the expanding path from the encoder channel table
// (input channels first, bottleneck depth equal to the last entry).
// It also returns the channel count entering the output head.
//
// For [1 64 128 256 512]:
//
//	512 -> 512 (+512) = 1024
//	1024 -> 256 (+256) = 512
//	512 -> 128 (+128) = 256
//	256 -> 64 (+64) = 128
func DecoderStages(encoderChannels []int64) ([]Stage, int64) {
	enc := encoderChannels[1:]
	n := len(enc)
	stages := make([]Stage, 0, n)
	in := enc[n-1]
	for k := 0; k < n; k++ {
		out := enc[n-1-k]
		stages = append(stages, Stage{In: in, Out: out, Skip: out})
		in = out + out
	}

	return stages, in
}

// Decoder is the expanding path of the generator.
type Decoder struct {
	ups []*UpBlock
}

// NewDecoder creates a Decoder for the given stage table.
func NewDecoder(p *nn.Path, stages []Stage) *Decoder {
	ups := make([]*UpBlock, 0, len(stages))
	for k, s := range stages {
		ups = append(ups, NewUpBlock(p.Sub(fmt.Sprintf("dec%d", len(stages)-k)), s.In, s.Out))
	}

	return &Decoder{ups: ups}
}

// ForwardFeatures consumes the encoder record [e1 ... en bottleneck]
// deepest first: each stage upsamples and appends the encoder output of
// matching resolution.
func (d *Decoder) ForwardFeatures(features []*ts.Tensor, train bool) *ts.Tensor {
	if len(features) != len(d.ups)+1 {
		panic(fmt.Sprintf("Expected features of %d tensors. Got %d", len(d.ups)+1, len(features)))
	}

	h := features[len(features)-1]
	for k, up := range d.ups {
		skip := features[len(features)-2-k]
		next := up.ForwardSkip(h, skip, train)
		if k > 0 {
			h.MustDrop()
		}
		h = next
	}

	return h
}
