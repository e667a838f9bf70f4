package unet

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/mangacolor/base"
	"github.com/sugarme/mangacolor/encoder"
)

// Factor is the total downsampling of the generator. Input height and
// width must be multiples of it.
const Factor int64 = 32

// OutChannels is the number of color channels produced.
const OutChannels int64 = 3

// Generator is the pix2pix UNet generator: grayscale [B 1 S S] in, color
// [B 3 S S] in [-1, 1] out.
// Ref: https://arxiv.org/abs/1611.07004
type Generator struct {
	encoder *encoder.Contracting
	decoder *Decoder
	head    *base.ColorHead
}

// NewGenerator creates a Generator with all its variables under p.
func NewGenerator(p *nn.Path) *Generator {
	stages, headIn := DecoderStages(encoder.Channels)

	return &Generator{
		encoder: encoder.NewContracting(p.Sub("encoder")),
		decoder: NewDecoder(p.Sub("decoder"), stages),
		head:    base.NewColorHead(p.Sub("final"), headIn, OutChannels),
	}
}

// Forward checks the input shape and runs the network. x is not consumed.
func (g *Generator) Forward(x *ts.Tensor, train bool) (*ts.Tensor, error) {
	if err := base.CheckInput("generator input", x, encoder.Channels[0], Factor); err != nil {
		return nil, err
	}

	return g.forward(x, train), nil
}

// ForwardT implements ts.ModuleT for Generator. It panics on an invalid
// input shape.
func (g *Generator) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	out, err := g.Forward(x, train)
	if err != nil {
		panic(err)
	}

	return out
}

func (g *Generator) forward(x *ts.Tensor, train bool) *ts.Tensor {
	features := g.encoder.ForwardAll(x, train)
	d := g.decoder.ForwardFeatures(features, train)
	out := g.head.ForwardT(d, train)

	for _, f := range features {
		f.MustDrop()
	}
	d.MustDrop()

	return out
}
