package encoder

import (
	"fmt"

	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/mangacolor/base"
)

// Channels is the channel depth at the input and after each downsampling
// stage of the contracting path. The bottleneck keeps the last depth.
var Channels = []int64{1, 64, 128, 256, 512}

// Contracting is the pix2pix encoder: four stride-2 ConvBlocks and a
// stride-2 bottleneck, each halving the spatial size.
type Contracting struct {
	stages     []*base.ConvBlock
	bottleneck *base.ConvBlock
}

var _ Encoder = (*Contracting)(nil)

// NewContracting creates the encoder. The first stage has no batch norm
// since it sees raw pixel intensities.
func NewContracting(p *nn.Path) *Contracting {
	stages := make([]*base.ConvBlock, 0, len(Channels)-1)
	for i := 1; i < len(Channels); i++ {
		normalize := i > 1
		stages = append(stages, base.NewConvBlock(p.Sub(fmt.Sprintf("enc%d", i)), Channels[i-1], Channels[i], 2, normalize))
	}
	last := Channels[len(Channels)-1]

	return &Contracting{
		stages:     stages,
		bottleneck: base.NewConvBlock(p.Sub("bottleneck"), last, last, 2, true),
	}
}

// Depth is the number of stride-2 stages, bottleneck included.
func (e *Contracting) Depth() int {
	return len(e.stages) + 1
}

// ForwardAll implements Encoder interface for Contracting.
// For an input [B 1 S S] it returns
//
//	e1 [B  64 S/2  S/2 ]
//	e2 [B 128 S/4  S/4 ]
//	e3 [B 256 S/8  S/8 ]
//	e4 [B 512 S/16 S/16]
//	b  [B 512 S/32 S/32]
func (e *Contracting) ForwardAll(x *ts.Tensor, train bool) []*ts.Tensor {
	features := make([]*ts.Tensor, 0, e.Depth())
	h := x
	for _, s := range e.stages {
		h = s.ForwardT(h, train)
		features = append(features, h)
	}
	features = append(features, e.bottleneck.ForwardT(h, train))

	return features
}
