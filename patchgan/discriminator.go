// Package patchgan implements the conditional PatchGAN discriminator of
// pix2pix. It scores overlapping local patches instead of whole images.
package patchgan

import (
	"fmt"

	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/mangacolor/base"
)

const (
	// GrayChannels and ColorChannels are the channel counts of the two
	// inputs, concatenated in that order.
	GrayChannels  int64 = 1
	ColorChannels int64 = 3

	// Factor is the product of the strides (2, 2, 2, 1, 1).
	Factor int64 = 8

	// MinSize is the smallest input side giving a non-empty grid.
	MinSize int64 = 24
)

// OutputSize returns the logit grid side for an input side s: three
// stride-2 convs give s/8, each of the two stride-1 4x4 convs with
// padding 1 removes one more. 256 -> 30.
func OutputSize(s int64) int64 {
	return s/Factor - 2
}

// Discriminator is a 70x70 PatchGAN conditioned on the grayscale input.
type Discriminator struct {
	blocks []*base.ConvBlock
	logit  *nn.Conv2D
}

// NewDiscriminator creates a Discriminator with all its variables under p.
func NewDiscriminator(p *nn.Path) *Discriminator {
	cIn := GrayChannels + ColorChannels
	blocks := []*base.ConvBlock{
		base.NewConvBlock(p.Sub("conv1"), cIn, 64, 2, false),
		base.NewConvBlock(p.Sub("conv2"), 64, 128, 2, true),
		base.NewConvBlock(p.Sub("conv3"), 128, 256, 2, true),
		base.NewConvBlock(p.Sub("conv4"), 256, 512, 1, true),
	}

	return &Discriminator{
		blocks: blocks,
		logit:  base.Conv2d(p.Sub("logit"), 512, 1, 4, 1, 1),
	}
}

// Forward scores color conditioned on gray. Both must share batch and
// spatial sizes. The result is [B 1 S' S'] raw logits with
// S' = OutputSize(S). Inputs are not consumed.
func (d *Discriminator) Forward(gray, color *ts.Tensor, train bool) (*ts.Tensor, error) {
	if err := base.CheckInput("discriminator gray", gray, GrayChannels, Factor); err != nil {
		return nil, err
	}
	if err := base.CheckInput("discriminator color", color, ColorChannels, Factor); err != nil {
		return nil, err
	}
	gs, cs := gray.MustSize(), color.MustSize()
	if gs[0] != cs[0] || gs[2] != cs[2] || gs[3] != cs[3] {
		return nil, &base.ShapeError{
			Name:  "discriminator color",
			Shape: cs,
			Want:  fmt.Sprintf("[%d 3 %d %d] to match gray", gs[0], gs[2], gs[3]),
		}
	}
	if gs[2] < MinSize || gs[3] < MinSize {
		return nil, &base.ShapeError{
			Name:  "discriminator gray",
			Shape: gs,
			Want:  fmt.Sprintf("spatial sizes of at least %d", MinSize),
		}
	}

	x := ts.MustCat([]*ts.Tensor{gray, color}, 1)
	h := x
	for _, b := range d.blocks {
		next := b.ForwardT(h, train)
		h.MustDrop()
		h = next
	}
	logits := d.logit.ForwardT(h, train)
	h.MustDrop()

	return logits, nil
}

// MustForward is Forward that panics on invalid inputs.
func (d *Discriminator) MustForward(gray, color *ts.Tensor, train bool) *ts.Tensor {
	logits, err := d.Forward(gray, color, train)
	if err != nil {
		panic(err)
	}

	return logits
}
