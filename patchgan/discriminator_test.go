package patchgan_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/mangacolor/base"
	"github.com/sugarme/mangacolor/patchgan"
	"github.com/sugarme/mangacolor/unet"
)

func TestOutputSize(t *testing.T) {
	assert.Equal(t, int64(30), patchgan.OutputSize(256))
	assert.Equal(t, int64(6), patchgan.OutputSize(64))
	assert.Equal(t, int64(1), patchgan.OutputSize(patchgan.MinSize))
}

func TestDiscriminatorShape(t *testing.T) {
	vs := base.DefaultConfig().NewVarStore()
	net := patchgan.NewDiscriminator(vs.Root())

	for _, tc := range []struct{ batch, s int64 }{{1, 64}, {3, 64}, {2, 32}, {1, 128}} {
		gray := ts.MustRand([]int64{tc.batch, 1, tc.s, tc.s}, gotch.Float, gotch.CPU)
		color := ts.MustRand([]int64{tc.batch, 3, tc.s, tc.s}, gotch.Float, gotch.CPU)

		ts.NoGrad(func() {
			logits, err := net.Forward(gray, color, false)
			require.NoError(t, err)
			p := patchgan.OutputSize(tc.s)
			assert.Equal(t, []int64{tc.batch, 1, p, p}, logits.MustSize())
			assert.Less(t, p, tc.s)
			logits.MustDrop()
		})
		gray.MustDrop()
		color.MustDrop()
	}
}

func TestDiscriminatorOnGeneratorOutput(t *testing.T) {
	gvs := base.DefaultConfig().NewVarStore()
	dvs := base.DefaultConfig().NewVarStore()
	g := unet.NewGenerator(gvs.Root())
	d := patchgan.NewDiscriminator(dvs.Root())

	gray := ts.MustRand([]int64{1, 1, 256, 256}, gotch.Float, gotch.CPU)
	defer gray.MustDrop()

	ts.NoGrad(func() {
		fake := g.ForwardT(gray, false)
		defer fake.MustDrop()
		assert.Equal(t, []int64{1, 3, 256, 256}, fake.MustSize())

		logits := d.MustForward(gray, fake, false)
		defer logits.MustDrop()
		assert.Equal(t, []int64{1, 1, 30, 30}, logits.MustSize())
	})
}

func TestDiscriminatorInvalidInput(t *testing.T) {
	vs := base.DefaultConfig().NewVarStore()
	net := patchgan.NewDiscriminator(vs.Root())

	tests := []struct {
		name        string
		gray, color []int64
	}{
		{"gray channels", []int64{1, 3, 64, 64}, []int64{1, 3, 64, 64}},
		{"color channels", []int64{1, 1, 64, 64}, []int64{1, 1, 64, 64}},
		{"spatial mismatch", []int64{1, 1, 64, 64}, []int64{1, 3, 32, 32}},
		{"batch mismatch", []int64{2, 1, 64, 64}, []int64{1, 3, 64, 64}},
		{"not multiple", []int64{1, 1, 60, 60}, []int64{1, 3, 60, 60}},
		{"too small", []int64{1, 1, 16, 16}, []int64{1, 3, 16, 16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := ts.MustZeros(tt.gray, gotch.Float, gotch.CPU)
			color := ts.MustZeros(tt.color, gotch.Float, gotch.CPU)
			defer gray.MustDrop()
			defer color.MustDrop()

			logits, err := net.Forward(gray, color, false)
			assert.Nil(t, logits)
			var se *base.ShapeError
			assert.True(t, errors.As(err, &se))
			assert.Panics(t, func() { net.MustForward(gray, color, false) })
		})
	}
}

func TestDiscriminatorParameters(t *testing.T) {
	vs := base.DefaultConfig().NewVarStore()
	patchgan.NewDiscriminator(vs.Root())

	// 5 convs and 3 batch norms, each with weight and bias.
	assert.Equal(t, 16, len(vs.TrainableVariables()))
}
