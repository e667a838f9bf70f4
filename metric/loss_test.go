package metric_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/mangacolor/metric"
)

func TestPatchLoss(t *testing.T) {
	logits := ts.MustZeros([]int64{2, 1, 30, 30}, gotch.Float, gotch.CPU)
	defer logits.MustDrop()

	real := metric.PatchLoss(logits, true)
	fake := metric.PatchLoss(logits, false)
	defer real.MustDrop()
	defer fake.MustDrop()

	// sigmoid(0) = 0.5 for every patch.
	assert.InDelta(t, math.Ln2, metric.Value(real), 1e-5)
	assert.InDelta(t, math.Ln2, metric.Value(fake), 1e-5)
}

func TestPatchLossConfident(t *testing.T) {
	logits := ts.MustOfSlice([]float32{10, 10, 10, 10}).MustView([]int64{1, 1, 2, 2}, true)
	defer logits.MustDrop()

	real := metric.PatchLoss(logits, true)
	fake := metric.PatchLoss(logits, false)
	defer real.MustDrop()
	defer fake.MustDrop()

	assert.Less(t, metric.Value(real), 1e-3)
	assert.InDelta(t, 10.0, metric.Value(fake), 1e-3)
}

func TestL1(t *testing.T) {
	pred := ts.MustOfSlice([]float32{1, 0, -1, 0.5}).MustView([]int64{1, 1, 2, 2}, true)
	target := ts.MustOfSlice([]float32{1, 1, 1, 0.5}).MustView([]int64{1, 1, 2, 2}, true)
	defer pred.MustDrop()
	defer target.MustDrop()

	l := metric.L1(pred, target)
	defer l.MustDrop()

	assert.InDelta(t, 0.75, metric.Value(l), 1e-6)
}
