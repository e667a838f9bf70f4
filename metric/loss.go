// Package metric holds the loss terms a pix2pix training harness computes
// from the networks' outputs.
package metric

import (
	"github.com/sugarme/gotch/ts"
)

// reductionMean is libtorch's Reduction::Mean.
const reductionMean int64 = 1

// PatchLoss is the mean binary cross-entropy of a patch logit grid
// against an all-real (real = true) or all-fake target grid.
func PatchLoss(logits *ts.Tensor, real bool) *ts.Tensor {
	var target *ts.Tensor
	if real {
		target = logits.MustOnesLike(false)
	} else {
		target = logits.MustZerosLike(false)
	}
	loss := logits.MustBinaryCrossEntropyWithLogits(target, nil, nil, reductionMean, false)
	target.MustDrop()

	return loss
}

// L1 is the mean absolute difference between pred and target.
func L1(pred, target *ts.Tensor) *ts.Tensor {
	return pred.MustL1Loss(target, reductionMean, false)
}

// Value returns a scalar tensor as float64.
func Value(x *ts.Tensor) float64 {
	return x.Float64Values()[0]
}
