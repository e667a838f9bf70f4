package base

import "github.com/sugarme/gotch/ts"

// Mean and Std map [0, 1] intensities onto [-1, 1].
const (
	Mean = 0.5
	Std  = 0.5
)

// Normalize maps an intensity in [0, 1] to [-1, 1].
func Normalize(v float32) float32 {
	return (v - Mean) / Std
}

// Denormalize is the inverse of Normalize.
func Denormalize(v float32) float32 {
	return v*Std + Mean
}

// NormalizeTensor applies Normalize elementwise.
func NormalizeTensor(x *ts.Tensor, del bool) *ts.Tensor {
	return x.MustAddScalar(ts.FloatScalar(-Mean), del).MustMulScalar(ts.FloatScalar(1/Std), true)
}

// DenormalizeTensor applies Denormalize elementwise.
func DenormalizeTensor(x *ts.Tensor, del bool) *ts.Tensor {
	return x.MustMulScalar(ts.FloatScalar(Std), del).MustAddScalar(ts.FloatScalar(Mean), true)
}
