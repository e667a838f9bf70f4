package base

import (
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"
)

// Config holds where tensors live and their numeric precision. It is
// passed explicitly to everything that creates tensors or parameters.
type Config struct {
	Device gotch.Device
	DType  gotch.DType
}

// DefaultConfig returns a float32 CPU config.
func DefaultConfig() Config {
	return Config{Device: gotch.CPU, DType: gotch.Float}
}

// CudaConfig returns a float32 config on the first CUDA device, or CPU
// when CUDA is not available.
func CudaConfig() Config {
	return Config{Device: gotch.CudaIfAvailable(), DType: gotch.Float}
}

// NewVarStore creates an empty variable store for one network. Networks
// must not share a store.
func (c Config) NewVarStore() *nn.VarStore {
	vs := nn.NewVarStore(c.Device)
	if c.DType != gotch.Float {
		vs.ToDType(c.DType)
	}

	return vs
}

// Move places x on the configured device with the configured dtype.
// x is consumed.
func (c Config) Move(x *ts.Tensor) *ts.Tensor {
	return x.MustTo(c.Device, true).MustTotype(c.DType, true)
}
