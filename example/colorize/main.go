package main

import (
	"log"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/mangacolor/base"
	"github.com/sugarme/mangacolor/dataset"
	"github.com/sugarme/mangacolor/metric"
	"github.com/sugarme/mangacolor/patchgan"
	"github.com/sugarme/mangacolor/unet"
)

var (
	dataDir string
	size    int
	index   int
	outFile string
	cuda    bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "colorize",
		Short: "Run an untrained pix2pix generator and discriminator on one manga page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", "data/train", "directory of color pages")
	cmd.Flags().IntVar(&size, "size", dataset.DefaultSize, "square image size, multiple of 32")
	cmd.Flags().IntVar(&index, "index", 0, "sample index")
	cmd.Flags().StringVar(&outFile, "out", "colorized.png", "output image")
	cmd.Flags().BoolVar(&cuda, "cuda", false, "use CUDA if available")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := base.DefaultConfig()
	if cuda {
		cfg = base.CudaConfig()
	}

	ds, err := dataset.New(dataDir, dataset.WithSize(size), dataset.WithConfig(cfg))
	if err != nil {
		return err
	}
	log.Printf("Dataset loaded: %v images\n", ds.Len())

	pair, err := ds.Pair(index)
	if err != nil {
		return err
	}
	defer pair.MustDrop()
	log.Printf("Gray shape: %v\n", pair.Gray.MustSize())
	log.Printf("Color shape: %v\n", pair.Color.MustSize())

	gvs := cfg.NewVarStore()
	dvs := cfg.NewVarStore()
	g := unet.NewGenerator(gvs.Root())
	d := patchgan.NewDiscriminator(dvs.Root())

	s := int64(ds.Size())
	gray := pair.Gray.MustView([]int64{1, 1, s, s}, false)
	color := pair.Color.MustView([]int64{1, 3, s, s}, false)
	defer gray.MustDrop()
	defer color.MustDrop()

	var runErr error
	ts.NoGrad(func() {
		fake, err := g.Forward(gray, false)
		if err != nil {
			runErr = err
			return
		}
		defer fake.MustDrop()
		log.Printf("Generator: %v -> %v\n", gray.MustSize(), fake.MustSize())

		realLogits, err := d.Forward(gray, color, false)
		if err != nil {
			runErr = err
			return
		}
		defer realLogits.MustDrop()
		fakeLogits := d.MustForward(gray, fake, false)
		defer fakeLogits.MustDrop()
		log.Printf("Discriminator: %v\n", fakeLogits.MustSize())

		lossReal := metric.PatchLoss(realLogits, true)
		lossFake := metric.PatchLoss(fakeLogits, false)
		l1 := metric.L1(fake, color)
		log.Printf("D real: %.4f - D fake: %.4f - L1: %.4f\n", metric.Value(lossReal), metric.Value(lossFake), metric.Value(l1))
		lossReal.MustDrop()
		lossFake.MustDrop()
		l1.MustDrop()

		img, err := dataset.ToImage(fake)
		if err != nil {
			runErr = err
			return
		}
		runErr = imaging.Save(img, outFile)
	})
	if runErr != nil {
		return runErr
	}
	log.Printf("Saved %v\n", outFile)

	return nil
}
