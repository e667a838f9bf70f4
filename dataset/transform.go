package dataset

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"github.com/sugarme/mangacolor/base"
)

// Resampler resizes an image to size x size. The aspect ratio is not
// preserved: non-square sources are stretched.
type Resampler interface {
	Resize(img image.Image, size int) image.Image
}

// ImagingResampler resizes with disintegration/imaging.
type ImagingResampler struct {
	Filter imaging.ResampleFilter
}

// Resize implements Resampler.
func (r ImagingResampler) Resize(img image.Image, size int) image.Image {
	return imaging.Resize(img, size, size, r.Filter)
}

// NfntResampler resizes with nfnt/resize.
type NfntResampler struct {
	Interp resize.InterpolationFunction
}

// Resize implements Resampler.
func (r NfntResampler) Resize(img image.Image, size int) image.Image {
	return resize.Resize(uint(size), uint(size), img, r.Interp)
}

// DefaultResampler is bilinear.
var DefaultResampler Resampler = ImagingResampler{Filter: imaging.Linear}

// toRGB converts any decoded image (gray, paletted, CMYK, with alpha) to an
// opaque NRGBA image with origin (0, 0). Alpha is dropped without
// compositing: straight color values are kept for NRGBA, NRGBA64 and
// paletted sources, the rest go through draw.
func toRGB(src image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	switch s := src.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*w], s.Pix[i:i+4*w])
		}
	case *image.NRGBA64:
		for y := 0; y < h; y++ {
			i := s.PixOffset(b.Min.X, b.Min.Y+y)
			j := y * dst.Stride
			for x := 0; x < w; x++ {
				// high byte of each big-endian 16-bit sample
				dst.Pix[j+4*x] = s.Pix[i+8*x]
				dst.Pix[j+4*x+1] = s.Pix[i+8*x+2]
				dst.Pix[j+4*x+2] = s.Pix[i+8*x+4]
			}
		}
	case *image.Paletted:
		palette := make([]color.NRGBA, len(s.Palette))
		for k, c := range s.Palette {
			palette[k] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst.SetNRGBA(x, y, palette[s.ColorIndexAt(b.Min.X+x, b.Min.Y+y)])
			}
		}
	default:
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}

	return dst
}

// Luma is the 8-bit ITU-R 601-2 luma of an RGB pixel, rounded the way
// PIL converts RGB to L.
func Luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// Planes holds the normalized channel-major pixel data of one sample.
type Planes struct {
	Size  int
	Gray  []float32 // [1 Size Size]
	Color []float32 // [3 Size Size]
}

// MakePlanes converts src to RGB, resizes it once and derives both the
// color and the grayscale planes from the same resized pixels, so the
// two are pixel-registered.
func MakePlanes(src image.Image, size int, r Resampler) *Planes {
	rgb := toRGB(r.Resize(toRGB(src), size))
	n := size * size
	p := &Planes{
		Size:  size,
		Gray:  make([]float32, n),
		Color: make([]float32, 3*n),
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := rgb.NRGBAAt(x, y)
			i := y*size + x
			p.Color[i] = scale(c.R)
			p.Color[n+i] = scale(c.G)
			p.Color[2*n+i] = scale(c.B)
			p.Gray[i] = scale(Luma(c.R, c.G, c.B))
		}
	}

	return p
}

func scale(v uint8) float32 {
	return base.Normalize(float32(v) / 255)
}

// PlanesImage converts 3 normalized channel-major planes back to an image.
// Values are clamped to [0, 255].
func PlanesImage(color3 []float32, size int) *image.NRGBA {
	n := size * size
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := y*size + x
			img.SetNRGBA(x, y, color.NRGBA{
				R: unscale(color3[i]),
				G: unscale(color3[n+i]),
				B: unscale(color3[2*n+i]),
				A: 0xff,
			})
		}
	}

	return img
}

func unscale(v float32) uint8 {
	f := base.Denormalize(v)*255 + 0.5
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	}

	return uint8(f)
}
