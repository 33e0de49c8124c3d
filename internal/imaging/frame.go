package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/nfnt/resize"
)

// Rotate turns img clockwise by a multiple of 90 degrees.
func Rotate(img image.Image, degrees int) image.Image {
	degrees = ((degrees % 360) + 360) % 360
	if degrees == 0 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	var out *image.RGBA
	if degrees == 180 {
		out = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		out = image.NewRGBA(image.Rect(0, 0, h, w))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			switch degrees {
			case 90:
				out.Set(h-1-y, x, c)
			case 180:
				out.Set(w-1-x, h-1-y, c)
			case 270:
				out.Set(y, w-1-x, c)
			}
		}
	}
	return out
}

// Frame is an image scaled for a terminal area. Every cell shows two
// vertically stacked pixels, so Pixels is Cols wide and Rows*2 tall.
type Frame struct {
	Cols   int
	Rows   int
	Pixels *image.RGBA
	Scale  float64
}

// Top returns the upper pixel of cell (col, row).
func (f *Frame) Top(col, row int) color.RGBA {
	return f.Pixels.RGBAAt(col, row*2)
}

// Bottom returns the lower pixel of cell (col, row).
func (f *Frame) Bottom(col, row int) color.RGBA {
	return f.Pixels.RGBAAt(col, row*2+1)
}

// FitScale returns the scale that fits a w×h image into the pixel area.
func FitScale(w, h, areaW, areaH int) float64 {
	if w <= 0 || h <= 0 || areaW <= 0 || areaH <= 0 {
		return 0
	}
	return math.Min(float64(areaW)/float64(w), float64(areaH)/float64(h))
}

// Layout renders img into a cols×rows cell area. A zero zoom fits the image;
// otherwise zoom is the pixel scale and oversized images are cropped around
// their centre. Uncovered pixels stay fully transparent.
func Layout(img image.Image, cols, rows int, zoom float64, rotation int) *Frame {
	if img == nil || cols <= 0 || rows <= 0 {
		return nil
	}
	img = Rotate(img, rotation)

	b := img.Bounds()
	areaW, areaH := cols, rows*2
	scale := zoom
	if scale <= 0 {
		scale = FitScale(b.Dx(), b.Dy(), areaW, areaH)
	}
	if scale <= 0 {
		return nil
	}

	// Crop to the part of the source that can be visible before scaling so
	// deep zoom levels never allocate the full scaled image.
	srcW := int(math.Min(float64(b.Dx()), math.Ceil(float64(areaW)/scale)))
	srcH := int(math.Min(float64(b.Dy()), math.Ceil(float64(areaH)/scale)))
	if srcW < 1 {
		srcW = 1
	}
	if srcH < 1 {
		srcH = 1
	}
	x0 := b.Min.X + (b.Dx()-srcW)/2
	y0 := b.Min.Y + (b.Dy()-srcH)/2
	crop := subImage(img, image.Rect(x0, y0, x0+srcW, y0+srcH))

	dstW := clampInt(int(math.Round(float64(srcW)*scale)), 1, areaW)
	dstH := clampInt(int(math.Round(float64(srcH)*scale)), 1, areaH)
	scaled := resize.Resize(uint(dstW), uint(dstH), crop, resize.Bilinear)

	pixels := image.NewRGBA(image.Rect(0, 0, areaW, areaH))
	offX := (areaW - dstW) / 2
	offY := (areaH - dstH) / 2
	sb := scaled.Bounds()
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			r, g, bl, a := scaled.At(sb.Min.X+x, sb.Min.Y+y).RGBA()
			pixels.SetRGBA(offX+x, offY+y, color.RGBA{
				R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8),
			})
		}
	}

	return &Frame{Cols: cols, Rows: rows, Pixels: pixels, Scale: scale}
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if img.Bounds().Eq(r) {
		return img
	}
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			out.Set(x, y, img.At(r.Min.X+x, r.Min.Y+y))
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
