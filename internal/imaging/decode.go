package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/kk-code-lab/vimview/internal/apperr"
)

// maxDecodeBytes bounds how much of a file is handed to a decoder.
const maxDecodeBytes = 100 << 20

var ErrUndecodable = errors.New("cannot decode image")

// Meta describes a decoded image. Taken and Camera come from EXIF and are
// zero when the file carries none.
type Meta struct {
	Width       int
	Height      int
	Format      string
	Taken       time.Time
	Camera      string
	Orientation int
}

// Decode reads the image at path. EXIF orientation is applied so the result
// is upright; Meta reports the upright dimensions.
func Decode(path string) (image.Image, Meta, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Meta{}, apperr.New(apperr.Filesystem, "decode", ErrUndecodable, path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(io.LimitReader(file, maxDecodeBytes))
	if err != nil {
		return nil, Meta{}, apperr.New(apperr.Filesystem, "decode", ErrUndecodable, path, err)
	}

	// Paletted images are flattened up front; the scaler handles RGBA best.
	if _, ok := img.(*image.Paletted); ok {
		rgba := image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
		img = rgba
	}

	meta := Meta{Format: format}
	if format == "jpeg" {
		if _, err := file.Seek(0, io.SeekStart); err == nil {
			readExif(file, &meta)
		}
	}

	switch meta.Orientation {
	case 3:
		img = Rotate(img, 180)
	case 6:
		img = Rotate(img, 90)
	case 8:
		img = Rotate(img, 270)
	}

	b := img.Bounds()
	meta.Width, meta.Height = b.Dx(), b.Dy()
	return img, meta, nil
}

func readExif(r io.Reader, meta *Meta) {
	x, err := exif.Decode(r)
	if err != nil {
		return
	}
	if taken, err := x.DateTime(); err == nil {
		meta.Taken = taken
	}
	if tag, err := x.Get(exif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			meta.Camera = strings.TrimSpace(strings.TrimRight(model, "\x00"))
		}
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil {
			meta.Orientation = o
		}
	}
}

// Describe renders the metadata for the status line, e.g. "4032×3024 jpeg".
func (m Meta) Describe() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}
	desc := fmt.Sprintf("%d×%d %s", m.Width, m.Height, m.Format)
	if m.Camera != "" {
		desc += " · " + m.Camera
	}
	if !m.Taken.IsZero() {
		desc += " · " + m.Taken.Format("2006-01-02 15:04")
	}
	return desc
}
