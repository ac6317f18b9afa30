package locator

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // decode support for JPEG reference images
	_ "image/png"  // decode support for PNG screenshots and reference images

	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// grayImage is a decoded image reduced to 8-bit luminance, the working
// representation for every pixel-matching stage.
type grayImage struct {
	pix           []byte
	width, height int
}

func decodeGray(data []byte) (*grayImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %w", atlaserrors.ErrLocateFailed, err)
	}
	return toGray(img), nil
}

func toGray(img image.Image) *grayImage {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := &grayImage{pix: make([]byte, w*h), width: w, height: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gr, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma, values are 16-bit so shift down to 8-bit first.
			lum := (299*uint32(r>>8) + 587*uint32(gr>>8) + 114*uint32(b>>8)) / 1000
			g.pix[y*w+x] = byte(lum)
		}
	}
	return g
}

func (g *grayImage) at(x, y int) byte {
	return g.pix[y*g.width+x]
}

// resize produces a nearest-neighbor scaled copy; scale > 1 enlarges.
func (g *grayImage) resize(scale float64) *grayImage {
	nw := int(float64(g.width) * scale)
	nh := int(float64(g.height) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	out := &grayImage{pix: make([]byte, nw*nh), width: nw, height: nh}
	for y := 0; y < nh; y++ {
		sy := int(float64(y) / scale)
		if sy >= g.height {
			sy = g.height - 1
		}
		for x := 0; x < nw; x++ {
			sx := int(float64(x) / scale)
			if sx >= g.width {
				sx = g.width - 1
			}
			out.pix[y*nw+x] = g.at(sx, sy)
		}
	}
	return out
}
