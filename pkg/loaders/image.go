package loaders

import (
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/material"
)

// MaxTextureSize bounds the longer side of a loaded texture. Larger images
// are downscaled on load.
var MaxTextureSize = 4096

// LoadTexture decodes an image file into a texture. Colors are kept as
// stored, without gamma conversion.
func LoadTexture(filename string) (*material.ColorTexture, error) {
	img, err := imaging.Open(filename, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", filename, err)
	}
	return TextureFromImage(downscale(img, MaxTextureSize)), nil
}

// TextureFromImage converts img into a row-major texture, top row first
func TextureFromImage(img image.Image) *material.ColorTexture {
	nrgba := imaging.Clone(img)
	width := nrgba.Rect.Dx()
	height := nrgba.Rect.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+3]
			pixels[y*width+x] = core.NewVec3(
				float64(p[0])/255.0,
				float64(p[1])/255.0,
				float64(p[2])/255.0,
			)
		}
	}
	return material.NewColorTexture(width, height, pixels)
}

// downscale shrinks img so that neither side exceeds limit
func downscale(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if limit <= 0 || (w <= limit && h <= limit) {
		return img
	}
	scale := float64(limit) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale))
	dh := max(1, int(float64(h)*scale))

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	logger.Debugf("downscaled texture from %dx%d to %dx%d", w, h, dw, dh)
	return dst
}
