package imagegen

import (
	"image"

	"golang.org/x/image/draw"
)

// ExtractAlpha returns the straight (non-premultiplied) alpha of every pixel
// in row-major order.
func ExtractAlpha(img image.Image) []byte {
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	alpha := make([]byte, bounds.Dx()*bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			alpha[y*bounds.Dx()+x] = row[x*4+3]
		}
	}
	return alpha
}
