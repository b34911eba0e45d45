package sampler

import "image"

// Mirror flips img horizontally into a new RGBA image anchored at the origin.
func Mirror(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			out := dst.Pix[dst.PixOffset(0, y):]
			for x := 0; x < w; x++ {
				copy(out[(w-1-x)*4:(w-x)*4], row[x*4:x*4+4])
			}
		}
		return dst
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
