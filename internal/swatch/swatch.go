// Package swatch turns an uploaded color image into the fixed-size thumbnail
// shown next to a color name.
package swatch

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"boutique/internal/domain"

	"github.com/disintegration/imaging"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is an encoded swatch.
type Result struct {
	Data        []byte
	Format      string // "png" or "jpeg"
	Ext         string // ".png" or ".jpg"
	ContentType string
}

// Resize decodes r, drops any alpha channel, scales the picture to exactly
// domain.SwatchSize pixels square with a Lanczos filter and re-encodes it.
// PNG input stays PNG; every other format becomes JPEG.
func Resize(r io.Reader) (*Result, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("decode swatch: %w", err)
	}

	thumb := imaging.Resize(opaque(src), domain.SwatchSize, domain.SwatchSize, imaging.Lanczos)

	var buf bytes.Buffer
	res := &Result{}
	if format == "png" {
		err = png.Encode(&buf, thumb)
		res.Format, res.Ext, res.ContentType = "png", ".png", "image/png"
	} else {
		err = jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 90})
		res.Format, res.Ext, res.ContentType = "jpeg", ".jpg", "image/jpeg"
	}
	if err != nil {
		return nil, fmt.Errorf("encode swatch: %w", err)
	}
	res.Data = buf.Bytes()
	return res, nil
}

// opaque flattens img onto black so every pixel has full alpha, matching a
// conversion to plain RGB.
func opaque(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
