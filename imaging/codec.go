// Package imaging bounds image payload size before transmission. Resizing
// is a best-effort optimization: any failure hands back the original bytes.
package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"

	"golang.org/x/image/draw"
)

const (
	// DefaultMaxDimension bounds the longer image side after resizing.
	DefaultMaxDimension = 800
	// DefaultQuality is the fixed JPEG re-encode quality.
	DefaultQuality = 75
	// DefaultBypassBytes skips resizing entirely for small payloads.
	DefaultBypassBytes = 500 * 1024
)

// Codec re-encodes images whose dimensions exceed the configured bound.
type Codec struct {
	MaxDimension int
	Quality      int
	BypassBytes  int
}

// NewCodec returns a codec with the default bounds.
func NewCodec() *Codec {
	return &Codec{
		MaxDimension: DefaultMaxDimension,
		Quality:      DefaultQuality,
		BypassBytes:  DefaultBypassBytes,
	}
}

// Resize scales the image so its longer side is at most MaxDimension and
// re-encodes it as JPEG. Inputs below the byte threshold or already within
// bounds pass through unchanged, as does anything that fails to decode or
// encode. Never upscales.
func (c *Codec) Resize(data []byte) []byte {
	if len(data) < c.BypassBytes {
		return data
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("image decode failed, sending original: %v", err)
		return data
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= c.MaxDimension && h <= c.MaxDimension {
		return data
	}

	ratio := float64(c.MaxDimension) / float64(w)
	if r := float64(c.MaxDimension) / float64(h); r < ratio {
		ratio = r
	}
	dstW := int(float64(w) * ratio)
	dstH := int(float64(h) * ratio)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: c.Quality}); err != nil {
		log.Printf("image encode failed, sending original: %v", err)
		return data
	}
	return buf.Bytes()
}
