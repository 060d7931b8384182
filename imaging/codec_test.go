package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestResizeBoundsLargeImage(t *testing.T) {
	codec := &Codec{MaxDimension: 100, Quality: 75, BypassBytes: 1}
	input := encodeTestImage(t, 400, 200)

	out := codec.Resize(input)
	w, h := decodeDims(t, out)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h, "aspect ratio follows ratio = min(S/W, S/H)")
}

func TestResizeTallImage(t *testing.T) {
	codec := &Codec{MaxDimension: 100, Quality: 75, BypassBytes: 1}
	input := encodeTestImage(t, 120, 600)

	out := codec.Resize(input)
	w, h := decodeDims(t, out)
	assert.Equal(t, 100, h)
	assert.Equal(t, 20, w)
}

func TestResizeNeverUpscales(t *testing.T) {
	codec := &Codec{MaxDimension: 800, Quality: 75, BypassBytes: 1}
	input := encodeTestImage(t, 60, 40)

	out := codec.Resize(input)
	assert.Equal(t, input, out, "images already within bounds pass through unchanged")
}

func TestResizeBypassesSmallPayloads(t *testing.T) {
	codec := NewCodec()
	input := encodeTestImage(t, 2000, 2000)
	require.Less(t, len(input), codec.BypassBytes, "fixture must sit under the byte threshold")

	out := codec.Resize(input)
	assert.Equal(t, input, out)
}

func TestResizeFallsBackOnUndecodableInput(t *testing.T) {
	codec := &Codec{MaxDimension: 100, Quality: 75, BypassBytes: 1}
	input := []byte("definitely not an image")

	out := codec.Resize(input)
	assert.Equal(t, input, out, "decode failures hand back the original bytes")
}
