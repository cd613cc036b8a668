package inference

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

type classifierFunc func(ctx context.Context, img *Image) (Prediction, error)

func (f classifierFunc) Predict(ctx context.Context, img *Image) (Prediction, error) {
	return f(ctx, img)
}

func noisyImage(w, h int) *image.RGBA {
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.IntN(256)), uint8(rng.IntN(256)), uint8(rng.IntN(256)), 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, noisyImage(w, h), &jpeg.Options{Quality: 85}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, noisyImage(w, h)))
	return buf.Bytes()
}

func testImage(t *testing.T) *Image {
	t.Helper()
	img, err := Preprocess(encodeJPEG(t, 64, 48))
	require.NoError(t, err)
	return img
}

func hasTwoDecimals(v float64) bool {
	return math.Abs(v*100-math.Round(v*100)) < 1e-6
}
