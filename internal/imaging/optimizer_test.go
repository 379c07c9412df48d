package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// gradientJPEG encodes a w×h gradient as JPEG bytes. Gradients compress
// poorly enough to exercise the quality loop without being pathological.
func gradientJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 255 / (w + h)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestOptimize_ResizesWithinBounds(t *testing.T) {
	o := NewOptimizer(nil, zerolog.Nop())

	res, err := o.Optimize(context.Background(), Input{
		Filename: "poster.jpg",
		MIME:     "image/jpeg",
		Data:     gradientJPEG(t, 3000, 2000),
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	if res.Width > startBound || res.Height > startBound {
		t.Fatalf("output %dx%d exceeds the %dpx bound", res.Width, res.Height, startBound)
	}
	if res.FinalBytes > targetBytes {
		t.Fatalf("output %d bytes exceeds the %d byte target", res.FinalBytes, targetBytes)
	}
	if !strings.HasPrefix(res.DataURI, "data:image/jpeg;base64,") {
		t.Fatalf("unexpected data URI prefix: %.40s", res.DataURI)
	}

	// 3:2 aspect ratio must survive the resize.
	ratio := float64(res.Width) / float64(res.Height)
	if ratio < 1.45 || ratio > 1.55 {
		t.Fatalf("aspect ratio drifted: %dx%d", res.Width, res.Height)
	}
}

func TestOptimize_SmallImageKeepsDimensions(t *testing.T) {
	o := NewOptimizer(nil, zerolog.Nop())

	res, err := o.Optimize(context.Background(), Input{
		Filename: "thumb.jpg",
		MIME:     "image/jpeg",
		Data:     gradientJPEG(t, 800, 500),
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if res.Width != 800 || res.Height != 500 {
		t.Fatalf("image under the bound should not be upscaled or shrunk, got %dx%d", res.Width, res.Height)
	}
}

func TestOptimize_RejectsOversizedInput(t *testing.T) {
	o := NewOptimizer(nil, zerolog.Nop())

	_, err := o.Optimize(context.Background(), Input{
		Filename: "huge.jpg",
		MIME:     "image/jpeg",
		Data:     make([]byte, maxInputBytes+1),
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestOptimize_RejectsUnsupportedType(t *testing.T) {
	o := NewOptimizer(nil, zerolog.Nop())

	_, err := o.Optimize(context.Background(), Input{
		Filename: "doc.tiff",
		MIME:     "image/tiff",
		Data:     []byte("not an image"),
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestOptimize_RejectsUndecodableData(t *testing.T) {
	o := NewOptimizer(nil, zerolog.Nop())

	_, err := o.Optimize(context.Background(), Input{
		Filename: "broken.jpg",
		MIME:     "image/jpeg",
		Data:     []byte("definitely not jpeg bytes"),
	})
	if !errors.Is(err, ErrUndecodable) {
		t.Fatalf("expected ErrUndecodable, got %v", err)
	}
}

func TestOptimize_GIFPassesThrough(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 40, 30), color.Palette{
		color.White, color.Black,
	})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	original := buf.Bytes()

	o := NewOptimizer(nil, zerolog.Nop())
	res, err := o.Optimize(context.Background(), Input{
		Filename: "anim.gif",
		MIME:     "image/gif",
		Data:     original,
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	// The payload passes through untouched; the data URI carries the exact
	// original bytes.
	want := "data:image/gif;base64," + base64.StdEncoding.EncodeToString(original)
	if res.DataURI != want {
		t.Fatalf("gif payload must pass through untouched")
	}
	if res.OriginalBytes != len(original) {
		t.Fatalf("original bytes = %d, want %d", res.OriginalBytes, len(original))
	}
	// FinalBytes reflects the stored base64 payload, not the raw file size.
	if res.FinalBytes != base64.StdEncoding.EncodedLen(len(original)) {
		t.Fatalf("final bytes = %d, want %d", res.FinalBytes, base64.StdEncoding.EncodedLen(len(original)))
	}
	if res.Width != 40 || res.Height != 30 {
		t.Fatalf("gif dimensions = %dx%d", res.Width, res.Height)
	}
}

// recordingCache counts lookups and stores to prove memoization.
type recordingCache struct {
	store map[string]*Result
	hits  int
	puts  int
}

func (c *recordingCache) Get(ctx context.Context, key string) (*Result, bool, error) {
	r, ok := c.store[key]
	if ok {
		c.hits++
	}
	return r, ok, nil
}

func (c *recordingCache) Put(ctx context.Context, key string, r *Result) error {
	c.store[key] = r
	c.puts++
	return nil
}

func TestOptimize_MemoizesByFileIdentity(t *testing.T) {
	cache := &recordingCache{store: make(map[string]*Result)}
	o := NewOptimizer(cache, zerolog.Nop())

	in := Input{
		Filename:     "poster.jpg",
		MIME:         "image/jpeg",
		LastModified: 1700000000000,
		Data:         gradientJPEG(t, 1600, 1200),
	}

	first, err := o.Optimize(context.Background(), in)
	if err != nil {
		t.Fatalf("first optimize: %v", err)
	}
	second, err := o.Optimize(context.Background(), in)
	if err != nil {
		t.Fatalf("second optimize: %v", err)
	}

	if cache.puts != 1 || cache.hits != 1 {
		t.Fatalf("expected one put and one hit, got %d/%d", cache.puts, cache.hits)
	}
	if first.DataURI != second.DataURI {
		t.Fatalf("memoized result differs")
	}
}

func TestSavingsMessage(t *testing.T) {
	msg := savingsMessage(2*1024*1024, 512*1024, 1400, 933)
	if msg != "Image optimized: 2.0 MB → 512.0 KB (75% smaller) (1400 × 933px)." {
		t.Fatalf("savings message = %q", msg)
	}
	if savingsMessage(100, 100, 10, 10) != "" {
		t.Fatalf("no savings should produce an empty message")
	}
	if savingsMessage(0, 10, 10, 10) != "" {
		t.Fatalf("zero original size should produce an empty message")
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tc := range cases {
		if got := formatFileSize(tc.n); got != tc.want {
			t.Fatalf("formatFileSize(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}
