// Package imaging re-encodes uploaded raster images to fit the board's
// byte budget before they are attached to a bulletin.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	_ "image/png" // registered for image.Decode
)

const (
	maxInputBytes = 10 * 1024 * 1024
	targetBytes   = 900 * 1024
	ceilingBytes  = 4 * 1024 * 1024
	startBound    = 1400
	minDimension  = 600
	startQuality  = 85
	floorQuality  = 40
	qualityStep   = 10
	maxPasses     = 5
)

var ErrTooLarge = errors.New("image file is too large, please select a file under 10MB")
var ErrCeilingExceeded = errors.New("this image is very large, please resize it below 2000px on the longest edge and try again")
var ErrUnsupportedType = errors.New("unsupported image type")
var ErrUndecodable = errors.New("unable to process this image file")

// Input is one uploaded image file as received from the form.
type Input struct {
	Filename     string
	MIME         string
	LastModified int64 // unix millis reported by the client, 0 if unknown
	Data         []byte
}

// Result is the optimized payload ready for persistence.
type Result struct {
	DataURI       string `json:"data_uri"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	OriginalBytes int    `json:"original_bytes"`
	FinalBytes    int    `json:"final_bytes"`
	// Savings is a human-readable summary, empty when nothing was saved.
	Savings string `json:"savings,omitempty"`
}

// MemoCache avoids re-running optimization when the same file is selected
// again before submission. Keys are derived from (filename, last-modified,
// size); content never leaves the client between selections, so that triple
// identifies a file well enough for a short-lived cache.
type MemoCache interface {
	Get(ctx context.Context, key string) (*Result, bool, error)
	Put(ctx context.Context, key string, r *Result) error
}

type Optimizer struct {
	cache MemoCache
	log   zerolog.Logger
}

// NewOptimizer returns an Optimizer. cache may be nil to disable memoization.
func NewOptimizer(cache MemoCache, log zerolog.Logger) *Optimizer {
	return &Optimizer{cache: cache, log: log}
}

func memoKey(in Input) string {
	return fmt.Sprintf("%s:%d:%d", in.Filename, in.LastModified, len(in.Data))
}

// Optimize resizes and re-encodes a JPEG or PNG to fit the byte budget.
// GIF and WebP pass through untouched: re-encoding would strip animation
// and break compatibility.
func (o *Optimizer) Optimize(ctx context.Context, in Input) (*Result, error) {
	if len(in.Data) > maxInputBytes {
		return nil, ErrTooLarge
	}

	key := memoKey(in)
	if o.cache != nil {
		if cached, ok, err := o.cache.Get(ctx, key); err != nil {
			o.log.Warn().Err(err).Msg("image memo lookup failed, optimizing anyway")
		} else if ok {
			o.log.Debug().Str("file", in.Filename).Msg("image optimization memo hit")
			return cached, nil
		}
	}

	result, err := optimize(in)
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, key, result); err != nil {
			o.log.Warn().Err(err).Msg("failed to memoize image optimization")
		}
	}
	return result, nil
}

func optimize(in Input) (*Result, error) {
	mime := strings.ToLower(in.MIME)
	switch mime {
	case "image/gif", "image/webp":
		return passthrough(in, mime)
	case "image/jpeg", "image/png":
	default:
		return nil, ErrUnsupportedType
	}

	src, _, err := image.Decode(bytes.NewReader(in.Data))
	if err != nil {
		return nil, ErrUndecodable
	}

	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()

	bound := startBound
	var encoded []byte
	var outW, outH int

	// The shrink floor never exceeds the source dimension, so images already
	// smaller than the floor are left alone rather than upscaled.
	floorW := min(srcW, minDimension)
	floorH := min(srcH, minDimension)

	for pass := 0; pass < maxPasses; pass++ {
		scale := math.Min(math.Min(float64(bound)/float64(srcW), float64(bound)/float64(srcH)), 1)
		outW = max(int(math.Round(float64(srcW)*scale)), floorW)
		outH = max(int(math.Round(float64(srcH)*scale)), floorH)

		scaled := resample(src, outW, outH)

		quality := startQuality
		encoded, err = encodeJPEG(scaled, quality)
		if err != nil {
			return nil, err
		}
		for len(encoded) > targetBytes && quality-qualityStep >= floorQuality {
			quality -= qualityStep
			encoded, err = encodeJPEG(scaled, quality)
			if err != nil {
				return nil, err
			}
		}

		if len(encoded) <= targetBytes || (outW <= floorW && outH <= floorH) {
			break
		}
		bound = max(int(math.Round(float64(bound)*0.75)), minDimension)
	}

	if len(encoded) > ceilingBytes {
		return nil, ErrCeilingExceeded
	}

	return &Result{
		DataURI:       "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encoded),
		Width:         outW,
		Height:        outH,
		OriginalBytes: len(in.Data),
		FinalBytes:    len(encoded),
		Savings:       savingsMessage(len(in.Data), len(encoded), outW, outH),
	}, nil
}

// passthrough keeps the original payload and only reads its dimensions.
// FinalBytes reports the base64 payload length, the size actually stored
// in the bulletin document.
func passthrough(in Input, mime string) (*Result, error) {
	var cfg image.Config
	var err error
	switch mime {
	case "image/gif":
		cfg, err = gif.DecodeConfig(bytes.NewReader(in.Data))
	case "image/webp":
		cfg, err = webp.DecodeConfig(bytes.NewReader(in.Data))
	}
	if err != nil {
		return nil, ErrUndecodable
	}

	encoded := base64.StdEncoding.EncodeToString(in.Data)
	return &Result{
		DataURI:       "data:" + mime + ";base64," + encoded,
		Width:         cfg.Width,
		Height:        cfg.Height,
		OriginalBytes: len(in.Data),
		FinalBytes:    len(encoded),
	}, nil
}

func resample(src image.Image, w, h int) image.Image {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}

// savingsMessage summarizes the reduction, empty when nothing was saved.
func savingsMessage(originalBytes, finalBytes, w, h int) string {
	if originalBytes == 0 || finalBytes >= originalBytes {
		return ""
	}
	percent := int(math.Round(float64(originalBytes-finalBytes) / float64(originalBytes) * 100))
	return fmt.Sprintf("Image optimized: %s → %s (%d%% smaller) (%d × %dpx).",
		formatFileSize(originalBytes), formatFileSize(finalBytes), percent, w, h)
}

func formatFileSize(n int) string {
	const k = 1024
	switch {
	case n >= k*k:
		return fmt.Sprintf("%.1f MB", float64(n)/(k*k))
	case n >= k:
		return fmt.Sprintf("%.1f KB", float64(n)/k)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
