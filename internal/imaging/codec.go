package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"log/slog"
	"strings"

	"github.com/gen2brain/webp"
	_ "golang.org/x/image/bmp"  // register decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"gamecatalog/internal/config"
	"gamecatalog/internal/logging"
)

// Defaults applied when Options leave a field at zero.
const (
	DefaultMaxWidth = 1200
	DefaultQuality  = 85
	DefaultMethod   = 6
	// DefaultMaxPixels matches the decompression-bomb limit common image
	// libraries ship with (about 89.5 megapixels).
	DefaultMaxPixels = 89_478_485
)

// vectorSniffLen bounds how far into a payload the <svg marker is searched.
const vectorSniffLen = 100

var (
	// ErrEmptyPayload is reported when there is nothing to decode.
	ErrEmptyPayload = errors.New("empty image payload")
	// ErrImageTooLarge is reported when the header declares more pixels than
	// Options.MaxPixels. The pixel data is never decoded.
	ErrImageTooLarge = errors.New("image dimensions exceed pixel budget")
)

// Kind distinguishes vector payloads from raster ones.
type Kind int

const (
	KindRaster Kind = iota
	KindVector
)

func (k Kind) String() string {
	if k == KindVector {
		return "vector"
	}
	return "raster"
}

// Outcome tags what Optimize did with a payload.
type Outcome int

const (
	// OutcomeConverted means the payload was re-encoded as WebP.
	OutcomeConverted Outcome = iota
	// OutcomePassthrough means a vector payload was returned as-is.
	OutcomePassthrough
	// OutcomeDegraded means processing failed and the input was returned unchanged.
	OutcomeDegraded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomePassthrough:
		return "passthrough"
	case OutcomeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Options tune the raster pipeline.
type Options struct {
	MaxWidth int
	Quality  int
	// Method is the encoder effort, 0 (fast) to 6 (smallest output).
	Method int
	// MaxPixels bounds width*height of decoded rasters.
	MaxPixels int64
}

// OptionsFromConfig maps the [assets] config section onto codec options.
func OptionsFromConfig(a config.Assets) Options {
	return Options{
		MaxWidth:  a.MaxWidth,
		Quality:   a.Quality,
		Method:    a.Method,
		MaxPixels: a.MaxPixels,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	if o.Method < 0 || o.Method > 6 {
		o.Method = DefaultMethod
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	return o
}

// Result describes the output of Optimize. Data is always usable: on
// degradation it holds the original input.
type Result struct {
	Data    string
	Kind    Kind
	Outcome Outcome
	Err     error
}

// Codec converts screenshot payloads. The zero value is not usable; construct
// with New.
type Codec struct {
	opts   Options
	logger *slog.Logger
}

// New builds a codec. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Codec{opts: opts.withDefaults(), logger: logger}
}

// Options returns the effective settings.
func (c *Codec) Options() Options {
	return c.opts
}

// StripDataURI drops a data-URI header ("data:image/png;base64,") when present.
func StripDataURI(s string) string {
	if _, rest, ok := strings.Cut(s, ","); ok {
		return rest
	}
	return s
}

// Classify reports whether b looks like an SVG document.
func Classify(b []byte) Kind {
	if bytes.HasPrefix(b, []byte("<?xml")) {
		return KindVector
	}
	head := b
	if len(head) > vectorSniffLen {
		head = head[:vectorSniffLen]
	}
	if bytes.Contains(head, []byte("<svg")) {
		return KindVector
	}
	return KindRaster
}

// Optimize takes a base64 payload (optionally data-URI prefixed) and returns
// a base64 payload in canonical form. Vector payloads come back stripped of
// their prefix; failures return the input unchanged.
func (c *Codec) Optimize(encoded string) Result {
	body := StripDataURI(encoded)
	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return c.degrade(encoded, KindRaster, fmt.Errorf("decode base64: %w", err))
	}
	if len(raw) == 0 {
		return c.degrade(encoded, KindRaster, ErrEmptyPayload)
	}

	if Classify(raw) == KindVector {
		c.logger.Debug("vector payload detected, skipping optimization",
			logging.Int("bytes", len(raw)),
		)
		return Result{Data: body, Kind: KindVector, Outcome: OutcomePassthrough}
	}

	out, err := c.EncodeRaster(raw)
	if err != nil {
		return c.degrade(encoded, KindRaster, err)
	}
	c.logger.Debug("screenshot optimized",
		logging.Int("input_bytes", len(raw)),
		logging.Int("output_bytes", len(out)),
	)
	return Result{
		Data:    base64.StdEncoding.EncodeToString(out),
		Kind:    KindRaster,
		Outcome: OutcomeConverted,
	}
}

func (c *Codec) degrade(encoded string, kind Kind, err error) Result {
	logging.WarnWithContext(c.logger, "screenshot optimization failed; keeping original payload",
		"screenshot_optimize_failed",
		logging.String(logging.FieldErrorHint, "payload is stored as received"),
		logging.String(logging.FieldImpact, "screenshot kept in its uploaded format"),
		logging.Error(err),
	)
	return Result{Data: encoded, Kind: kind, Outcome: OutcomeDegraded, Err: err}
}

// EncodeRaster decodes raw raster bytes and returns them as WebP, flattened
// onto white and downscaled to the configured width.
func (c *Codec) EncodeRaster(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyPayload
	}
	hdr, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if hdr.Width <= 0 || hdr.Height <= 0 {
		return nil, fmt.Errorf("decode image header: invalid size %dx%d", hdr.Width, hdr.Height)
	}
	if int64(hdr.Width)*int64(hdr.Height) > c.opts.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d > %d", ErrImageTooLarge, hdr.Width, hdr.Height, c.opts.MaxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img = flatten(img)
	img = c.fit(img)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{
		Quality: c.opts.Quality,
		Method:  c.opts.Method,
	}); err != nil {
		return nil, fmt.Errorf("encode webp from %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// fit downscales img so its width does not exceed MaxWidth, preserving the
// aspect ratio. Height is truncated, never below one pixel.
func (c *Codec) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= c.opts.MaxWidth {
		return img
	}
	nh := h * c.opts.MaxWidth / w
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, c.opts.MaxWidth, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// flatten composites images that can carry transparency onto an opaque white
// background. Opaque images are returned as-is.
func flatten(img image.Image) image.Image {
	if !hasAlpha(img) {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func hasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *image.Paletted:
		return true
	case *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	case interface{ Opaque() bool }:
		return !m.Opaque()
	default:
		return true
	}
}
