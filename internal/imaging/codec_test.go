package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/webp"
)

const svgDoc = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// forgedPNG rewrites the IHDR of a 1x1 PNG to claim w×h.
func forgedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	raw := encodePNG(t, solid(1, 1, color.Black))
	binary.BigEndian.PutUint32(raw[16:20], w)
	binary.BigEndian.PutUint32(raw[20:24], h)
	binary.BigEndian.PutUint32(raw[29:33], crc32.ChecksumIEEE(raw[12:29]))
	return raw
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func decodeResult(t *testing.T, res Result) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(res.Data)
	if err != nil {
		t.Fatalf("result is not base64: %v", err)
	}
	img, err := webp.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("result is not webp: %v", err)
	}
	return img
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Kind
	}{
		{"xml prolog", []byte(`<?xml version="1.0"?><svg/>`), KindVector},
		{"bare svg", []byte(svgDoc), KindVector},
		{"svg after short preamble", []byte("<!-- logo -->\n<svg></svg>"), KindVector},
		{"svg marker too late", append(bytes.Repeat([]byte(" "), 120), []byte("<svg")...), KindRaster},
		{"png", encodePNG(t, solid(2, 2, color.Black)), KindRaster},
		{"empty", nil, KindRaster},
	}
	for _, tc := range cases {
		if got := Classify(tc.data); got != tc.want {
			t.Fatalf("%s: Classify = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStripDataURI(t *testing.T) {
	if got := StripDataURI("data:image/png;base64,QUJD"); got != "QUJD" {
		t.Fatalf("unexpected strip result %q", got)
	}
	if got := StripDataURI("QUJD"); got != "QUJD" {
		t.Fatalf("expected payload without header untouched, got %q", got)
	}
}

func TestOptimizeVectorPassthrough(t *testing.T) {
	codec := New(Options{}, nil)
	body := base64.StdEncoding.EncodeToString([]byte(svgDoc))

	res := codec.Optimize("data:image/svg+xml;base64," + body)
	if res.Outcome != OutcomePassthrough || res.Kind != KindVector {
		t.Fatalf("expected vector passthrough, got %v/%v", res.Outcome, res.Kind)
	}
	raw, err := base64.StdEncoding.DecodeString(res.Data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw) != svgDoc {
		t.Fatalf("vector bytes changed: %q", raw)
	}
}

func TestOptimizeDownscalesWideImages(t *testing.T) {
	codec := New(Options{}, nil)
	payload := base64.StdEncoding.EncodeToString(encodePNG(t, solid(2000, 1000, color.NRGBA{R: 200, G: 10, B: 10, A: 255})))

	res := codec.Optimize("data:image/png;base64," + payload)
	if res.Outcome != OutcomeConverted {
		t.Fatalf("expected conversion, got %v (%v)", res.Outcome, res.Err)
	}
	b := decodeResult(t, res).Bounds()
	if b.Dx() != DefaultMaxWidth || b.Dy() != 600 {
		t.Fatalf("expected 1200x600, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestOptimizeKeepsNarrowImageSize(t *testing.T) {
	codec := New(Options{}, nil)
	payload := base64.StdEncoding.EncodeToString(encodePNG(t, solid(640, 480, color.NRGBA{G: 255, A: 255})))

	res := codec.Optimize(payload)
	if res.Outcome != OutcomeConverted {
		t.Fatalf("expected conversion, got %v (%v)", res.Outcome, res.Err)
	}
	b := decodeResult(t, res).Bounds()
	if b.Dx() != 640 || b.Dy() != 480 {
		t.Fatalf("expected 640x480, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestOptimizeFlattensTransparencyOntoWhite(t *testing.T) {
	codec := New(Options{}, nil)
	payload := base64.StdEncoding.EncodeToString(encodePNG(t, solid(32, 32, color.NRGBA{})))

	res := codec.Optimize(payload)
	if res.Outcome != OutcomeConverted {
		t.Fatalf("expected conversion, got %v (%v)", res.Outcome, res.Err)
	}
	r, g, b, a := decodeResult(t, res).At(16, 16).RGBA()
	if a>>8 != 0xff || r>>8 < 0xf0 || g>>8 < 0xf0 || b>>8 < 0xf0 {
		t.Fatalf("expected white pixel, got r=%d g=%d b=%d a=%d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestOptimizeDegradesOnGarbage(t *testing.T) {
	codec := New(Options{}, nil)
	cases := []string{
		"data:image/png;base64,!!!not base64!!!",
		base64.StdEncoding.EncodeToString([]byte("definitely not an image")),
		"",
	}
	for _, input := range cases {
		res := codec.Optimize(input)
		if res.Outcome != OutcomeDegraded {
			t.Fatalf("expected degraded outcome for %q, got %v", input, res.Outcome)
		}
		if res.Data != input {
			t.Fatalf("expected original input back, got %q", res.Data)
		}
		if res.Err == nil {
			t.Fatalf("expected error detail for %q", input)
		}
	}
}

func TestOptimizeDegradesOnOversizedHeader(t *testing.T) {
	raw := forgedPNG(t, 40000, 40000)
	if cfg, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil || cfg.Width != 40000 {
		t.Fatalf("forged header not readable: %+v %v", cfg, err)
	}

	codec := New(Options{}, nil)
	input := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	res := codec.Optimize(input)
	if res.Outcome != OutcomeDegraded {
		t.Fatalf("expected degraded outcome, got %v", res.Outcome)
	}
	if !errors.Is(res.Err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", res.Err)
	}
	if res.Data != input {
		t.Fatal("expected original payload back")
	}
}

func TestEncodeRasterPixelBudget(t *testing.T) {
	codec := New(Options{MaxPixels: 100}, nil)
	if _, err := codec.EncodeRaster(encodePNG(t, solid(10, 10, color.Black))); err != nil {
		t.Fatalf("image at the budget should encode: %v", err)
	}
	if _, err := codec.EncodeRaster(encodePNG(t, solid(11, 10, color.Black))); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := New(Options{MaxWidth: -1, Quality: 500, Method: 9}, nil).Options()
	if opts.MaxWidth != DefaultMaxWidth || opts.Quality != DefaultQuality || opts.Method != DefaultMethod || opts.MaxPixels != DefaultMaxPixels {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	custom := New(Options{MaxWidth: 300, Quality: 50, Method: 2}, nil).Options()
	if custom.MaxWidth != 300 || custom.Quality != 50 || custom.Method != 2 {
		t.Fatalf("custom options not kept: %+v", custom)
	}
}

func TestEncodeRasterRespectsCustomWidth(t *testing.T) {
	codec := New(Options{MaxWidth: 100}, nil)
	out, err := codec.EncodeRaster(encodePNG(t, solid(301, 200, color.NRGBA{B: 255, A: 255})))
	if err != nil {
		t.Fatalf("EncodeRaster: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 66 {
		t.Fatalf("expected 100x66, got %dx%d", cfg.Width, cfg.Height)
	}
	if _, err := codec.EncodeRaster(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
