package output

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"testing"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"png", PNG, false},
		{".PNG", PNG, false},
		{"jpg", JPEG, false},
		{"jpeg", JPEG, false},
		{"gif", GIF, false},
		{"bmp", BMP, false},
		{"tif", TIFF, false},
		{"tiff", TIFF, false},
		{"webp", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/render_1.jpg")
	if err != nil || f != JPEG {
		t.Errorf("expected JPEG, got %q (%v)", f, err)
	}
	if _, err := FormatFromPath("noext"); err == nil {
		t.Error("expected error for path without extension")
	}
}

func TestFormatExtensionAndContentType(t *testing.T) {
	if JPEG.Extension() != ".jpg" {
		t.Errorf("JPEG extension = %q", JPEG.Extension())
	}
	if TIFF.Extension() != ".tiff" {
		t.Errorf("TIFF extension = %q", TIFF.Extension())
	}
	if PNG.ContentType() != "image/png" {
		t.Errorf("PNG content type = %q", PNG.ContentType())
	}
}

func TestEncodeDecodes(t *testing.T) {
	img := testImage(12, 7)

	for _, format := range []Format{PNG, JPEG, GIF, BMP, TIFF} {
		t.Run(string(format), func(t *testing.T) {
			data, err := EncodeBytes(img, format)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			decoded, name, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if name != string(format) {
				t.Errorf("decoded as %q, expected %q", name, format)
			}
			if decoded.Bounds().Dx() != 12 || decoded.Bounds().Dy() != 7 {
				t.Errorf("decoded size %v, expected 12x7", decoded.Bounds())
			}
		})
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testImage(2, 2), Format("webp")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name             string
		width, height    int
		maxSize          int
		expectW, expectH int
	}{
		{"landscape", 200, 100, 50, 50, 25},
		{"portrait", 100, 200, 50, 25, 50},
		{"already small", 40, 30, 50, 40, 30},
		{"disabled", 200, 100, 0, 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := Thumbnail(testImage(tt.width, tt.height), tt.maxSize)
			b := thumb.Bounds()
			if b.Dx() != tt.expectW || b.Dy() != tt.expectH {
				t.Errorf("thumbnail %dx%d, expected %dx%d", b.Dx(), b.Dy(), tt.expectW, tt.expectH)
			}
		})
	}
}
