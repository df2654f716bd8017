package classify

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/tiff"
)

func TestSniffMediaType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), MediaPNG},
		{"gif87", []byte("GIF87a...."), MediaGIF},
		{"gif89", []byte("GIF89a...."), MediaGIF},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, MediaJPEG},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), MediaWebP},
		{"tiff little endian", []byte("II*\x00rest"), MediaTIFF},
		{"tiff big endian", []byte("MM\x00*rest"), MediaTIFF},
		{"unknown defaults to jpeg", []byte("hello"), MediaJPEG},
		{"riff without webp tag", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), MediaJPEG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SniffMediaType(tt.data); got != tt.want {
				t.Fatalf("SniffMediaType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeImagePassesThroughNonTIFF(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}
	payload, mediaType, err := NormalizeImage(data)
	if err != nil {
		t.Fatalf("NormalizeImage: %v", err)
	}
	if mediaType != MediaJPEG || !bytes.Equal(payload, data) {
		t.Fatalf("payload altered: %q %v", mediaType, payload)
	}
}

func TestNormalizeImageTranscodesTIFF(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		src.Set(x, x, color.Black)
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, src, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	payload, mediaType, err := NormalizeImage(buf.Bytes())
	if err != nil {
		t.Fatalf("NormalizeImage: %v", err)
	}
	if mediaType != MediaJPEG {
		t.Fatalf("media type = %q", mediaType)
	}
	if SniffMediaType(payload) != MediaJPEG {
		t.Fatalf("transcoded payload is not jpeg")
	}
}

func TestNormalizeImageCorruptTIFFErrors(t *testing.T) {
	if _, _, err := NormalizeImage([]byte("II*\x00garbage")); err == nil {
		t.Fatal("expected error for corrupt tiff")
	}
}
