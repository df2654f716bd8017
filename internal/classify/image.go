package classify

import (
	"bytes"
	"image/jpeg"

	"golang.org/x/image/tiff"

	"ttabscan/internal/services"
)

const transcodeQuality = 95

// Media types reported by SniffMediaType.
const (
	MediaPNG  = "image/png"
	MediaGIF  = "image/gif"
	MediaJPEG = "image/jpeg"
	MediaWebP = "image/webp"
	MediaTIFF = "image/tiff"
)

var (
	pngMagic   = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
	gif87Magic = []byte("GIF87a")
	gif89Magic = []byte("GIF89a")
	jpegMagic  = []byte{0xFF, 0xD8}
	riffMagic  = []byte("RIFF")
	webpMagic  = []byte("WEBP")
	tiffLE     = []byte{'I', 'I', 0x2A, 0x00}
	tiffBE     = []byte{'M', 'M', 0x00, 0x2A}
)

// SniffMediaType identifies an image payload by its magic bytes. Unknown
// payloads report JPEG, which is what the drawing endpoint serves most of
// the time when it omits recognizable magic.
func SniffMediaType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return MediaPNG
	case bytes.HasPrefix(data, gif87Magic), bytes.HasPrefix(data, gif89Magic):
		return MediaGIF
	case bytes.HasPrefix(data, jpegMagic):
		return MediaJPEG
	case len(data) >= 12 && bytes.HasPrefix(data, riffMagic) && bytes.Equal(data[8:12], webpMagic):
		return MediaWebP
	case bytes.HasPrefix(data, tiffLE), bytes.HasPrefix(data, tiffBE):
		return MediaTIFF
	default:
		return MediaJPEG
	}
}

// NormalizeImage prepares a drawing payload for the vision service. TIFF is
// not accepted upstream, so it is transcoded to JPEG; everything else passes
// through with its sniffed media type.
func NormalizeImage(data []byte) ([]byte, string, error) {
	mediaType := SniffMediaType(data)
	if mediaType != MediaTIFF {
		return data, mediaType, nil
	}

	decoded, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", services.Wrap(services.ErrFatal, "classify", "normalize image", "decode tiff", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: transcodeQuality}); err != nil {
		return nil, "", services.Wrap(services.ErrFatal, "classify", "normalize image", "encode jpeg", err)
	}
	return buf.Bytes(), MediaJPEG, nil
}
