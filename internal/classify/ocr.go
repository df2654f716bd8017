package classify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ttabscan/internal/config"
	"ttabscan/internal/services"
)

// Tesseract runs the local OCR binary against a drawing image. It is the
// fallback when the vision service is disabled or exhausted.
type Tesseract struct {
	binary   string
	language string

	// run is swapped in tests so no real binary is needed.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewTesseract builds an OCR engine from configuration.
func NewTesseract(cfg config.OCR) *Tesseract {
	return &Tesseract{
		binary:   cfg.Binary,
		language: cfg.Language,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			cmd := exec.CommandContext(ctx, name, args...)
			var stderr strings.Builder
			cmd.Stderr = &stderr
			out, err := cmd.Output()
			if err != nil {
				if msg := strings.TrimSpace(stderr.String()); msg != "" {
					return nil, fmt.Errorf("%w: %s", err, msg)
				}
				return nil, err
			}
			return out, nil
		},
	}
}

// Available reports whether the binary can be found on PATH.
func (t *Tesseract) Available() bool {
	_, err := exec.LookPath(t.binary)
	return err == nil
}

// Recognize writes the image to a scratch file and returns the text the
// binary reads from it.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", services.Wrap(services.ErrValidation, "ocr", "recognize", "image required", nil)
	}

	scratch, err := os.CreateTemp("", "ttabscan-ocr-*"+extensionFor(SniffMediaType(image)))
	if err != nil {
		return "", services.Wrap(services.ErrFatal, "ocr", "recognize", "create scratch file", err)
	}
	path := scratch.Name()
	defer os.Remove(path)

	if _, err := scratch.Write(image); err != nil {
		scratch.Close()
		return "", services.Wrap(services.ErrFatal, "ocr", "recognize", "write scratch file", err)
	}
	if err := scratch.Close(); err != nil {
		return "", services.Wrap(services.ErrFatal, "ocr", "recognize", "close scratch file", err)
	}

	args := []string{path, "stdout"}
	if t.language != "" {
		args = append(args, "-l", t.language)
	}
	out, err := t.run(ctx, t.binary, args...)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ocr", "recognize",
			fmt.Sprintf("%s failed", filepath.Base(t.binary)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case MediaPNG:
		return ".png"
	case MediaGIF:
		return ".gif"
	case MediaWebP:
		return ".webp"
	case MediaTIFF:
		return ".tif"
	default:
		return ".jpg"
	}
}
