package classify

import (
	"context"
	"errors"
	"testing"

	"ttabscan/internal/config"
	"ttabscan/internal/services"
)

type stubStrategy struct {
	name   string
	ready  bool
	result Result
	err    error
	calls  int
}

func (s *stubStrategy) Name() string { return s.name }
func (s *stubStrategy) Ready() bool  { return s.ready }
func (s *stubStrategy) Classify(context.Context, []byte, string) (Result, error) {
	s.calls++
	return s.result, s.err
}

var jpegPayload = []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2}

func TestEngineEmptyPayloadIsMissingDrawing(t *testing.T) {
	engine := NewEngine(nil, &stubStrategy{name: "vision", ready: true})
	result := engine.Classify(context.Background(), nil)
	if result.Type != NoImage || result.Source != "none" {
		t.Fatalf("result = %+v", result)
	}
}

func TestEngineFirstReadyStrategyWins(t *testing.T) {
	skipped := &stubStrategy{name: "vision", ready: false}
	winner := &stubStrategy{
		name:   "ocr",
		ready:  true,
		result: Result{Type: StandardText, MarkText: "NIKE"},
	}
	engine := NewEngine(nil, skipped, winner)

	result := engine.Classify(context.Background(), jpegPayload)
	if result.Type != StandardText || result.Source != "ocr" || result.MarkText != "NIKE" {
		t.Fatalf("result = %+v", result)
	}
	if skipped.calls != 0 {
		t.Fatal("unready strategy was invoked")
	}
}

func TestEngineFallsThroughOnError(t *testing.T) {
	failing := &stubStrategy{name: "vision", ready: true, err: errors.New("service down")}
	fallback := &stubStrategy{name: "ocr", ready: true, result: Result{Type: Slogan}}
	engine := NewEngine(nil, failing, fallback)

	result := engine.Classify(context.Background(), jpegPayload)
	if result.Type != Slogan || result.Source != "ocr" {
		t.Fatalf("result = %+v", result)
	}
	if failing.calls != 1 {
		t.Fatalf("failing strategy calls = %d", failing.calls)
	}
}

func TestEngineDefaultsToStylizedWhenExhausted(t *testing.T) {
	failing := &stubStrategy{name: "vision", ready: true, err: errors.New("down")}
	engine := NewEngine(nil, failing)

	result := engine.Classify(context.Background(), jpegPayload)
	if result.Type != StylizedOrDesign || result.Source != "default" {
		t.Fatalf("result = %+v", result)
	}
}

func TestEngineUnreadableImageIsMissingDrawing(t *testing.T) {
	strategy := &stubStrategy{name: "vision", ready: true, result: Result{Type: StandardText}}
	engine := NewEngine(nil, strategy)

	result := engine.Classify(context.Background(), []byte("II*\x00garbage"))
	if result.Type != NoImage || result.Source != "none" {
		t.Fatalf("result = %+v", result)
	}
	if strategy.calls != 0 {
		t.Fatal("strategy ran on unreadable payload")
	}
}

func TestTesseractRecognizeRunsBinary(t *testing.T) {
	engine := NewTesseract(config.OCR{Binary: "tesseract", Language: "eng"})
	var gotName string
	var gotArgs []string
	engine.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte("ACME CORP\n"), nil
	}

	text, err := engine.Recognize(context.Background(), jpegPayload)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "ACME CORP" {
		t.Fatalf("text = %q", text)
	}
	if gotName != "tesseract" {
		t.Fatalf("binary = %q", gotName)
	}
	if len(gotArgs) != 4 || gotArgs[1] != "stdout" || gotArgs[2] != "-l" || gotArgs[3] != "eng" {
		t.Fatalf("args = %v", gotArgs)
	}
}

func TestTesseractRecognizeWrapsFailure(t *testing.T) {
	engine := NewTesseract(config.OCR{Binary: "tesseract"})
	engine.run = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}

	_, err := engine.Recognize(context.Background(), jpegPayload)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
