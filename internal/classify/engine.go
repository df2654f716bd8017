package classify

import (
	"context"
	"log/slog"

	"ttabscan/internal/logging"
	"ttabscan/internal/vision"
)

// Result is a classification outcome together with where it came from and
// any text recognized along the way.
type Result struct {
	Type MarkType
	// MarkText is the text the classifier read off the drawing, if any.
	MarkText string
	// Source names the strategy that produced the result: vision, ocr,
	// or default when every strategy failed.
	Source string
}

// Strategy is one way of classifying a drawing image. Strategies run in
// order; the first one that is ready and succeeds wins.
type Strategy interface {
	Name() string
	Ready() bool
	Classify(ctx context.Context, image []byte, mediaType string) (Result, error)
}

// Engine runs the strategy chain over a drawing payload. It never returns
// an error: a payload nothing can read classifies as stylized, which is the
// safe middle of the taxonomy.
type Engine struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewEngine builds an engine over the given strategies in priority order.
func NewEngine(logger *slog.Logger, strategies ...Strategy) *Engine {
	return &Engine{
		strategies: strategies,
		logger:     logging.NewComponentLogger(logger, "classify"),
	}
}

// Classify normalizes the payload and walks the strategy chain. An empty
// payload, or one that cannot be decoded at all, is a missing drawing.
func (e *Engine) Classify(ctx context.Context, image []byte) Result {
	if len(image) == 0 {
		return Result{Type: NoImage, Source: "none"}
	}
	payload, mediaType, err := NormalizeImage(image)
	if err != nil {
		e.logger.Warn("image unreadable, treating as missing drawing", logging.Error(err))
		return Result{Type: NoImage, Source: "none"}
	}

	for _, strategy := range e.strategies {
		if !strategy.Ready() {
			continue
		}
		result, err := strategy.Classify(ctx, payload, mediaType)
		if err != nil {
			e.logger.Warn("classification strategy failed",
				logging.String("strategy", strategy.Name()),
				logging.Error(err))
			continue
		}
		result.Source = strategy.Name()
		return result
	}
	return Result{Type: StylizedOrDesign, Source: "default"}
}

type visionStrategy struct {
	client *vision.Client
	rules  Rules
}

// NewVisionStrategy classifies with the hosted vision model.
func NewVisionStrategy(client *vision.Client, rules Rules) Strategy {
	return &visionStrategy{client: client, rules: rules}
}

func (s *visionStrategy) Name() string { return "vision" }

func (s *visionStrategy) Ready() bool { return s.client != nil }

func (s *visionStrategy) Classify(ctx context.Context, image []byte, mediaType string) (Result, error) {
	obs, err := s.client.Describe(ctx, image, mediaType)
	if err != nil {
		return Result{}, err
	}
	return Result{Type: s.rules.Evaluate(obs), MarkText: obs.DetectedText}, nil
}

type ocrStrategy struct {
	engine *Tesseract
	rules  Rules
}

// NewOCRStrategy classifies with local text recognition. Without visual
// signals only the word-count rules apply.
func NewOCRStrategy(engine *Tesseract, rules Rules) Strategy {
	return &ocrStrategy{engine: engine, rules: rules}
}

func (s *ocrStrategy) Name() string { return "ocr" }

func (s *ocrStrategy) Ready() bool { return s.engine != nil && s.engine.Available() }

func (s *ocrStrategy) Classify(ctx context.Context, image []byte, _ string) (Result, error) {
	text, err := s.engine.Recognize(ctx, image)
	if err != nil {
		return Result{}, err
	}
	return Result{Type: s.rules.EvaluateText(text), MarkText: text}, nil
}
