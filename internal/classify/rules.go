package classify

import (
	"strings"

	"ttabscan/internal/textutil"
	"ttabscan/internal/vision"
)

// noImageMarker appears in detected text when the drawing record has no
// image at all; it wins over every other signal.
const noImageMarker = "no image exists"

// Rules holds the tunable thresholds and keyword list the classifier applies
// to a vision observation. The zero value is not usable; start from
// DefaultRules.
type Rules struct {
	// DesignKeywords mark a visual-characteristic label as evidence of a
	// stylized or design mark.
	DesignKeywords []string
	// BusyLabelCount is the label count at which an image is considered
	// design-heavy regardless of its text.
	BusyLabelCount int
	// SloganMinWords is the minimum word count for a slogan.
	SloganMinWords int
	// SloganMaxLabels is the most visual labels a slogan may carry before
	// it is treated as stylized instead.
	SloganMaxLabels int
	// StandardMaxLabels is the most visual labels plain standard-character
	// text may carry.
	StandardMaxLabels int
}

// DefaultRules returns the thresholds and keyword list used in production.
func DefaultRules() Rules {
	return Rules{
		DesignKeywords: []string{
			"art", "illustration", "drawing", "painting", "artwork",
			"graphics", "design", "creative", "logo", "symbol", "icon",
			"emblem", "badge", "insignia", "font", "calligraphy",
			"typography", "ornate", "decorative", "stylized", "artistic",
			"handwriting", "script", "cursive", "fancy", "vintage",
			"modern", "retro", "bold", "italic", "visual", "graphic",
			"rectangle", "pattern", "shape", "circle", "square", "line",
			"color", "black", "white",
		},
		BusyLabelCount:    3,
		SloganMinWords:    3,
		SloganMaxLabels:   2,
		StandardMaxLabels: 1,
	}
}

// Evaluate maps a vision observation to a mark type. Rules apply in a fixed
// order; the first that fires decides the type.
func (r Rules) Evaluate(obs vision.Observation) MarkType {
	text := strings.ToLower(obs.DetectedText)
	if strings.Contains(text, noImageMarker) {
		return NoImage
	}

	wordCount := textutil.WordCount(obs.DetectedText)
	if wordCount == 0 {
		return StylizedOrDesign
	}
	if obs.HasLogo {
		return StylizedOrDesign
	}
	if len(obs.Labels) >= r.BusyLabelCount {
		return StylizedOrDesign
	}
	if r.hasDesignKeyword(obs.Labels) {
		return StylizedOrDesign
	}

	if wordCount >= r.SloganMinWords {
		if len(obs.Labels) <= r.SloganMaxLabels {
			return Slogan
		}
		return StylizedOrDesign
	}
	if wordCount >= 1 {
		if len(obs.Labels) <= r.StandardMaxLabels {
			return StandardText
		}
		return StylizedOrDesign
	}
	return StylizedOrDesign
}

// EvaluateText maps bare recognized text to a mark type. This is the
// degraded path for OCR output, where no visual signals exist.
func (r Rules) EvaluateText(text string) MarkType {
	if strings.Contains(strings.ToLower(text), noImageMarker) {
		return NoImage
	}
	wordCount := textutil.WordCount(text)
	switch {
	case wordCount == 0:
		return StylizedOrDesign
	case wordCount >= r.SloganMinWords:
		return Slogan
	default:
		return StandardText
	}
}

func (r Rules) hasDesignKeyword(labels []string) bool {
	for _, label := range labels {
		for _, keyword := range r.DesignKeywords {
			if strings.Contains(label, keyword) {
				return true
			}
		}
	}
	return false
}
