package vision

import (
	"bufio"
	"strings"
)

// Observation is the model's structured reading of a drawing image.
type Observation struct {
	// DetectedText is the literal text the model read from the image.
	DetectedText string
	// HasLogo reports whether the model saw a logo or symbol.
	HasLogo bool
	// HasDesign reports whether the model saw graphic design elements.
	HasDesign bool
	// Labels are the visual characteristics the model listed, lowercased.
	// Complexity above "simple" contributes extra labels so that downstream
	// rules see the same signal either way.
	Labels []string
	// Complexity is the raw complexity verdict (simple, moderate, complex).
	Complexity string
}

// ParseObservation reads the labeled lines of a model response. Lines it
// does not recognize are ignored, so surrounding prose is harmless.
func ParseObservation(text string) Observation {
	var obs Observation
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case hasLabel(line, "TEXT:"):
			obs.DetectedText = labelValue(line, "TEXT:")
		case hasLabel(line, "HAS_LOGO:"):
			obs.HasLogo = isYes(labelValue(line, "HAS_LOGO:"))
		case hasLabel(line, "HAS_DESIGN:"):
			obs.HasDesign = isYes(labelValue(line, "HAS_DESIGN:"))
		case hasLabel(line, "VISUAL_ELEMENTS:"):
			obs.Labels = append(obs.Labels, splitElements(labelValue(line, "VISUAL_ELEMENTS:"))...)
		case hasLabel(line, "COMPLEXITY:"):
			obs.Complexity = strings.ToLower(labelValue(line, "COMPLEXITY:"))
		}
	}
	if obs.Complexity == "moderate" || obs.Complexity == "complex" {
		obs.Labels = append(obs.Labels, "complex", "design")
	}
	return obs
}

func hasLabel(line, label string) bool {
	return strings.HasPrefix(strings.ToUpper(line), label)
}

func labelValue(line, label string) string {
	return strings.TrimSpace(line[len(label):])
}

func isYes(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "yes")
}

func splitElements(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" || part == "none" {
			continue
		}
		out = append(out, part)
	}
	return out
}
