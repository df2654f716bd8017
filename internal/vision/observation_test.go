package vision

import (
	"strings"
	"testing"
)

func TestParseObservationReadsLabeledLines(t *testing.T) {
	response := strings.Join([]string{
		"Here is my analysis of the image.",
		"TEXT: MONSTER ENERGY",
		"HAS_LOGO: yes",
		"HAS_DESIGN: no",
		"VISUAL_ELEMENTS: claw marks, bold font, green color",
		"COMPLEXITY: simple",
	}, "\n")

	obs := ParseObservation(response)
	if obs.DetectedText != "MONSTER ENERGY" {
		t.Fatalf("detected text = %q", obs.DetectedText)
	}
	if !obs.HasLogo {
		t.Fatal("expected HasLogo")
	}
	if obs.HasDesign {
		t.Fatal("expected HasDesign false")
	}
	want := []string{"claw marks", "bold font", "green color"}
	if len(obs.Labels) != len(want) {
		t.Fatalf("labels = %v", obs.Labels)
	}
	for i, label := range want {
		if obs.Labels[i] != label {
			t.Fatalf("labels[%d] = %q, want %q", i, obs.Labels[i], label)
		}
	}
	if obs.Complexity != "simple" {
		t.Fatalf("complexity = %q", obs.Complexity)
	}
}

func TestParseObservationComplexityAddsLabels(t *testing.T) {
	obs := ParseObservation("TEXT: ACME\nHAS_LOGO: no\nHAS_DESIGN: yes\nVISUAL_ELEMENTS: none\nCOMPLEXITY: complex")
	if len(obs.Labels) != 2 || obs.Labels[0] != "complex" || obs.Labels[1] != "design" {
		t.Fatalf("labels = %v", obs.Labels)
	}

	obs = ParseObservation("COMPLEXITY: moderate")
	if len(obs.Labels) != 2 {
		t.Fatalf("moderate should add labels, got %v", obs.Labels)
	}
}

func TestParseObservationIgnoresUnknownLines(t *testing.T) {
	obs := ParseObservation("I could not read the image clearly.\nSorry about that.")
	if obs.DetectedText != "" || obs.HasLogo || len(obs.Labels) != 0 {
		t.Fatalf("unexpected observation: %+v", obs)
	}
}

func TestParseObservationCaseInsensitiveFlags(t *testing.T) {
	obs := ParseObservation("has_logo: Yes\nHAS_DESIGN: YES")
	if !obs.HasLogo || !obs.HasDesign {
		t.Fatalf("flags not parsed: %+v", obs)
	}
}
