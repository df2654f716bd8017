package classify

import (
	"fmt"
)

// MarkType is the drawing-type taxonomy assigned to a trademark.
// The numeric values are stable: they are persisted in the mark cache and
// exported in consolidated output.
type MarkType int

const (
	// NoImage means no drawing exists for the mark.
	NoImage MarkType = 0
	// StandardText means a standard-character (word) mark.
	StandardText MarkType = 1
	// StylizedOrDesign means a stylized wordmark, logo, or design.
	StylizedOrDesign MarkType = 2
	// Slogan means a multi-word slogan or phrase mark.
	Slogan MarkType = 3
)

func (t MarkType) String() string {
	switch t {
	case NoImage:
		return "no_image"
	case StandardText:
		return "standard_text"
	case StylizedOrDesign:
		return "stylized_or_design"
	case Slogan:
		return "slogan"
	default:
		return fmt.Sprintf("mark_type(%d)", int(t))
	}
}

// Valid reports whether t is one of the defined mark types.
func (t MarkType) Valid() bool {
	return t >= NoImage && t <= Slogan
}

// ParseMarkType maps a persisted numeric value back to its MarkType.
func ParseMarkType(value int) (MarkType, error) {
	t := MarkType(value)
	if !t.Valid() {
		return NoImage, fmt.Errorf("unknown mark type %d", value)
	}
	return t, nil
}
