package docket

import (
	"regexp"
	"time"
)

// Role identifies which party owns a pleaded mark.
type Role int

const (
	RoleUnknown Role = iota
	RolePlaintiff
	RoleDefendant
)

func (r Role) String() string {
	switch r {
	case RolePlaintiff:
		return "plaintiff"
	case RoleDefendant:
		return "defendant"
	default:
		return "unknown"
	}
}

// Outcome is the final procedural posture of a proceeding.
type Outcome int

const (
	// OutcomePending means no final decision marker was observed.
	OutcomePending Outcome = iota
	OutcomeDismissed
	OutcomeSustained
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDismissed:
		return "dismissed"
	case OutcomeSustained:
		return "sustained"
	default:
		return "pending"
	}
}

// ExportValue returns the numeric result used in consolidated output:
// 1 for sustained, 0 for dismissed. ok is false while the case is pending.
func (o Outcome) ExportValue() (int, bool) {
	switch o {
	case OutcomeSustained:
		return 1, true
	case OutcomeDismissed:
		return 0, true
	default:
		return 0, false
	}
}

// Mark is one pleaded application or registration.
type Mark struct {
	Serial string
	Name   string
	Owner  Role
}

// Case holds everything extracted from a single proceeding page.
// Marks are in first-seen order with duplicates removed.
type Case struct {
	CaseID          string
	FilingDate      time.Time
	TerminationDate time.Time
	Outcome         Outcome
	PlaintiffName   string
	DefendantName   string
	Marks           []Mark
}

// MarksOwnedBy returns the case's marks attributed to the given role.
func (c Case) MarksOwnedBy(role Role) []Mark {
	var marks []Mark
	for _, mark := range c.Marks {
		if mark.Owner == role {
			marks = append(marks, mark)
		}
	}
	return marks
}

const dateLayout = "01/02/2006"

var datePattern = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)

// extractDate finds the first MM/DD/YYYY token in text.
func extractDate(text string) (time.Time, bool) {
	match := datePattern.FindString(text)
	if match == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(dateLayout, match)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// FormatDate renders a date in the source's MM/DD/YYYY convention.
// Zero times render as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
