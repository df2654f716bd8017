package docket

import (
	"io"
	"regexp"
	"strings"
	"time"

	"ttabscan/internal/textutil"
)

const (
	// sectionHeaderClass marks th cells that introduce a docket section.
	sectionHeaderClass = "t3"
	// sectionBreakClass marks td cells that open a new major section.
	sectionBreakClass = "t2b"

	pleadedHeading     = "pleaded applications and registrations"
	prosecutionHeading = "prosecution history"

	serialLabel  = "Serial #:"
	markLabel    = "Mark:"
	ownedByLabel = "Owned by:"
	nameLabel    = "Name:"

	// markNameLookahead bounds the forward scan for a serial's "Mark:" row.
	markNameLookahead = 4

	// UnknownMarkName is assigned when no "Mark:" row follows a serial.
	UnknownMarkName = "Unknown"
)

var serialPattern = regexp.MustCompile(`\d{8}`)

// ParseCase extracts a Case from a proceeding page. A page with no pleaded
// section yields zero marks without error; only unreadable markup fails.
func ParseCase(r io.Reader, caseID string) (Case, error) {
	tables, err := NormalizeTables(r)
	if err != nil {
		return Case{}, err
	}

	result := Case{CaseID: caseID}
	result.PlaintiffName, result.DefendantName = extractParties(tables)
	result.Marks = extractPleadedMarks(tables, result.PlaintiffName, result.DefendantName)
	result.FilingDate, result.TerminationDate, result.Outcome = extractHistory(tables)
	return result, nil
}

// extractParties finds the first name listed under each party section.
func extractParties(tables []Table) (plaintiff, defendant string) {
	currentParty := RoleUnknown
	for _, table := range tables {
		for _, row := range table.Rows {
			if cell, ok := row.SectionCell(); ok {
				switch cell.Text {
				case "Plaintiff":
					currentParty = RolePlaintiff
					continue
				case "Defendant":
					currentParty = RoleDefendant
					continue
				default:
					if cell.Text != "" {
						currentParty = RoleUnknown
					}
				}
			}
			if currentParty == RoleUnknown || !row.HeaderContaining(nameLabel) {
				continue
			}
			name := partyNameLink(row)
			if name == "" {
				continue
			}
			switch currentParty {
			case RolePlaintiff:
				if plaintiff == "" {
					plaintiff = name
				}
			case RoleDefendant:
				if defendant == "" {
					defendant = name
				}
			}
		}
	}
	return plaintiff, defendant
}

func partyNameLink(row Row) string {
	for _, link := range row.Links() {
		if strings.Contains(link.Href, "pnam=") {
			return link.Text
		}
	}
	return ""
}

// sectionState drives the pleaded-section scan.
type sectionState int

const (
	stateSeeking sectionState = iota
	stateInSection
	stateDone
)

// extractPleadedMarks walks the pleaded section, tracking the owning party
// as "Owned by:" rows appear and collecting serial/mark pairs. The section
// ends at the next major section break or the prosecution history heading.
func extractPleadedMarks(tables []Table, plaintiff, defendant string) []Mark {
	table, start, ok := findPleadedSection(tables)
	if !ok {
		return nil
	}

	end := len(table.Rows)
	state := stateInSection
	for idx := start + 1; idx < len(table.Rows) && state == stateInSection; idx++ {
		row := table.Rows[idx]
		if cell, ok := row.SectionCell(); ok && cell.Text != "" {
			end = idx
			state = stateDone
			continue
		}
		if strings.Contains(strings.ToLower(row.Text()), prosecutionHeading) {
			end = idx
			state = stateDone
		}
	}

	currentOwner := RoleUnknown
	var marks []Mark
	seen := make(map[string]struct{})

	for idx := start + 1; idx < end; idx++ {
		row := table.Rows[idx]

		if row.HeaderContaining(ownedByLabel) {
			if owner, ok := row.FirstValue(); ok {
				switch {
				case textutil.ContainsFold(owner.Text, plaintiff):
					currentOwner = RolePlaintiff
				case textutil.ContainsFold(owner.Text, defendant):
					currentOwner = RoleDefendant
				}
			}
		}

		if !row.HeaderContaining(serialLabel) {
			continue
		}
		serial := serialFromRow(row)
		if serial == "" {
			continue
		}
		if _, dup := seen[serial]; dup {
			continue
		}
		seen[serial] = struct{}{}
		marks = append(marks, Mark{
			Serial: serial,
			Name:   markNameAfter(table, idx, end),
			Owner:  currentOwner,
		})
	}
	return marks
}

func findPleadedSection(tables []Table) (Table, int, bool) {
	for _, table := range tables {
		for idx, row := range table.Rows {
			cell, ok := row.Header(sectionHeaderClass)
			if ok && strings.Contains(strings.ToLower(cell.Text), pleadedHeading) {
				return table, idx, true
			}
		}
	}
	return Table{}, 0, false
}

// serialFromRow pulls the 8-digit serial out of the row's case-detail link.
func serialFromRow(row Row) string {
	for _, link := range row.Links() {
		if !strings.Contains(link.Href, "tsdr.uspto.gov") || !strings.Contains(link.Href, "caseNumber=") {
			continue
		}
		if serial := serialPattern.FindString(link.Text); serial != "" {
			return serial
		}
	}
	return ""
}

// markNameAfter scans forward a few rows for the serial's "Mark:" label.
func markNameAfter(table Table, serialIdx, end int) string {
	limit := serialIdx + 1 + markNameLookahead
	if limit > end {
		limit = end
	}
	for idx := serialIdx + 1; idx < limit; idx++ {
		row := table.Rows[idx]
		if !row.HeaderContaining(markLabel) {
			continue
		}
		if value, ok := row.FirstValue(); ok && value.Text != "" {
			return value.Text
		}
		return UnknownMarkName
	}
	return UnknownMarkName
}

// extractHistory reads dates and the outcome from the prosecution history
// table. When both decision markers appear, the last row wins, reflecting
// the final posture at the bottom of the table.
func extractHistory(tables []Table) (filed, terminated time.Time, outcome Outcome) {
	for _, table := range tables {
		found := false
		for _, row := range table.Rows {
			if strings.Contains(strings.ToLower(row.Text()), prosecutionHeading) {
				found = true
				break
			}
		}
		if !found {
			continue
		}

		for _, row := range table.Rows {
			text := row.Text()
			upper := strings.ToUpper(text)

			if strings.Contains(text, "FILED AND FEE") {
				if date, ok := secondValueDate(row); ok {
					filed = date
				}
			}
			if strings.Contains(text, "TERMINATED") {
				if date, ok := secondValueDate(row); ok {
					terminated = date
				}
			}
			if strings.Contains(upper, "SUSTAINED") {
				outcome = OutcomeSustained
			} else if strings.Contains(upper, "DISMISSED") {
				outcome = OutcomeDismissed
			}
		}
		break
	}
	return filed, terminated, outcome
}

// secondValueDate reads the date from the row's second td, where the
// history table keeps the entry date.
func secondValueDate(row Row) (time.Time, bool) {
	values := row.Values()
	if len(values) < 2 {
		return time.Time{}, false
	}
	return extractDate(values[1].Text)
}
