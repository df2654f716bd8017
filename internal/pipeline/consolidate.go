package pipeline

import (
	"strings"

	"ttabscan/internal/classify"
	"ttabscan/internal/docket"
	"ttabscan/internal/textutil"
)

// Consolidate flattens a processed case into one report row, resolving
// which side the queried party sat on and totalling class coverage.
func Consolidate(record CaseRecord, partyName string) ConsolidatedRow {
	row := ConsolidatedRow{
		CaseID:          record.Case.CaseID,
		Plaintiff:       record.Case.PlaintiffName,
		Defendant:       record.Case.DefendantName,
		PartyRole:       partyRole(record.Case, partyName),
		FilingDate:      docket.FormatDate(record.Case.FilingDate),
		TerminationDate: docket.FormatDate(record.Case.TerminationDate),
		Outcome:         record.Case.Outcome,
		MarkTypeCounts:  make(map[classify.MarkType]int),
		Status:          record.Status,
		Err:             record.Err,
	}

	var serials, names, markErrors []string
	uniqueUS := make(map[string]struct{})
	uniqueIntl := make(map[string]struct{})
	var usOrder, intlOrder []string
	for _, mark := range record.Marks {
		serials = append(serials, mark.Serial)
		names = append(names, mark.Name)
		if mark.Err != "" {
			markErrors = append(markErrors, mark.Serial+": "+mark.Err)
		}
		row.MarkTypeCounts[mark.Type]++
		row.TotalClasses += len(mark.USClasses) + len(mark.IntlClasses)
		for _, code := range mark.USClasses {
			if _, dup := uniqueUS[code]; !dup {
				uniqueUS[code] = struct{}{}
				usOrder = append(usOrder, code)
			}
		}
		for _, code := range mark.IntlClasses {
			if _, dup := uniqueIntl[code]; !dup {
				uniqueIntl[code] = struct{}{}
				intlOrder = append(intlOrder, code)
			}
		}
	}

	row.Serials = strings.Join(serials, ", ")
	row.MarkNames = strings.Join(names, ", ")
	row.USClasses = strings.Join(usOrder, ", ")
	row.IntlClasses = strings.Join(intlOrder, ", ")
	row.UniqueClasses = len(usOrder) + len(intlOrder)
	row.MarkErrors = strings.Join(markErrors, "; ")
	return row
}

// partyRole resolves which side the queried party appears on. Party names
// on filings rarely match the query exactly, so containment in either
// direction counts.
func partyRole(c docket.Case, partyName string) docket.Role {
	if strings.TrimSpace(partyName) == "" {
		return docket.RoleUnknown
	}
	if nameMatches(c.PlaintiffName, partyName) {
		return docket.RolePlaintiff
	}
	if nameMatches(c.DefendantName, partyName) {
		return docket.RoleDefendant
	}
	return docket.RoleUnknown
}

func nameMatches(onRecord, query string) bool {
	if onRecord == "" {
		return false
	}
	return textutil.ContainsFold(onRecord, query) || textutil.ContainsFold(query, onRecord)
}
