package pipeline

import (
	"testing"

	"ttabscan/internal/classify"
	"ttabscan/internal/docket"
)

func TestConsolidateJoinsAndCounts(t *testing.T) {
	record := CaseRecord{
		Case: docket.Case{
			CaseID:        "91100001",
			PlaintiffName: "Monster Energy Company",
			DefendantName: "Acme Beverages LLC",
			Outcome:       docket.OutcomeSustained,
		},
		Marks: []MarkRecord{
			{
				Serial:      "88000001",
				Name:        "MONSTER ENERGY",
				Type:        classify.StandardText,
				USClasses:   []string{"046", "022"},
				IntlClasses: []string{"032"},
			},
			{
				Serial:      "88000002",
				Name:        "UNLEASH THE BEAST",
				Type:        classify.Slogan,
				USClasses:   []string{"046"},
				IntlClasses: []string{"032", "025"},
			},
		},
		Status: StatusOK,
	}

	row := Consolidate(record, "monster energy")
	if row.Serials != "88000001, 88000002" {
		t.Fatalf("serials = %q", row.Serials)
	}
	if row.MarkNames != "MONSTER ENERGY, UNLEASH THE BEAST" {
		t.Fatalf("names = %q", row.MarkNames)
	}
	if row.USClasses != "046, 022" || row.IntlClasses != "032, 025" {
		t.Fatalf("classes = %q / %q", row.USClasses, row.IntlClasses)
	}
	if row.UniqueClasses != 4 {
		t.Fatalf("unique classes = %d", row.UniqueClasses)
	}
	if row.TotalClasses != 6 {
		t.Fatalf("total classes = %d", row.TotalClasses)
	}
	if row.PartyRole != docket.RolePlaintiff {
		t.Fatalf("party role = %v", row.PartyRole)
	}
	if row.MarkTypeCounts[classify.StandardText] != 1 || row.MarkTypeCounts[classify.Slogan] != 1 {
		t.Fatalf("mark type counts = %v", row.MarkTypeCounts)
	}
	if value, ok := row.Outcome.ExportValue(); !ok || value != 1 {
		t.Fatalf("outcome export = %d %v", value, ok)
	}
}

func TestConsolidateCollectsMarkErrors(t *testing.T) {
	record := CaseRecord{
		Case: docket.Case{CaseID: "91100001"},
		Marks: []MarkRecord{
			{Serial: "88000001", Type: classify.StandardText},
			{Serial: "88000002", Type: classify.StylizedOrDesign, Err: "image: fetch drawing: status 502"},
			{Serial: "88000003", Type: classify.StylizedOrDesign, Err: "classes: fetch status: status 503"},
		},
		Status: StatusOK,
	}

	row := Consolidate(record, "Monster")
	want := "88000002: image: fetch drawing: status 502; 88000003: classes: fetch status: status 503"
	if row.MarkErrors != want {
		t.Fatalf("mark errors = %q", row.MarkErrors)
	}
	if row.Status != StatusOK {
		t.Fatalf("status = %v", row.Status)
	}
}

func TestConsolidatePartyRoleMatchesDefendant(t *testing.T) {
	record := CaseRecord{
		Case: docket.Case{
			PlaintiffName: "Monster Energy Company",
			DefendantName: "Acme Beverages LLC",
		},
		Status: StatusOK,
	}
	if row := Consolidate(record, "ACME BEVERAGES"); row.PartyRole != docket.RoleDefendant {
		t.Fatalf("party role = %v", row.PartyRole)
	}
	if row := Consolidate(record, "Unrelated Corp"); row.PartyRole != docket.RoleUnknown {
		t.Fatalf("party role = %v", row.PartyRole)
	}
}

func TestConsolidateFailedCaseKeepsError(t *testing.T) {
	record := CaseRecord{
		Case:   docket.Case{CaseID: "91100002"},
		Status: StatusFailed,
		Err:    "fetch case page: status 500",
	}
	row := Consolidate(record, "Monster")
	if row.Status != StatusFailed || row.Err == "" || row.CaseID != "91100002" {
		t.Fatalf("row = %+v", row)
	}
	if row.Serials != "" || row.UniqueClasses != 0 {
		t.Fatalf("failed row should be empty: %+v", row)
	}
}
