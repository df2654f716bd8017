package docket

import (
	"strings"
	"testing"
	"time"
)

const listingPage = `
<html><body>
<table>
<tr><td><a href="/v?pno=91239511&amp;pty=OPP">91239511</a>02/14/2018</td><td>Apple Inc.</td></tr>
<tr><td><a href="/v?pno=91250000&amp;pty=OPP">91250000</a>07/04/2019</td><td>Apple Inc.</td></tr>
<tr><td><a href="/v?pno=92065432&amp;pty=CAN">92065432</a>01/01/2017</td><td>Apple Inc.</td></tr>
<tr><td><a href="/v?pno=91260001&amp;pty=OPP">91260001</a></td><td>Apple Inc.</td></tr>
</table>
<a href="/v?qt=adv&amp;page=2">Next</a>
</body></html>`

func TestParseListingExtractsEntries(t *testing.T) {
	listing, err := ParseListing(strings.NewReader(listingPage))
	if err != nil {
		t.Fatalf("ParseListing returned error: %v", err)
	}

	if len(listing.Entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(listing.Entries))
	}
	first := listing.Entries[0]
	if first.CaseID != "91239511" || first.Type != "OPP" {
		t.Fatalf("first entry = %+v", first)
	}
	want := time.Date(2018, 2, 14, 0, 0, 0, 0, time.UTC)
	if !first.Filed.Equal(want) {
		t.Fatalf("first filed = %v, want %v", first.Filed, want)
	}

	if listing.Entries[2].Type != "CAN" {
		t.Fatalf("third entry type = %q, want CAN", listing.Entries[2].Type)
	}
	if !listing.Entries[3].Filed.IsZero() {
		t.Fatalf("fourth entry filed = %v, want zero (no date in cell)", listing.Entries[3].Filed)
	}
	if !listing.HasNext {
		t.Fatal("expected next-page affordance")
	}
}

func TestParseListingLastPage(t *testing.T) {
	page := `
<html><body>
<table>
<tr><td><a href="/v?pno=91270001&amp;pty=OPP">91270001</a>03/03/2020</td></tr>
</table>
</body></html>`

	listing, err := ParseListing(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if listing.HasNext {
		t.Fatal("expected no next-page affordance")
	}
	if len(listing.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(listing.Entries))
	}
}

func TestParseListingEmptyPage(t *testing.T) {
	listing, err := ParseListing(strings.NewReader("<html><body><p>No results found.</p></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	if len(listing.Entries) != 0 || listing.HasNext {
		t.Fatalf("expected empty listing, got %+v", listing)
	}
}
