package docket

import (
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ttabscan/internal/textutil"
)

var (
	caseNumberPattern     = regexp.MustCompile(`pno=(\d+)`)
	proceedingTypePattern = regexp.MustCompile(`pty=([A-Z]+)`)
)

// ListingEntry is one proceeding link found on a search results page.
// Filed is zero when the surrounding cell carried no date.
type ListingEntry struct {
	CaseID string
	Type   string
	Filed  time.Time
}

// Listing is one page of party search results.
type Listing struct {
	Entries []ListingEntry
	HasNext bool
}

// ParseListing extracts proceeding links and the next-page affordance from a
// search results page. Entries keep their proceeding type; filtering to a
// particular type is the caller's concern.
func ParseListing(r io.Reader) (Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Listing{}, fmt.Errorf("parse listing markup: %w", err)
	}

	var listing Listing
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")
		if textutil.CollapseWhitespace(sel.Text()) == "Next" {
			listing.HasNext = true
		}

		caseMatch := caseNumberPattern.FindStringSubmatch(href)
		typeMatch := proceedingTypePattern.FindStringSubmatch(href)
		if caseMatch == nil || typeMatch == nil {
			return
		}

		entry := ListingEntry{CaseID: caseMatch[1], Type: typeMatch[1]}
		// The filing date sits in the same cell, concatenated after the
		// proceeding number.
		if cell := sel.Closest("td"); cell.Length() > 0 {
			if date, ok := extractDate(cell.Text()); ok {
				entry.Filed = date
			}
		}
		listing.Entries = append(listing.Entries, entry)
	})
	return listing, nil
}
