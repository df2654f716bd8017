// Package textutil provides small text helpers shared by the docket parser
// and the mark classifier: alphanumeric word counting, whitespace collapsing
// for scraped HTML cells, and Unicode case-folded matching for party names.
package textutil
