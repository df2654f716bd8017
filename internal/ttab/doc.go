// Package ttab is the HTTP client for the public docket source. It fetches
// proceeding pages and party search listings through the shared retrying
// executor and hands the markup to the docket parser.
package ttab
