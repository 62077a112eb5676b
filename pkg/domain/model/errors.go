package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound is returned by an address client when the API reports the code as invalid
	ErrNotFound = goerr.New("postal code not found")

	// ErrTooManyCodes is returned when a batch exceeds the configured limit
	ErrTooManyCodes = goerr.New("too many postal codes in batch")

	// ErrSheetNotFound is returned when the input workbook has no postal code sheet
	ErrSheetNotFound = goerr.New("postal code sheet not found")

	// ErrColumnNotFound is returned when the postal code sheet has no postal code column
	ErrColumnNotFound = goerr.New("postal code column not found")

	// ErrEmptyReport is returned when exporting a report without any result
	ErrEmptyReport = goerr.New("report has no results")
)
