package model

import "strings"

// CEP is a Brazilian postal code as typed by the user, e.g. "01001-000" or "01001000"
type CEP string

// Normalize returns the code without surrounding whitespace and hyphens, in the
// form expected by the address API
func (c CEP) Normalize() string {
	return strings.ReplaceAll(strings.TrimSpace(string(c)), "-", "")
}

// String returns the original text of the code
func (c CEP) String() string {
	return string(c)
}

// Address represents the address resolved for a postal code. Fields missing
// from the API response are left empty.
type Address struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	StateCode    string `json:"state_code"`
}

// LookupResult is the outcome of a single lookup. CEP keeps the caller's
// original, unnormalized text. Address is set only when Found is true.
type LookupResult struct {
	CEP     CEP      `json:"cep"`
	Found   bool     `json:"found"`
	Address *Address `json:"address,omitempty"`
}

// NewFound creates a result for a resolved code
func NewFound(cep CEP, addr *Address) *LookupResult {
	if addr == nil {
		addr = &Address{}
	}
	copied := *addr
	return &LookupResult{
		CEP:     cep,
		Found:   true,
		Address: &copied,
	}
}

// NewNotFound creates a result for a code that could not be resolved
func NewNotFound(cep CEP) *LookupResult {
	return &LookupResult{CEP: cep}
}

// BatchReport holds the results of a batch lookup split by category, each in
// input row order
type BatchReport struct {
	Found   []LookupResult `json:"found"`
	Invalid []LookupResult `json:"invalid"`
}

// NewBatchReport returns an empty report whose categories encode as empty
// JSON arrays
func NewBatchReport() *BatchReport {
	return &BatchReport{
		Found:   []LookupResult{},
		Invalid: []LookupResult{},
	}
}

// Add appends the result to the category matching its outcome
func (r *BatchReport) Add(result *LookupResult) {
	if result == nil {
		return
	}
	if result.Found {
		r.Found = append(r.Found, *result)
	} else {
		r.Invalid = append(r.Invalid, *result)
	}
}

// Total returns the number of results in both categories
func (r *BatchReport) Total() int {
	return len(r.Found) + len(r.Invalid)
}

// Empty reports whether neither category has any result
func (r *BatchReport) Empty() bool {
	return r.Total() == 0
}
