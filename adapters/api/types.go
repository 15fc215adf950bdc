package api

import "goskim/internal/naming"

// CleanColumnsRequest is the body of POST /api/columns/clean. A missing
// case defaults to snake; a missing remove_accents defaults to true.
type CleanColumnsRequest struct {
	Names         []string             `json:"names"`
	Case          string               `json:"case,omitempty"`
	Replace       []naming.Replacement `json:"replace,omitempty"`
	RemoveAccents *bool                `json:"remove_accents,omitempty"`
}

// CleanColumnsResponse carries the normalized names in input order
type CleanColumnsResponse struct {
	Names []string `json:"names"`
}

// ErrorResponse is written for every failed request
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

func (r CleanColumnsRequest) options() naming.Options {
	opts := naming.DefaultOptions()
	if r.Case != "" {
		opts.Case = naming.CaseStyle(r.Case)
	}
	opts.Replace = r.Replace
	if r.RemoveAccents != nil {
		opts.RemoveAccents = *r.RemoveAccents
	}
	return opts
}
