package handler

import (
	"steamgate/internal/gate/models"
)

// CheckResponse is the HTTP response for GET /check.
type CheckResponse struct {
	Authorized bool     `json:"authorized"`
	Details    []string `json:"details"`
	FromCache  bool     `json:"from_cache"`
}

// FromDecision converts a domain Decision to an HTTP response.
func FromDecision(decision *models.Decision) *CheckResponse {
	details := decision.Details
	if details == nil {
		details = []string{}
	}
	return &CheckResponse{
		Authorized: decision.Authorized,
		Details:    details,
		FromCache:  decision.FromCache,
	}
}
