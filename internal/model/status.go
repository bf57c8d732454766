package model

import "strings"

// Status is the fixed taxonomy every downstream decision is based on.
// Raw service values map into it via ClassifyStatus; nothing outside this
// file compares raw status strings.
type Status string

const (
	StatusSettled Status = "settled"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
	StatusUnknown Status = "unknown"
)

// ClassifyStatus maps a raw status string to the taxonomy. Matching is
// case-insensitive; anything unrecognized (including empty) is unknown.
func ClassifyStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "settlement", "success":
		return StatusSettled
	case "pending":
		return StatusPending
	case "cancel", "expire", "failed":
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// AllowsPayment reports whether pay-now and check-status actions apply.
func (s Status) AllowsPayment() bool {
	return s == StatusPending
}

// Settled reports whether the transaction has completed successfully.
func (s Status) Settled() bool {
	return s == StatusSettled
}
