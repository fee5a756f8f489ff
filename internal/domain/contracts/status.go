package contracts

import "strings"

// Status is the lifecycle state of a contract.
type Status string

const (
	StatusDraft             Status = "draft"
	StatusPendingSignatures Status = "pending_signatures"
	StatusActive            Status = "active"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
	// StatusTerminated is reserved. No transition produces it.
	StatusTerminated Status = "terminated"
)

func (s Status) String() string { return string(s) }

// CompensationStatus is the resolution state of a compensation claim.
type CompensationStatus string

const (
	CompensationPending  CompensationStatus = "pending"
	CompensationApproved CompensationStatus = "approved"
	CompensationRejected CompensationStatus = "rejected"
)

// ReceiptStatus is the lifecycle state of a payment receipt.
type ReceiptStatus string

const (
	ReceiptStatusIssued    ReceiptStatus = "issued"
	ReceiptStatusUpdated   ReceiptStatus = "updated"
	ReceiptStatusFinalized ReceiptStatus = "finalized"
	ReceiptStatusCancelled ReceiptStatus = "cancelled"
)

// Role is the counterparty role a user holds in the wider system.
type Role string

const (
	RoleLessor Role = "lessor"
	RoleSeeker Role = "seeker"
	RoleOther  Role = "other"
)

// ParseRole normalizes a stored role name. Unknown names map to RoleOther.
func ParseRole(raw string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch r {
	case RoleLessor, RoleSeeker:
		return r
	default:
		return RoleOther
	}
}
