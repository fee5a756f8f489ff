package contracts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is a detached, serializable copy of a contract. Persistence
// rebuilds aggregates from it and read paths render it.
type Snapshot struct {
	ID            uuid.UUID       `json:"id"`
	OfficeID      uuid.UUID       `json:"office_id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	RenterID      uuid.UUID       `json:"renter_id"`
	Description   string          `json:"description"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	LateFee       decimal.Decimal `json:"late_fee"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	ActivatedAt   *time.Time      `json:"activated_at,omitempty"`
	TerminatedAt  *time.Time      `json:"terminated_at,omitempty"`
	Clauses       []Clause        `json:"clauses"`
	Signatures    []Signature     `json:"signatures"`
	Compensations []Compensation  `json:"compensations"`
	Receipt       *PaymentReceipt `json:"receipt,omitempty"`
}

func (c *Contract) Snapshot() Snapshot {
	return Snapshot{
		ID:            c.id,
		OfficeID:      c.officeID,
		OwnerID:       c.ownerID,
		RenterID:      c.renterID,
		Description:   c.description,
		StartDate:     c.startDate,
		EndDate:       c.endDate,
		BaseAmount:    c.baseAmount,
		LateFee:       c.lateFee,
		InterestRate:  c.interestRate,
		Status:        c.status,
		CreatedAt:     c.createdAt,
		ActivatedAt:   copyTime(c.activatedAt),
		TerminatedAt:  copyTime(c.terminatedAt),
		Clauses:       c.Clauses(),
		Signatures:    c.Signatures(),
		Compensations: c.Compensations(),
		Receipt:       copyReceipt(c.receipt),
	}
}

// Rehydrate rebuilds an aggregate from stored state without re-running
// creation checks.
func Rehydrate(s Snapshot) *Contract {
	return &Contract{
		id:            s.ID,
		officeID:      s.OfficeID,
		ownerID:       s.OwnerID,
		renterID:      s.RenterID,
		description:   s.Description,
		startDate:     s.StartDate,
		endDate:       s.EndDate,
		baseAmount:    s.BaseAmount,
		lateFee:       s.LateFee,
		interestRate:  s.InterestRate,
		status:        s.Status,
		createdAt:     s.CreatedAt,
		activatedAt:   copyTime(s.ActivatedAt),
		terminatedAt:  copyTime(s.TerminatedAt),
		clauses:       append([]Clause(nil), s.Clauses...),
		signatures:    append([]Signature(nil), s.Signatures...),
		compensations: append([]Compensation(nil), s.Compensations...),
		receipt:       copyReceipt(s.Receipt),
	}
}
