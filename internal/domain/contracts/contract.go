package contracts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/workstation-backend/internal/domain/aggregates"
)

// Contract is the lease aggregate root. Clauses, signatures, compensations and
// the receipt are owned values: callers get copies and change them only
// through the methods below.
type Contract struct {
	id           uuid.UUID
	officeID     uuid.UUID
	ownerID      uuid.UUID
	renterID     uuid.UUID
	description  string
	startDate    time.Time
	endDate      time.Time
	baseAmount   decimal.Decimal
	lateFee      decimal.Decimal
	interestRate decimal.Decimal
	status       Status
	createdAt    time.Time
	activatedAt  *time.Time
	terminatedAt *time.Time

	clauses       []Clause
	signatures    []Signature
	compensations []Compensation
	receipt       *PaymentReceipt
}

// Terms are the creation-time attributes of a contract.
type Terms struct {
	OfficeID     uuid.UUID
	OwnerID      uuid.UUID
	RenterID     uuid.UUID
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	BaseAmount   decimal.Decimal
	LateFee      decimal.Decimal
	InterestRate decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// New builds a Draft contract. The terms are expected to have passed
// validation already; New only refuses values that would break the model.
func New(t Terms, now time.Time) (*Contract, error) {
	const op = "Contract.New"
	var fields []aggregates.FieldError
	if t.OfficeID == uuid.Nil {
		fields = append(fields, aggregates.FieldError{Field: "office_id", Message: "is required"})
	}
	if t.OwnerID == uuid.Nil {
		fields = append(fields, aggregates.FieldError{Field: "owner_id", Message: "is required"})
	}
	if t.RenterID == uuid.Nil {
		fields = append(fields, aggregates.FieldError{Field: "renter_id", Message: "is required"})
	} else if t.RenterID == t.OwnerID {
		fields = append(fields, aggregates.FieldError{Field: "renter_id", Message: "must differ from owner_id"})
	}
	if !t.EndDate.After(t.StartDate) {
		fields = append(fields, aggregates.FieldError{Field: "end_date", Message: "must be after start_date"})
	}
	if !t.BaseAmount.IsPositive() {
		fields = append(fields, aggregates.FieldError{Field: "base_amount", Message: "must be greater than 0"})
	}
	if t.LateFee.IsNegative() {
		fields = append(fields, aggregates.FieldError{Field: "late_fee", Message: "must not be negative"})
	}
	if t.InterestRate.IsNegative() || t.InterestRate.GreaterThan(hundred) {
		fields = append(fields, aggregates.FieldError{Field: "interest_rate", Message: "must be between 0 and 100"})
	}
	if len(fields) > 0 {
		return nil, aggregates.ValidationFailed(op, fields)
	}
	return &Contract{
		id:           uuid.New(),
		officeID:     t.OfficeID,
		ownerID:      t.OwnerID,
		renterID:     t.RenterID,
		description:  strings.TrimSpace(t.Description),
		startDate:    t.StartDate.UTC(),
		endDate:      t.EndDate.UTC(),
		baseAmount:   t.BaseAmount,
		lateFee:      t.LateFee,
		interestRate: t.InterestRate,
		status:       StatusDraft,
		createdAt:    now.UTC(),
	}, nil
}

func (c *Contract) ID() uuid.UUID                 { return c.id }
func (c *Contract) OfficeID() uuid.UUID           { return c.officeID }
func (c *Contract) OwnerID() uuid.UUID            { return c.ownerID }
func (c *Contract) RenterID() uuid.UUID           { return c.renterID }
func (c *Contract) Description() string           { return c.description }
func (c *Contract) StartDate() time.Time          { return c.startDate }
func (c *Contract) EndDate() time.Time            { return c.endDate }
func (c *Contract) BaseAmount() decimal.Decimal   { return c.baseAmount }
func (c *Contract) LateFee() decimal.Decimal      { return c.lateFee }
func (c *Contract) InterestRate() decimal.Decimal { return c.interestRate }
func (c *Contract) Status() Status                { return c.status }
func (c *Contract) CreatedAt() time.Time          { return c.createdAt }
func (c *Contract) ActivatedAt() *time.Time       { return copyTime(c.activatedAt) }
func (c *Contract) TerminatedAt() *time.Time      { return copyTime(c.terminatedAt) }

func (c *Contract) Clauses() []Clause             { return append([]Clause(nil), c.clauses...) }
func (c *Contract) Signatures() []Signature       { return append([]Signature(nil), c.signatures...) }
func (c *Contract) Compensations() []Compensation { return append([]Compensation(nil), c.compensations...) }

// Receipt returns a copy of the attached receipt.
func (c *Contract) Receipt() (PaymentReceipt, bool) {
	if c.receipt == nil {
		return PaymentReceipt{}, false
	}
	return *copyReceipt(c.receipt), true
}

// IsParty reports whether userID is the owner or the renter.
func (c *Contract) IsParty(userID uuid.UUID) bool {
	return userID != uuid.Nil && (userID == c.ownerID || userID == c.renterID)
}

func (c *Contract) HasSigned(userID uuid.UUID) bool {
	for _, s := range c.signatures {
		if s.SignerID == userID {
			return true
		}
	}
	return false
}

// HasQuorum reports whether both owner and renter have signed.
func (c *Contract) HasQuorum() bool {
	return c.HasSigned(c.ownerID) && c.HasSigned(c.renterID)
}

func (c *Contract) HasPendingCompensations() bool {
	for _, comp := range c.compensations {
		if comp.IsPending() {
			return true
		}
	}
	return false
}

func (c *Contract) AddClause(cl Clause) error {
	const op = "Contract.AddClause"
	if c.status != StatusDraft && c.status != StatusPendingSignatures {
		return aggregates.InvalidState(op, fmt.Sprintf("cannot add clause to %s contract", c.status))
	}
	if cl.ContractID != c.id {
		return aggregates.InvalidState(op, "clause belongs to another contract")
	}
	c.clauses = append(c.clauses, cl)
	return nil
}

// AddSignature records a party's signature. The second required signature
// moves a Draft contract to PendingSignatures.
func (c *Contract) AddSignature(sig Signature) error {
	const op = "Contract.AddSignature"
	switch c.status {
	case StatusActive, StatusCompleted, StatusCancelled, StatusTerminated:
		return aggregates.InvalidState(op, fmt.Sprintf("cannot sign %s contract", c.status))
	}
	if sig.ContractID != c.id {
		return aggregates.InvalidState(op, "signature belongs to another contract")
	}
	if !c.IsParty(sig.SignerID) {
		return aggregates.InvalidState(op, "signer is not a party to the contract")
	}
	if c.HasSigned(sig.SignerID) {
		return aggregates.InvalidState(op, "signer has already signed")
	}
	c.signatures = append(c.signatures, sig)
	if c.status == StatusDraft && c.HasQuorum() {
		c.status = StatusPendingSignatures
	}
	return nil
}

func (c *Contract) AddCompensation(comp Compensation) error {
	const op = "Contract.AddCompensation"
	if c.status != StatusActive {
		return aggregates.InvalidState(op, fmt.Sprintf("cannot add compensation to %s contract", c.status))
	}
	if comp.ContractID != c.id {
		return aggregates.InvalidState(op, "compensation belongs to another contract")
	}
	c.compensations = append(c.compensations, comp)
	return nil
}

func (c *Contract) ApproveCompensation(id uuid.UUID) error {
	return c.resolveCompensation("Contract.ApproveCompensation", id, CompensationApproved)
}

func (c *Contract) RejectCompensation(id uuid.UUID) error {
	return c.resolveCompensation("Contract.RejectCompensation", id, CompensationRejected)
}

func (c *Contract) resolveCompensation(op string, id uuid.UUID, to CompensationStatus) error {
	for i := range c.compensations {
		if c.compensations[i].ID != id {
			continue
		}
		if !c.compensations[i].IsPending() {
			return aggregates.InvalidState(op, fmt.Sprintf("compensation is already %s", c.compensations[i].Status))
		}
		c.compensations[i].Status = to
		return nil
	}
	return aggregates.NewError(aggregates.CodeNotFound, op, "compensation not found: "+id.String(), nil)
}

// SetReceipt attaches r, replacing any previous receipt.
func (c *Contract) SetReceipt(r PaymentReceipt) error {
	if r.ContractID != c.id {
		return aggregates.InvalidState("Contract.SetReceipt", "receipt belongs to another contract")
	}
	c.receipt = copyReceipt(&r)
	return nil
}

func (c *Contract) UpdateReceipt(adjustments decimal.Decimal, notes string, now time.Time) error {
	if c.receipt == nil {
		return aggregates.NewError(aggregates.CodeNotFound, "Contract.UpdateReceipt", "contract has no receipt", nil)
	}
	return c.receipt.UpdateWithCompensations(adjustments, notes, now)
}

func (c *Contract) FinalizeReceipt(now time.Time) error {
	if c.receipt == nil {
		return aggregates.NewError(aggregates.CodeNotFound, "Contract.FinalizeReceipt", "contract has no receipt", nil)
	}
	return c.receipt.Finalize(now)
}

func (c *Contract) CancelReceipt(now time.Time) error {
	if c.receipt == nil {
		return aggregates.NewError(aggregates.CodeNotFound, "Contract.CancelReceipt", "contract has no receipt", nil)
	}
	return c.receipt.Cancel(now)
}

// Activate re-checks the quorum so a direct call cannot skip the signing flow.
func (c *Contract) Activate(now time.Time) error {
	const op = "Contract.Activate"
	if c.status != StatusPendingSignatures {
		return aggregates.InvalidState(op, fmt.Sprintf("cannot activate %s contract", c.status))
	}
	if !c.HasQuorum() {
		return aggregates.InvalidState(op, "owner and renter signatures are required")
	}
	at := now.UTC()
	c.status = StatusActive
	c.activatedAt = &at
	return nil
}

// Terminate ends an active lease. Pending compensations block it.
// The receipt is left as it is.
func (c *Contract) Terminate(now time.Time) error {
	const op = "Contract.Terminate"
	if c.status != StatusActive {
		return aggregates.InvalidState(op, fmt.Sprintf("cannot terminate %s contract", c.status))
	}
	if c.HasPendingCompensations() {
		return aggregates.InvalidState(op, "contract has pending compensations")
	}
	at := now.UTC()
	c.status = StatusCompleted
	c.terminatedAt = &at
	return nil
}

// Cancel withdraws a contract that never went live.
func (c *Contract) Cancel(now time.Time) error {
	const op = "Contract.Cancel"
	if c.status != StatusDraft && c.status != StatusPendingSignatures {
		return aggregates.InvalidState(op, fmt.Sprintf("cannot cancel %s contract", c.status))
	}
	at := now.UTC()
	c.status = StatusCancelled
	c.terminatedAt = &at
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyReceipt(r *PaymentReceipt) *PaymentReceipt {
	if r == nil {
		return nil
	}
	out := *r
	out.UpdatedAt = copyTime(r.UpdatedAt)
	return &out
}
