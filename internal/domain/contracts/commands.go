package contracts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateContractCommand struct {
	OfficeID     uuid.UUID       `json:"office_id" validate:"required"`
	OwnerID      uuid.UUID       `json:"owner_id" validate:"required"`
	RenterID     uuid.UUID       `json:"renter_id" validate:"required"`
	Description  string          `json:"description" validate:"required,max=500"`
	StartDate    time.Time       `json:"start_date" validate:"required"`
	EndDate      time.Time       `json:"end_date" validate:"required"`
	BaseAmount   decimal.Decimal `json:"base_amount"`
	LateFee      decimal.Decimal `json:"late_fee"`
	InterestRate decimal.Decimal `json:"interest_rate"`
}

func (c CreateContractCommand) Terms() Terms {
	return Terms{
		OfficeID:     c.OfficeID,
		OwnerID:      c.OwnerID,
		RenterID:     c.RenterID,
		Description:  c.Description,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		BaseAmount:   c.BaseAmount,
		LateFee:      c.LateFee,
		InterestRate: c.InterestRate,
	}
}

type AddClauseCommand struct {
	ContractID uuid.UUID `json:"contract_id" validate:"required"`
	Name       string    `json:"name" validate:"required,max=200"`
	Content    string    `json:"content" validate:"required,max=2000"`
	Order      int       `json:"order" validate:"gt=0"`
	Mandatory  bool      `json:"mandatory"`
}

type AddCompensationCommand struct {
	ContractID uuid.UUID       `json:"contract_id" validate:"required"`
	IssuerID   uuid.UUID       `json:"issuer_id" validate:"required"`
	ReceiverID uuid.UUID       `json:"receiver_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason" validate:"required,max=500"`
}

type ActivateContractCommand struct {
	ContractID uuid.UUID `json:"contract_id" validate:"required"`
}

type SignContractCommand struct {
	ContractID    uuid.UUID `json:"contract_id" validate:"required"`
	SignerID      uuid.UUID `json:"signer_id" validate:"required"`
	SignatureHash string    `json:"signature_hash" validate:"required,min=32,max=256"`
}

type UpdateReceiptCommand struct {
	ContractID              uuid.UUID       `json:"contract_id" validate:"required"`
	CompensationAdjustments decimal.Decimal `json:"compensation_adjustments"`
	Notes                   string          `json:"notes" validate:"required,max=1000"`
}

type FinishContractCommand struct {
	ContractID uuid.UUID `json:"contract_id" validate:"required"`
	Reason     string    `json:"reason" validate:"required,max=500"`
}

type CancelContractCommand struct {
	ContractID uuid.UUID `json:"contract_id" validate:"required"`
	Reason     string    `json:"reason" validate:"required,max=500"`
}

// Decision is the outcome chosen for a pending compensation.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type ResolveCompensationCommand struct {
	ContractID     uuid.UUID `json:"contract_id" validate:"required"`
	CompensationID uuid.UUID `json:"compensation_id" validate:"required"`
	Decision       Decision  `json:"decision" validate:"required,oneof=approve reject"`
}

type IssueReceiptCommand struct {
	ContractID    uuid.UUID       `json:"contract_id" validate:"required"`
	ReceiptNumber string          `json:"receipt_number" validate:"required,max=50"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
}
