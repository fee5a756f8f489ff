package contracts

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/workstation-backend/internal/domain/aggregates"
)

// PaymentReceipt is the billing record attached to a contract.
// FinalAmount is derived and never stored.
type PaymentReceipt struct {
	ID                      uuid.UUID       `json:"id"`
	ContractID              uuid.UUID       `json:"contract_id"`
	ReceiptNumber           string          `json:"receipt_number"`
	BaseAmount              decimal.Decimal `json:"base_amount"`
	CompensationAdjustments decimal.Decimal `json:"compensation_adjustments"`
	IssuedAt                time.Time       `json:"issued_at"`
	UpdatedAt               *time.Time      `json:"updated_at,omitempty"`
	Notes                   string          `json:"notes"`
	Status                  ReceiptStatus   `json:"status"`
}

// NewPaymentReceipt issues a receipt. Nothing in the contract lifecycle calls
// it on its own; the surrounding system decides when a receipt exists.
func NewPaymentReceipt(contractID uuid.UUID, receiptNumber string, baseAmount decimal.Decimal, now time.Time) PaymentReceipt {
	return PaymentReceipt{
		ID:                      uuid.New(),
		ContractID:              contractID,
		ReceiptNumber:           strings.TrimSpace(receiptNumber),
		BaseAmount:              baseAmount,
		CompensationAdjustments: decimal.Zero,
		IssuedAt:                now.UTC(),
		Status:                  ReceiptStatusIssued,
	}
}

func (r PaymentReceipt) FinalAmount() decimal.Decimal {
	return r.BaseAmount.Add(r.CompensationAdjustments)
}

func (r PaymentReceipt) isClosed() bool {
	return r.Status == ReceiptStatusFinalized || r.Status == ReceiptStatusCancelled
}

// UpdateWithCompensations replaces the adjustment wholesale; it never accumulates.
func (r *PaymentReceipt) UpdateWithCompensations(adjustments decimal.Decimal, notes string, now time.Time) error {
	const op = "Receipt.UpdateWithCompensations"
	if r.isClosed() {
		return aggregates.InvalidState(op, "receipt is "+string(r.Status))
	}
	at := now.UTC()
	r.CompensationAdjustments = adjustments
	r.Notes = strings.TrimSpace(notes)
	r.UpdatedAt = &at
	r.Status = ReceiptStatusUpdated
	return nil
}

func (r *PaymentReceipt) Finalize(now time.Time) error {
	if r.isClosed() {
		return aggregates.InvalidState("Receipt.Finalize", "receipt is "+string(r.Status))
	}
	at := now.UTC()
	r.UpdatedAt = &at
	r.Status = ReceiptStatusFinalized
	return nil
}

func (r *PaymentReceipt) Cancel(now time.Time) error {
	if r.Status == ReceiptStatusFinalized {
		return aggregates.InvalidState("Receipt.Cancel", "receipt is finalized")
	}
	at := now.UTC()
	r.UpdatedAt = &at
	r.Status = ReceiptStatusCancelled
	return nil
}
