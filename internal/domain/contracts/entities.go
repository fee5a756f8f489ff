package contracts

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clause is a numbered term of a contract. Immutable once built.
type Clause struct {
	ID         uuid.UUID `json:"id"`
	ContractID uuid.UUID `json:"contract_id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	Order      int       `json:"order"`
	Mandatory  bool      `json:"mandatory"`
}

func NewClause(contractID uuid.UUID, name, content string, order int, mandatory bool) Clause {
	return Clause{
		ID:         uuid.New(),
		ContractID: contractID,
		Name:       strings.TrimSpace(name),
		Content:    strings.TrimSpace(content),
		Order:      order,
		Mandatory:  mandatory,
	}
}

// Signature records one party's consent. Immutable once built.
type Signature struct {
	ID            uuid.UUID `json:"id"`
	ContractID    uuid.UUID `json:"contract_id"`
	SignerID      uuid.UUID `json:"signer_id"`
	SignedAt      time.Time `json:"signed_at"`
	SignatureHash string    `json:"signature_hash"`
}

func NewSignature(contractID, signerID uuid.UUID, hash string, now time.Time) Signature {
	return Signature{
		ID:            uuid.New(),
		ContractID:    contractID,
		SignerID:      signerID,
		SignedAt:      now.UTC(),
		SignatureHash: strings.TrimSpace(hash),
	}
}

// Compensation is a monetary claim between the parties of an active contract.
// Only Status changes after construction, and only through the owning Contract.
type Compensation struct {
	ID         uuid.UUID          `json:"id"`
	ContractID uuid.UUID          `json:"contract_id"`
	IssuerID   uuid.UUID          `json:"issuer_id"`
	ReceiverID uuid.UUID          `json:"receiver_id"`
	Amount     decimal.Decimal    `json:"amount"`
	Reason     string             `json:"reason"`
	CreatedAt  time.Time          `json:"created_at"`
	Status     CompensationStatus `json:"status"`
}

func NewCompensation(contractID, issuerID, receiverID uuid.UUID, amount decimal.Decimal, reason string, now time.Time) Compensation {
	return Compensation{
		ID:         uuid.New(),
		ContractID: contractID,
		IssuerID:   issuerID,
		ReceiverID: receiverID,
		Amount:     amount,
		Reason:     strings.TrimSpace(reason),
		CreatedAt:  now.UTC(),
		Status:     CompensationPending,
	}
}

func (c Compensation) IsPending() bool { return c.Status == CompensationPending }
