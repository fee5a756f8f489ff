package contracts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind names one of the six lifecycle facts a contract announces.
type EventKind string

const (
	KindContractCreated   EventKind = "ContractCreated"
	KindClauseAdded       EventKind = "ClauseAdded"
	KindContractActivated EventKind = "ContractActivated"
	KindContractSigned    EventKind = "ContractSigned"
	KindReceiptUpdated    EventKind = "ReceiptUpdated"
	KindContractFinished  EventKind = "ContractFinished"
)

// Event is a closed union: only the types in this file implement it.
// Consumers dispatch with a type switch.
type Event interface {
	Kind() EventKind
	Subject() uuid.UUID
	Time() time.Time
	contractEvent()
}

type ContractCreated struct {
	ContractID uuid.UUID       `json:"contract_id"`
	OfficeID   uuid.UUID       `json:"office_id"`
	OwnerID    uuid.UUID       `json:"owner_id"`
	RenterID   uuid.UUID       `json:"renter_id"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type ClauseAdded struct {
	ContractID uuid.UUID `json:"contract_id"`
	ClauseID   uuid.UUID `json:"clause_id"`
	Name       string    `json:"name"`
	Mandatory  bool      `json:"mandatory"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ContractActivated struct {
	ContractID uuid.UUID `json:"contract_id"`
	OfficeID   uuid.UUID `json:"office_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ContractSigned struct {
	ContractID       uuid.UUID `json:"contract_id"`
	SignerID         uuid.UUID `json:"signer_id"`
	SignatureHash    string    `json:"signature_hash"`
	SignedAt         time.Time `json:"signed_at"`
	AllPartiesSigned bool      `json:"all_parties_signed"`
}

type ReceiptUpdated struct {
	ReceiptID               uuid.UUID       `json:"receipt_id"`
	ContractID              uuid.UUID       `json:"contract_id"`
	CompensationAdjustments decimal.Decimal `json:"compensation_adjustments"`
	FinalAmount             decimal.Decimal `json:"final_amount"`
	Notes                   string          `json:"notes"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

type ContractFinished struct {
	ContractID uuid.UUID `json:"contract_id"`
	OfficeID   uuid.UUID `json:"office_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (ContractCreated) Kind() EventKind   { return KindContractCreated }
func (ClauseAdded) Kind() EventKind       { return KindClauseAdded }
func (ContractActivated) Kind() EventKind { return KindContractActivated }
func (ContractSigned) Kind() EventKind    { return KindContractSigned }
func (ReceiptUpdated) Kind() EventKind    { return KindReceiptUpdated }
func (ContractFinished) Kind() EventKind  { return KindContractFinished }

func (e ContractCreated) Subject() uuid.UUID   { return e.ContractID }
func (e ClauseAdded) Subject() uuid.UUID       { return e.ContractID }
func (e ContractActivated) Subject() uuid.UUID { return e.ContractID }
func (e ContractSigned) Subject() uuid.UUID    { return e.ContractID }
func (e ReceiptUpdated) Subject() uuid.UUID    { return e.ContractID }
func (e ContractFinished) Subject() uuid.UUID  { return e.ContractID }

func (e ContractCreated) Time() time.Time   { return e.OccurredAt }
func (e ClauseAdded) Time() time.Time       { return e.OccurredAt }
func (e ContractActivated) Time() time.Time { return e.OccurredAt }
func (e ContractSigned) Time() time.Time    { return e.SignedAt }
func (e ReceiptUpdated) Time() time.Time    { return e.UpdatedAt }
func (e ContractFinished) Time() time.Time  { return e.OccurredAt }

func (ContractCreated) contractEvent()   {}
func (ClauseAdded) contractEvent()       {}
func (ContractActivated) contractEvent() {}
func (ContractSigned) contractEvent()    {}
func (ReceiptUpdated) contractEvent()    {}
func (ContractFinished) contractEvent()  {}
