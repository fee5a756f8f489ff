package records

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Contract struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OfficeID     uuid.UUID       `gorm:"type:uuid;column:office_id;not null;index" json:"office_id"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;column:owner_id;not null;index" json:"owner_id"`
	RenterID     uuid.UUID       `gorm:"type:uuid;column:renter_id;not null;index" json:"renter_id"`
	Description  string          `gorm:"column:description;size:500;not null" json:"description"`
	StartDate    time.Time       `gorm:"column:start_date;not null" json:"start_date"`
	EndDate      time.Time       `gorm:"column:end_date;not null" json:"end_date"`
	BaseAmount   decimal.Decimal `gorm:"column:base_amount;type:decimal(18,2);not null" json:"base_amount"`
	LateFee      decimal.Decimal `gorm:"column:late_fee;type:decimal(18,2);not null" json:"late_fee"`
	InterestRate decimal.Decimal `gorm:"column:interest_rate;type:decimal(5,2);not null" json:"interest_rate"`
	Status       string          `gorm:"column:status;not null;index" json:"status"`
	Version      int             `gorm:"column:version;not null" json:"version"`
	ActivatedAt  *time.Time      `gorm:"column:activated_at;index" json:"activated_at,omitempty"`
	TerminatedAt *time.Time      `gorm:"column:terminated_at" json:"terminated_at,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`

	Clauses       []ContractClause       `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"clauses,omitempty"`
	Signatures    []ContractSignature    `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"signatures,omitempty"`
	Compensations []ContractCompensation `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"compensations,omitempty"`
	Receipt       *PaymentReceipt        `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"receipt,omitempty"`
}

func (Contract) TableName() string { return "contract" }

type ContractClause struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID uuid.UUID `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`
	Seq        int       `gorm:"column:seq;not null" json:"seq"`
	Name       string    `gorm:"column:name;size:200;not null" json:"name"`
	Content    string    `gorm:"column:content;size:2000;not null" json:"content"`
	Position   int       `gorm:"column:position;not null" json:"position"`
	Mandatory  bool      `gorm:"column:mandatory;not null" json:"mandatory"`
}

func (ContractClause) TableName() string { return "contract_clause" }

type ContractSignature struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID    uuid.UUID `gorm:"type:uuid;column:contract_id;not null;uniqueIndex:idx_contract_signature_signer" json:"contract_id"`
	SignerID      uuid.UUID `gorm:"type:uuid;column:signer_id;not null;uniqueIndex:idx_contract_signature_signer" json:"signer_id"`
	SignatureHash string    `gorm:"column:signature_hash;size:256;not null" json:"signature_hash"`
	SignedAt      time.Time `gorm:"column:signed_at;not null" json:"signed_at"`
}

func (ContractSignature) TableName() string { return "contract_signature" }

type ContractCompensation struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID uuid.UUID       `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`
	Seq        int             `gorm:"column:seq;not null" json:"seq"`
	IssuerID   uuid.UUID       `gorm:"type:uuid;column:issuer_id;not null" json:"issuer_id"`
	ReceiverID uuid.UUID       `gorm:"type:uuid;column:receiver_id;not null" json:"receiver_id"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Reason     string          `gorm:"column:reason;size:500;not null" json:"reason"`
	Status     string          `gorm:"column:status;not null;index" json:"status"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

func (ContractCompensation) TableName() string { return "contract_compensation" }

// PaymentReceipt.RevisedAt maps to updated_at but is set only by receipt
// updates, never by gorm.
type PaymentReceipt struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID              uuid.UUID       `gorm:"type:uuid;column:contract_id;not null;uniqueIndex" json:"contract_id"`
	ReceiptNumber           string          `gorm:"column:receipt_number;size:50;not null;uniqueIndex" json:"receipt_number"`
	BaseAmount              decimal.Decimal `gorm:"column:base_amount;type:decimal(18,2);not null" json:"base_amount"`
	CompensationAdjustments decimal.Decimal `gorm:"column:compensation_adjustments;type:decimal(18,2);not null" json:"compensation_adjustments"`
	IssuedAt                time.Time       `gorm:"column:issued_at;not null" json:"issued_at"`
	RevisedAt               *time.Time      `gorm:"column:updated_at" json:"updated_at,omitempty"`
	Notes                   string          `gorm:"column:notes;size:1000" json:"notes"`
	Status                  string          `gorm:"column:status;not null" json:"status"`
}

func (PaymentReceipt) TableName() string { return "payment_receipt" }
