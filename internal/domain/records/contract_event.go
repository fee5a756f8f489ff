package records

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContractEvent is the append-only audit trail of published lifecycle events.
type ContractEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID uuid.UUID      `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`
	Kind       string         `gorm:"column:kind;not null;index" json:"kind"`
	Payload    datatypes.JSON `gorm:"column:payload;type:jsonb;not null" json:"payload"`
	OccurredAt time.Time      `gorm:"column:occurred_at;not null;index" json:"occurred_at"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (ContractEvent) TableName() string { return "contract_event_log" }
