package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/workstation-backend/internal/domain/records"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// =========================
		// Contracts and owned rows
		// =========================
		&records.Contract{},
		&records.ContractClause{},
		&records.ContractSignature{},
		&records.ContractCompensation{},
		&records.PaymentReceipt{},

		// =========================
		// Audit
		// =========================
		&records.ContractEvent{},
	); err != nil {
		return err
	}
	return EnsureContractIndexes(db)
}

// EnsureContractIndexes creates indexes gorm tags cannot express.
// The partial unique index makes "one active contract per office" a storage guarantee.
func EnsureContractIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_contract_active_office
		ON contract(office_id)
		WHERE status = 'active';
	`).Error; err != nil {
		return fmt.Errorf("create idx_contract_active_office: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_contract_owner_renter_created
		ON contract(owner_id, renter_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_contract_owner_renter_created: %w", err)
	}
	return nil
}
