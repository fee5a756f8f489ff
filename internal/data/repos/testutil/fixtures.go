package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/workstation-backend/internal/domain/records"
)

// SeedContract inserts a bare contract row (no owned rows) in the given status.
func SeedContract(tb testing.TB, ctx context.Context, tx *gorm.DB, officeID uuid.UUID, status string) *records.Contract {
	tb.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	row := &records.Contract{
		ID:           uuid.New(),
		OfficeID:     officeID,
		OwnerID:      uuid.New(),
		RenterID:     uuid.New(),
		Description:  "seeded lease",
		StartDate:    now.AddDate(0, 0, 1),
		EndDate:      now.AddDate(1, 0, 0),
		BaseAmount:   decimal.NewFromInt(1000),
		LateFee:      decimal.NewFromInt(25),
		InterestRate: decimal.NewFromInt(3),
		Status:       status,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == "active" {
		row.ActivatedAt = &now
	}
	if err := tx.WithContext(ctx).Omit("Clauses", "Signatures", "Compensations", "Receipt").Create(row).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	return row
}
