package contracts

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/workstation-backend/internal/domain/records"
	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

type ContractRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*records.Contract, error)
	GetActiveByOfficeID(dbc dbctx.Context, officeID uuid.UUID) (*records.Contract, error)
	GetByParticipantID(dbc dbctx.Context, userID uuid.UUID) ([]*records.Contract, error)
	ListActive(dbc dbctx.Context) ([]*records.Contract, error)

	Create(dbc dbctx.Context, row *records.Contract) error
	CreateClauses(dbc dbctx.Context, rows []*records.ContractClause) error
	CreateSignatures(dbc dbctx.Context, rows []*records.ContractSignature) error
	CreateCompensations(dbc dbctx.Context, rows []*records.ContractCompensation) error
	CreateReceipt(dbc dbctx.Context, row *records.PaymentReceipt) error
	UpdateReceipt(dbc dbctx.Context, row *records.PaymentReceipt) error
	DeleteReceiptsByContractID(dbc dbctx.Context, contractID uuid.UUID) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	repoLog := baseLog.With("repo", "ContractRepo")
	return &contractRepo{db: db, log: repoLog}
}

func (r *contractRepo) tx(dbc dbctx.Context) *gorm.DB {
	return dbc.Conn(r.db)
}

// withChildren preloads the owned rows in their stored order.
func withChildren(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Clauses", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Signatures", func(db *gorm.DB) *gorm.DB { return db.Order("signed_at ASC, id ASC") }).
		Preload("Compensations", func(db *gorm.DB) *gorm.DB { return db.Order("seq ASC") }).
		Preload("Receipt")
}

func (r *contractRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*records.Contract, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row records.Contract
	err := withChildren(r.tx(dbc)).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *contractRepo) GetActiveByOfficeID(dbc dbctx.Context, officeID uuid.UUID) (*records.Contract, error) {
	if officeID == uuid.Nil {
		return nil, nil
	}
	var rows []*records.Contract
	if err := withChildren(r.tx(dbc)).
		Where("office_id = ? AND status = ?", officeID, "active").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contractRepo) GetByParticipantID(dbc dbctx.Context, userID uuid.UUID) ([]*records.Contract, error) {
	var results []*records.Contract
	if userID == uuid.Nil {
		return results, nil
	}
	if err := withChildren(r.tx(dbc)).
		Where("owner_id = ? OR renter_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contractRepo) ListActive(dbc dbctx.Context) ([]*records.Contract, error) {
	var results []*records.Contract
	if err := withChildren(r.tx(dbc)).
		Where("status = ?", "active").
		Order("activated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Create inserts the contract row and every owned row it carries.
func (r *contractRepo) Create(dbc dbctx.Context, row *records.Contract) error {
	if row == nil {
		return nil
	}
	if err := r.tx(dbc).Omit(clause.Associations).Create(row).Error; err != nil {
		return err
	}
	if err := r.CreateClauses(dbc, ptrs(row.Clauses)); err != nil {
		return err
	}
	if err := r.CreateSignatures(dbc, ptrs(row.Signatures)); err != nil {
		return err
	}
	if err := r.CreateCompensations(dbc, ptrs(row.Compensations)); err != nil {
		return err
	}
	if row.Receipt != nil {
		return r.CreateReceipt(dbc, row.Receipt)
	}
	return nil
}

func (r *contractRepo) CreateClauses(dbc dbctx.Context, rows []*records.ContractClause) error {
	if len(rows) == 0 {
		return nil
	}
	return r.tx(dbc).Create(&rows).Error
}

func (r *contractRepo) CreateSignatures(dbc dbctx.Context, rows []*records.ContractSignature) error {
	if len(rows) == 0 {
		return nil
	}
	return r.tx(dbc).Create(&rows).Error
}

func (r *contractRepo) CreateCompensations(dbc dbctx.Context, rows []*records.ContractCompensation) error {
	if len(rows) == 0 {
		return nil
	}
	return r.tx(dbc).Create(&rows).Error
}

func (r *contractRepo) CreateReceipt(dbc dbctx.Context, row *records.PaymentReceipt) error {
	if row == nil {
		return nil
	}
	return r.tx(dbc).Create(row).Error
}

func (r *contractRepo) UpdateReceipt(dbc dbctx.Context, row *records.PaymentReceipt) error {
	if row == nil {
		return nil
	}
	return r.tx(dbc).
		Model(&records.PaymentReceipt{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"compensation_adjustments": row.CompensationAdjustments,
			"notes":                    row.Notes,
			"status":                   row.Status,
			"updated_at":               row.RevisedAt,
		}).Error
}

func (r *contractRepo) DeleteReceiptsByContractID(dbc dbctx.Context, contractID uuid.UUID) error {
	if contractID == uuid.Nil {
		return nil
	}
	return r.tx(dbc).
		Where("contract_id = ?", contractID).
		Delete(&records.PaymentReceipt{}).Error
}

func ptrs[T any](in []T) []*T {
	out := make([]*T, 0, len(in))
	for i := range in {
		out = append(out, &in[i])
	}
	return out
}
