package contracts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/workstation-backend/internal/domain/records"
	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

type ContractEventRepo interface {
	Create(dbc dbctx.Context, rows []*records.ContractEvent) ([]*records.ContractEvent, error)
	ListByContractID(dbc dbctx.Context, contractID uuid.UUID) ([]*records.ContractEvent, error)
}

type contractEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractEventRepo(db *gorm.DB, baseLog *logger.Logger) ContractEventRepo {
	repoLog := baseLog.With("repo", "ContractEventRepo")
	return &contractEventRepo{db: db, log: repoLog}
}

func (r *contractEventRepo) Create(dbc dbctx.Context, rows []*records.ContractEvent) ([]*records.ContractEvent, error) {
	if len(rows) == 0 {
		return []*records.ContractEvent{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contractEventRepo) ListByContractID(dbc dbctx.Context, contractID uuid.UUID) ([]*records.ContractEvent, error) {
	var results []*records.ContractEvent
	if contractID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Where("contract_id = ?", contractID).
		Order("occurred_at ASC, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
