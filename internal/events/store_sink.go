package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/workstation-backend/internal/data/repos"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/domain/records"
	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
)

// StoreSink appends every event to the contract_event_log table.
type StoreSink struct {
	repo repos.ContractEventRepo
	now  func() time.Time
}

func NewStoreSink(repo repos.ContractEventRepo) *StoreSink {
	return &StoreSink{repo: repo, now: time.Now}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Deliver(ctx context.Context, e contracts.Event) error {
	env, err := NewEnvelope(e)
	if err != nil {
		return internalErr("StoreSink.Deliver", err)
	}
	row := &records.ContractEvent{
		ID:         uuid.New(),
		ContractID: env.ContractID,
		Kind:       string(env.Type),
		Payload:    datatypes.JSON(env.Payload),
		OccurredAt: env.OccurredAt,
		CreatedAt:  s.now().UTC(),
	}
	_, err = s.repo.Create(dbctx.Context{Ctx: ctx}, []*records.ContractEvent{row})
	return err
}
