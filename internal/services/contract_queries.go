package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/platform/ctxutil"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

type ContractQueryService interface {
	GetContractByID(ctx context.Context, id uuid.UUID) (contracts.Snapshot, error)
	ListActiveContracts(ctx context.Context) ([]contracts.Snapshot, error)
	ListContractsByParticipant(ctx context.Context, userID uuid.UUID) ([]contracts.Snapshot, error)
	GetReceiptByContractID(ctx context.Context, contractID uuid.UUID) (contracts.PaymentReceipt, error)
	ListCompensationsByContractID(ctx context.Context, contractID uuid.UUID) ([]contracts.Compensation, error)
}

type contractQueryService struct {
	log    *logger.Logger
	reader contracts.Reader
}

func NewContractQueryService(log *logger.Logger, reader contracts.Reader) ContractQueryService {
	return &contractQueryService{
		log:    log.With("service", "ContractQueryService"),
		reader: reader,
	}
}

func (s *contractQueryService) GetContractByID(ctx context.Context, id uuid.UUID) (contracts.Snapshot, error) {
	const op = "Query.GetContractByID"
	c, err := s.load(ctx, op, id)
	if err != nil {
		return contracts.Snapshot{}, s.failed(ctx, op, err)
	}
	return c.Snapshot(), nil
}

func (s *contractQueryService) ListActiveContracts(ctx context.Context) ([]contracts.Snapshot, error) {
	list, err := s.reader.ListActive(ctx)
	if err != nil {
		return nil, s.failed(ctx, "Query.ListActiveContracts", err)
	}
	return snapshots(list), nil
}

func (s *contractQueryService) ListContractsByParticipant(ctx context.Context, userID uuid.UUID) ([]contracts.Snapshot, error) {
	const op = "Query.ListContractsByParticipant"
	if userID == uuid.Nil {
		return nil, s.failed(ctx, op, aggregates.ValidationFailed(op,
			[]aggregates.FieldError{{Field: "user_id", Message: "is required"}}))
	}
	list, err := s.reader.GetByParticipant(ctx, userID)
	if err != nil {
		return nil, s.failed(ctx, op, err)
	}
	return snapshots(list), nil
}

func (s *contractQueryService) GetReceiptByContractID(ctx context.Context, contractID uuid.UUID) (contracts.PaymentReceipt, error) {
	const op = "Query.GetReceiptByContractID"
	c, err := s.load(ctx, op, contractID)
	if err != nil {
		return contracts.PaymentReceipt{}, s.failed(ctx, op, err)
	}
	r, ok := c.Receipt()
	if !ok {
		return contracts.PaymentReceipt{}, s.failed(ctx, op, aggregates.NewError(aggregates.CodeNotFound, op,
			"contract has no receipt: "+contractID.String(), nil))
	}
	return r, nil
}

func (s *contractQueryService) ListCompensationsByContractID(ctx context.Context, contractID uuid.UUID) ([]contracts.Compensation, error) {
	const op = "Query.ListCompensationsByContractID"
	c, err := s.load(ctx, op, contractID)
	if err != nil {
		return nil, s.failed(ctx, op, err)
	}
	return c.Compensations(), nil
}

func (s *contractQueryService) load(ctx context.Context, op string, id uuid.UUID) (*contracts.Contract, error) {
	if id == uuid.Nil {
		return nil, aggregates.ValidationFailed(op, []aggregates.FieldError{{Field: "contract_id", Message: "is required"}})
	}
	c, err := s.reader.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, aggregates.NewError(aggregates.CodeNotFound, op, "contract not found: "+id.String(), nil)
	}
	return c, nil
}

// failed logs a query error and returns it unchanged. Missing contracts and
// malformed ids are routine and stay at Debug.
func (s *contractQueryService) failed(ctx context.Context, op string, err error) error {
	code := aggregates.CodeOf(err)
	if code == "" {
		code = aggregates.CodeInternal
	}
	kv := append([]any{"op", op, "code", string(code), "error", err}, ctxutil.LogFields(ctx)...)
	switch code {
	case aggregates.CodeNotFound, aggregates.CodeValidation:
		s.log.Debug("contract query failed", kv...)
	default:
		s.log.Warn("contract query failed", kv...)
	}
	return err
}

func snapshots(list []*contracts.Contract) []contracts.Snapshot {
	out := make([]contracts.Snapshot, 0, len(list))
	for _, c := range list {
		out = append(out, c.Snapshot())
	}
	return out
}
