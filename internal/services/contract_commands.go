package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/domain/contracts/validation"
	"github.com/yungbote/workstation-backend/internal/observability"
	"github.com/yungbote/workstation-backend/internal/platform/ctxutil"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

// ContractCommandService runs every contract command as
// validate, load or construct, mutate, commit, publish.
// Events are published only after a successful commit.
type ContractCommandService interface {
	CreateContract(ctx context.Context, cmd contracts.CreateContractCommand) (contracts.Snapshot, error)
	AddClause(ctx context.Context, cmd contracts.AddClauseCommand) (contracts.Clause, error)
	AddCompensation(ctx context.Context, cmd contracts.AddCompensationCommand) (contracts.Compensation, error)
	ActivateContract(ctx context.Context, cmd contracts.ActivateContractCommand) (contracts.Snapshot, error)
	SignContract(ctx context.Context, cmd contracts.SignContractCommand) (contracts.Signature, error)
	UpdateReceipt(ctx context.Context, cmd contracts.UpdateReceiptCommand) (contracts.PaymentReceipt, error)
	FinishContract(ctx context.Context, cmd contracts.FinishContractCommand) (contracts.Snapshot, error)
	CancelContract(ctx context.Context, cmd contracts.CancelContractCommand) (contracts.Snapshot, error)
	ResolveCompensation(ctx context.Context, cmd contracts.ResolveCompensationCommand) (contracts.Compensation, error)
	IssueReceipt(ctx context.Context, cmd contracts.IssueReceiptCommand) (contracts.PaymentReceipt, error)
}

type ContractCommandDeps struct {
	Store     contracts.Store
	Publisher contracts.Publisher
	// Roles is optional; without it counterparty roles are not checked.
	Roles   contracts.RoleDirectory
	Metrics *observability.Metrics
	Clock   func() time.Time
}

type contractCommandService struct {
	log       *logger.Logger
	store     contracts.Store
	publisher contracts.Publisher
	validator *validation.Validator
	metrics   *observability.Metrics
	clock     func() time.Time
	tracer    trace.Tracer
}

func NewContractCommandService(log *logger.Logger, deps ContractCommandDeps) ContractCommandService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &contractCommandService{
		log:       log.With("service", "ContractCommandService"),
		store:     deps.Store,
		publisher: publisher,
		validator: validation.New(deps.Store, deps.Roles, clock),
		metrics:   deps.Metrics,
		clock:     func() time.Time { return clock().UTC() },
		tracer:    otel.Tracer("github.com/yungbote/workstation-backend/internal/services"),
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, contracts.Event) {}

// run wraps one command. fn returns the event to publish, or nil.
func (s *contractCommandService) run(ctx context.Context, command string, contractID uuid.UUID, fn func(ctx context.Context) (contracts.Event, error)) error {
	ctx, span := s.tracer.Start(ctx, "ContractCommand."+command,
		trace.WithAttributes(attribute.String("contract.id", contractID.String())))
	defer span.End()

	event, err := fn(ctx)
	if err != nil {
		code := string(aggregates.CodeOf(err))
		if code == "" {
			code = string(aggregates.CodeInternal)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, code)
		s.metrics.ObserveCommand(command, code)
		s.log.Warn("contract command rejected", append([]any{
			"command", command,
			"contract_id", contractID.String(),
			"code", code,
			"error", err,
		}, ctxutil.LogFields(ctx)...)...)
		return err
	}
	s.metrics.ObserveCommand(command, "success")
	if event != nil {
		span.SetAttributes(attribute.String("contract.event", string(event.Kind())))
		s.publisher.Publish(ctx, event)
	}
	s.log.Info("contract command committed", append([]any{
		"command", command, "contract_id", contractID.String(),
	}, ctxutil.LogFields(ctx)...)...)
	return nil
}

// mutate loads id in a fresh unit of work, applies fn and commits.
// Nothing is written when fn fails.
func (s *contractCommandService) mutate(ctx context.Context, id uuid.UUID, fn func(c *contracts.Contract) error) (*contracts.Contract, error) {
	uow, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	c, err := uow.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contractCommandService) CreateContract(ctx context.Context, cmd contracts.CreateContractCommand) (contracts.Snapshot, error) {
	var out contracts.Snapshot
	var created *contracts.Contract
	err := s.run(ctx, "CreateContract", uuid.Nil, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.CreateContract(ctx, cmd); err != nil {
			return nil, err
		}
		c, err := contracts.New(cmd.Terms(), s.clock())
		if err != nil {
			return nil, err
		}
		uow, err := s.store.Begin(ctx)
		if err != nil {
			return nil, err
		}
		if err := uow.Insert(ctx, c); err != nil {
			return nil, err
		}
		if err := uow.Commit(ctx); err != nil {
			return nil, err
		}
		created = c
		return contracts.ContractCreated{
			ContractID: c.ID(),
			OfficeID:   c.OfficeID(),
			OwnerID:    c.OwnerID(),
			RenterID:   c.RenterID(),
			StartDate:  c.StartDate(),
			EndDate:    c.EndDate(),
			BaseAmount: c.BaseAmount(),
			OccurredAt: c.CreatedAt(),
		}, nil
	})
	if err != nil {
		return out, err
	}
	return created.Snapshot(), nil
}

func (s *contractCommandService) AddClause(ctx context.Context, cmd contracts.AddClauseCommand) (contracts.Clause, error) {
	var clause contracts.Clause
	err := s.run(ctx, "AddClause", cmd.ContractID, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.AddClause(ctx, cmd); err != nil {
			return nil, err
		}
		built := contracts.NewClause(cmd.ContractID, cmd.Name, cmd.Content, cmd.Order, cmd.Mandatory)
		if _, err := s.mutate(ctx, cmd.ContractID, func(c *contracts.Contract) error {
			return c.AddClause(built)
		}); err != nil {
			return nil, err
		}
		clause = built
		return contracts.ClauseAdded{
			ContractID: cmd.ContractID,
			ClauseID:   clause.ID,
			Name:       clause.Name,
			Mandatory:  clause.Mandatory,
			OccurredAt: s.clock(),
		}, nil
	})
	return clause, err
}

func (s *contractCommandService) AddCompensation(ctx context.Context, cmd contracts.AddCompensationCommand) (contracts.Compensation, error) {
	var comp contracts.Compensation
	err := s.run(ctx, "AddCompensation", cmd.ContractID, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.AddCompensation(ctx, cmd); err != nil {
			return nil, err
		}
		built := contracts.NewCompensation(cmd.ContractID, cmd.IssuerID, cmd.ReceiverID, cmd.Amount, cmd.Reason, s.clock())
		if _, err := s.mutate(ctx, cmd.ContractID, func(c *contracts.Contract) error {
			return c.AddCompensation(built)
		}); err != nil {
			return nil, err
		}
		comp = built
		return nil, nil
	})
	return comp, err
}

func (s *contractCommandService) ActivateContract(ctx context.Context, cmd contracts.ActivateContractCommand) (contracts.Snapshot, error) {
	var out contracts.Snapshot
	err := s.run(ctx, "ActivateContract", cmd.ContractID, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.ActivateContract(ctx, cmd); err != nil {
			return nil, err
		}
		now := s.clock()
		c, err := s.mutate(ctx, cmd.ContractID, func(c *contracts.Contract) error {
			return c.Activate(now)
		})
		if err != nil {
			return nil, err
		}
		out = c.Snapshot()
		return contracts.ContractActivated{ContractID: c.ID(), OfficeID: c.OfficeID(), OccurredAt: now}, nil
	})
	return out, err
}

func (s *contractCommandService) SignContract(ctx context.Context, cmd contracts.SignContractCommand) (contracts.Signature, error) {
	var sig contracts.Signature
	err := s.run(ctx, "SignContract", cmd.ContractID, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.SignContract(ctx, cmd); err != nil {
			return nil, err
		}
		built := contracts.NewSignature(cmd.ContractID, cmd.SignerID, cmd.SignatureHash, s.clock())
		c, err := s.mutate(ctx, cmd.ContractID, func(c *contracts.Contract) error {
			return c.AddSignature(built)
		})
		if err != nil {
			return nil, err
		}
		sig = built
		return contracts.ContractSigned{
			ContractID:       c.ID(),
			SignerID:         sig.SignerID,
			SignatureHash:    sig.SignatureHash,
			SignedAt:         sig.SignedAt,
			AllPartiesSigned: c.HasQuorum(),
		}, nil
	})
	return sig, err
}

func (s *contractCommandService) UpdateReceipt(ctx context.Context, cmd contracts.UpdateReceiptCommand) (contracts.PaymentReceipt, error) {
	var out contracts.PaymentReceipt
	err := s.run(ctx, "UpdateReceipt", cmd.ContractID, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.UpdateReceipt(ctx, cmd); err != nil {
			return nil, err
		}
		now := s.clock()
		c, err := s.mutate(ctx, cmd.ContractID, func(c *contracts.Contract) error {
			return c.UpdateReceipt(cmd.CompensationAdjustments, cmd.Notes, now)
		})
		if err != nil {
			return nil, err
		}
		out, _ = c.Receipt()
		return contracts.ReceiptUpdated{
			ReceiptID:               out.ID,
			ContractID:              c.ID(),
			CompensationAdjustments: out.CompensationAdjustments,
			FinalAmount:             out.FinalAmount(),
			Notes:                   out.Notes,
			UpdatedAt:               now,
		}, nil
	})
	return out, err
}

func (s *contractCommandService) FinishContract(ctx context.Context, cmd contracts.FinishContractCommand) (contracts.Snapshot, error) {
	var out contracts.Snapshot
	err := s.run(ctx, "FinishContract", cmd.ContractID, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.FinishContract(ctx, cmd); err != nil {
			return nil, err
		}
		now := s.clock()
		c, err := s.mutate(ctx, cmd.ContractID, func(c *contracts.Contract) error {
			return c.Terminate(now)
		})
		if err != nil {
			return nil, err
		}
		out = c.Snapshot()
		return contracts.ContractFinished{
			ContractID: c.ID(),
			OfficeID:   c.OfficeID(),
			Reason:     strings.TrimSpace(cmd.Reason),
			OccurredAt: now,
		}, nil
	})
	return out, err
}

func (s *contractCommandService) CancelContract(ctx context.Context, cmd contracts.CancelContractCommand) (contracts.Snapshot, error) {
	var out contracts.Snapshot
	err := s.run(ctx, "CancelContract", cmd.ContractID, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.CancelContract(ctx, cmd); err != nil {
			return nil, err
		}
		c, err := s.mutate(ctx, cmd.ContractID, func(c *contracts.Contract) error {
			return c.Cancel(s.clock())
		})
		if err != nil {
			return nil, err
		}
		out = c.Snapshot()
		return nil, nil
	})
	return out, err
}

func (s *contractCommandService) ResolveCompensation(ctx context.Context, cmd contracts.ResolveCompensationCommand) (contracts.Compensation, error) {
	var out contracts.Compensation
	cmd.Decision = contracts.Decision(strings.ToLower(strings.TrimSpace(string(cmd.Decision))))
	err := s.run(ctx, "ResolveCompensation", cmd.ContractID, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.ResolveCompensation(ctx, cmd); err != nil {
			return nil, err
		}
		c, err := s.mutate(ctx, cmd.ContractID, func(c *contracts.Contract) error {
			if cmd.Decision == contracts.DecisionApprove {
				return c.ApproveCompensation(cmd.CompensationID)
			}
			return c.RejectCompensation(cmd.CompensationID)
		})
		if err != nil {
			return nil, err
		}
		for _, comp := range c.Compensations() {
			if comp.ID == cmd.CompensationID {
				out = comp
			}
		}
		return nil, nil
	})
	return out, err
}

func (s *contractCommandService) IssueReceipt(ctx context.Context, cmd contracts.IssueReceiptCommand) (contracts.PaymentReceipt, error) {
	var out contracts.PaymentReceipt
	err := s.run(ctx, "IssueReceipt", cmd.ContractID, func(ctx context.Context) (contracts.Event, error) {
		if err := s.validator.IssueReceipt(ctx, cmd); err != nil {
			return nil, err
		}
		built := contracts.NewPaymentReceipt(cmd.ContractID, cmd.ReceiptNumber, cmd.BaseAmount, s.clock())
		if _, err := s.mutate(ctx, cmd.ContractID, func(c *contracts.Contract) error {
			return c.SetReceipt(built)
		}); err != nil {
			return nil, err
		}
		out = built
		return nil, nil
	})
	return out, err
}
