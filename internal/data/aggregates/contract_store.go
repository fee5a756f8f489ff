package aggregates

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/workstation-backend/internal/data/repos"
	domainagg "github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/domain/records"
	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

const contractTable = "contract"

type ContractStoreDeps struct {
	Base BaseDeps

	Contracts repos.ContractRepo
}

// ContractStore is the SQL-backed contracts.Store.
type ContractStore interface {
	domainagg.Aggregate
	contracts.Store
}

type contractStore struct {
	deps ContractStoreDeps
	log  *logger.Logger
}

func NewContractStore(deps ContractStoreDeps) ContractStore {
	deps.Base = deps.Base.withDefaults()
	s := &contractStore{deps: deps}
	if deps.Base.Log != nil {
		s.log = deps.Base.Log.With("aggregate", "ContractStore")
	}
	return s
}

func (s *contractStore) Policy() domainagg.Policy {
	return domainagg.ContractStorePolicy
}

func (s *contractStore) GetByID(ctx context.Context, id uuid.UUID) (*contracts.Contract, error) {
	c, _, err := s.load(dbctx.Context{Ctx: ctx}, id)
	return c, err
}

func (s *contractStore) load(dbc dbctx.Context, id uuid.UUID) (*contracts.Contract, int, error) {
	const op = "Leasing.ContractStore.GetByID"
	row, err := s.deps.Contracts.GetByID(dbc, id)
	if err != nil {
		return nil, 0, MapError(op, err)
	}
	if row == nil {
		return nil, 0, domainagg.NewError(domainagg.CodeNotFound, op, "contract not found: "+id.String(), nil)
	}
	return contracts.Rehydrate(contractSnapshot(row)), row.Version, nil
}

func (s *contractStore) GetActiveByOffice(ctx context.Context, officeID uuid.UUID) (*contracts.Contract, error) {
	row, err := s.deps.Contracts.GetActiveByOfficeID(dbctx.Context{Ctx: ctx}, officeID)
	if err != nil {
		return nil, MapError("Leasing.ContractStore.GetActiveByOffice", err)
	}
	if row == nil {
		return nil, nil
	}
	return contracts.Rehydrate(contractSnapshot(row)), nil
}

func (s *contractStore) GetByParticipant(ctx context.Context, userID uuid.UUID) ([]*contracts.Contract, error) {
	rows, err := s.deps.Contracts.GetByParticipantID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, MapError("Leasing.ContractStore.GetByParticipant", err)
	}
	return rehydrateAll(rows), nil
}

func (s *contractStore) ListActive(ctx context.Context) ([]*contracts.Contract, error) {
	rows, err := s.deps.Contracts.ListActive(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, MapError("Leasing.ContractStore.ListActive", err)
	}
	return rehydrateAll(rows), nil
}

func (s *contractStore) Begin(_ context.Context) (contracts.Repository, error) {
	return &contractSession{store: s, tracked: map[uuid.UUID]*trackedContract{}}, nil
}

// trackedContract remembers what was loaded so Commit can write only the delta.
type trackedContract struct {
	contract *contracts.Contract
	version  int
	loaded   contracts.Snapshot
}

type contractSession struct {
	store    *contractStore
	inserted []*contracts.Contract
	tracked  map[uuid.UUID]*trackedContract
	done     bool
}

func (u *contractSession) GetByID(ctx context.Context, id uuid.UUID) (*contracts.Contract, error) {
	if t, ok := u.tracked[id]; ok {
		return t.contract, nil
	}
	c, version, err := u.store.load(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	u.tracked[id] = &trackedContract{contract: c, version: version, loaded: c.Snapshot()}
	return c, nil
}

func (u *contractSession) GetActiveByOffice(ctx context.Context, officeID uuid.UUID) (*contracts.Contract, error) {
	return u.store.GetActiveByOffice(ctx, officeID)
}

func (u *contractSession) GetByParticipant(ctx context.Context, userID uuid.UUID) ([]*contracts.Contract, error) {
	return u.store.GetByParticipant(ctx, userID)
}

func (u *contractSession) ListActive(ctx context.Context) ([]*contracts.Contract, error) {
	return u.store.ListActive(ctx)
}

func (u *contractSession) Insert(_ context.Context, c *contracts.Contract) error {
	const op = "Leasing.ContractStore.Insert"
	if c == nil || c.ID() == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "contract is required", nil)
	}
	for _, existing := range u.inserted {
		if existing.ID() == c.ID() {
			return domainagg.NewError(domainagg.CodeConflict, op, "contract already queued: "+c.ID().String(), nil)
		}
	}
	u.inserted = append(u.inserted, c)
	return nil
}

// Commit writes every queued insert and every change to a tracked contract in
// one transaction. A tracked contract whose row version moved since it was
// loaded fails the whole commit with CodeConflict.
func (u *contractSession) Commit(ctx context.Context) error {
	const op = "Leasing.ContractStore.Commit"
	if u.done {
		return domainagg.NewError(domainagg.CodeInternal, op, "session already committed", nil)
	}
	s := u.store
	ids := make([]uuid.UUID, 0, len(u.tracked))
	for id := range u.tracked {
		ids = append(ids, id)
	}
	// Fixed lock order across sessions.
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	err := executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		now := time.Now().UTC()
		for _, c := range u.inserted {
			if err := s.deps.Contracts.Create(dbc, contractRecord(c.Snapshot(), 1, now)); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if err := s.writeDelta(dbc, u.tracked[id], now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if s.log != nil {
			s.log.Warn("contract commit failed", "code", string(domainagg.CodeOf(err)), "error", err)
		}
		return err
	}
	u.done = true
	if s.log != nil {
		s.log.Debug("contract commit", "inserted", len(u.inserted), "updated", len(ids))
	}
	return nil
}

func (s *contractStore) writeDelta(dbc dbctx.Context, t *trackedContract, now time.Time) error {
	cur := t.contract.Snapshot()
	if err := s.deps.Base.CASGuard.BumpVersion(dbc, contractTable, cur.ID, t.version, map[string]any{
		"status":        string(cur.Status),
		"activated_at":  cur.ActivatedAt,
		"terminated_at": cur.TerminatedAt,
		"updated_at":    now,
	}); err != nil {
		return err
	}

	// Clauses, signatures and compensations are append-only.
	var clauses []*records.ContractClause
	for i := len(t.loaded.Clauses); i < len(cur.Clauses); i++ {
		clauses = append(clauses, clauseRecord(cur.Clauses[i], i))
	}
	if err := s.deps.Contracts.CreateClauses(dbc, clauses); err != nil {
		return err
	}
	var sigs []*records.ContractSignature
	for i := len(t.loaded.Signatures); i < len(cur.Signatures); i++ {
		sigs = append(sigs, signatureRecord(cur.Signatures[i]))
	}
	if err := s.deps.Contracts.CreateSignatures(dbc, sigs); err != nil {
		return err
	}
	var comps []*records.ContractCompensation
	for i, comp := range cur.Compensations {
		if i >= len(t.loaded.Compensations) {
			comps = append(comps, compensationRecord(comp, i))
			continue
		}
		before := t.loaded.Compensations[i]
		if before.Status == comp.Status {
			continue
		}
		if err := s.deps.Base.CASGuard.TransitionStatus(dbc, "contract_compensation", comp.ID,
			[]string{string(before.Status)}, string(comp.Status)); err != nil {
			return err
		}
	}
	if err := s.deps.Contracts.CreateCompensations(dbc, comps); err != nil {
		return err
	}

	return s.writeReceipt(dbc, t.loaded.Receipt, cur.Receipt)
}

func (s *contractStore) writeReceipt(dbc dbctx.Context, before, after *contracts.PaymentReceipt) error {
	switch {
	case after == nil && before == nil:
		return nil
	case after == nil:
		return s.deps.Contracts.DeleteReceiptsByContractID(dbc, before.ContractID)
	case before == nil:
		return s.deps.Contracts.CreateReceipt(dbc, receiptRecord(*after))
	case before.ID != after.ID:
		if err := s.deps.Contracts.DeleteReceiptsByContractID(dbc, before.ContractID); err != nil {
			return err
		}
		return s.deps.Contracts.CreateReceipt(dbc, receiptRecord(*after))
	case receiptChanged(*before, *after):
		return s.deps.Contracts.UpdateReceipt(dbc, receiptRecord(*after))
	default:
		return nil
	}
}

func rehydrateAll(rows []*records.Contract) []*contracts.Contract {
	out := make([]*contracts.Contract, 0, len(rows))
	for _, row := range rows {
		out = append(out, contracts.Rehydrate(contractSnapshot(row)))
	}
	return out
}
