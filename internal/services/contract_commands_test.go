package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	ctest "github.com/yungbote/workstation-backend/internal/domain/contracts/testutil"
	"github.com/yungbote/workstation-backend/internal/observability"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type harness struct {
	store     *ctest.MemoryStore
	publisher *ctest.RecordingPublisher
	metrics   *observability.Metrics
	svc       ContractCommandService
	owner     uuid.UUID
	renter    uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	h := &harness{
		store:     ctest.NewMemoryStore(),
		publisher: &ctest.RecordingPublisher{},
		metrics:   observability.NewMetrics(),
		owner:     uuid.New(),
		renter:    uuid.New(),
	}
	roles := ctest.StaticRoles{h.owner: contracts.RoleLessor, h.renter: contracts.RoleSeeker}
	h.svc = NewContractCommandService(log, ContractCommandDeps{
		Store:     h.store,
		Publisher: h.publisher,
		Roles:     roles,
		Metrics:   h.metrics,
		Clock:     func() time.Time { return fixedNow },
	})
	return h
}

func (h *harness) createCmd(officeID uuid.UUID) contracts.CreateContractCommand {
	return contracts.CreateContractCommand{
		OfficeID:     officeID,
		OwnerID:      h.owner,
		RenterID:     h.renter,
		Description:  "Corner office, 12 months",
		StartDate:    fixedNow.AddDate(0, 0, 1),
		EndDate:      fixedNow.AddDate(1, 0, 1),
		BaseAmount:   decimal.NewFromInt(1200),
		LateFee:      decimal.NewFromInt(50),
		InterestRate: decimal.NewFromInt(2),
	}
}

func (h *harness) create(t *testing.T) contracts.Snapshot {
	t.Helper()
	snap, err := h.svc.CreateContract(context.Background(), h.createCmd(uuid.New()))
	if err != nil {
		t.Fatalf("CreateContract: %v", err)
	}
	return snap
}

func (h *harness) sign(t *testing.T, contractID, signer uuid.UUID) contracts.Signature {
	t.Helper()
	sig, err := h.svc.SignContract(context.Background(), contracts.SignContractCommand{
		ContractID:    contractID,
		SignerID:      signer,
		SignatureHash: strings.Repeat("f", 64),
	})
	if err != nil {
		t.Fatalf("SignContract: %v", err)
	}
	return sig
}

func (h *harness) activate(t *testing.T) contracts.Snapshot {
	t.Helper()
	snap := h.create(t)
	h.sign(t, snap.ID, h.owner)
	h.sign(t, snap.ID, h.renter)
	out, err := h.svc.ActivateContract(context.Background(), contracts.ActivateContractCommand{ContractID: snap.ID})
	if err != nil {
		t.Fatalf("ActivateContract: %v", err)
	}
	return out
}

func (h *harness) stored(t *testing.T, id uuid.UUID) *contracts.Contract {
	t.Helper()
	c, err := h.store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return c
}

func commandCount(t *testing.T, m *observability.Metrics, command, outcome string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "workstation_contract_commands_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["command"] == command && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func sameKinds(got []contracts.EventKind, want ...contracts.EventKind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestCreateContractPublishesCreated(t *testing.T) {
	h := newHarness(t)
	snap := h.create(t)

	if snap.Status != contracts.StatusDraft {
		t.Fatalf("status: want=%s got=%s", contracts.StatusDraft, snap.Status)
	}
	if h.store.Commits != 1 {
		t.Fatalf("commits: want=1 got=%d", h.store.Commits)
	}
	if !sameKinds(h.publisher.Kinds(), contracts.KindContractCreated) {
		t.Fatalf("events: got=%v", h.publisher.Kinds())
	}
	ev := h.publisher.Events[0].(contracts.ContractCreated)
	if ev.ContractID != snap.ID || ev.OwnerID != h.owner || !ev.BaseAmount.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !ev.OccurredAt.Equal(fixedNow) {
		t.Fatalf("occurred_at: want=%v got=%v", fixedNow, ev.OccurredAt)
	}
	if got := commandCount(t, h.metrics, "CreateContract", "success"); got != 1 {
		t.Fatalf("success counter: want=1 got=%v", got)
	}
}

func TestCreateContractReportsEveryInvalidField(t *testing.T) {
	h := newHarness(t)
	cmd := h.createCmd(uuid.New())
	cmd.Description = "   "
	cmd.EndDate = cmd.StartDate
	cmd.BaseAmount = decimal.Zero

	_, err := h.svc.CreateContract(context.Background(), cmd)
	if !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("want validation got=%v", err)
	}
	if n := len(aggregates.FieldErrors(err)); n < 3 {
		t.Fatalf("field errors: want>=3 got=%d (%v)", n, err)
	}
	if h.store.Commits != 0 || len(h.publisher.Events) != 0 {
		t.Fatalf("rejected command must not write or publish")
	}
	if got := commandCount(t, h.metrics, "CreateContract", string(aggregates.CodeValidation)); got != 1 {
		t.Fatalf("validation counter: want=1 got=%v", got)
	}
}

func TestCreateContractChecksCounterpartyRoles(t *testing.T) {
	h := newHarness(t)
	cmd := h.createCmd(uuid.New())
	cmd.OwnerID, cmd.RenterID = h.renter, h.owner

	_, err := h.svc.CreateContract(context.Background(), cmd)
	if !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("want validation got=%v", err)
	}
	fields := map[string]bool{}
	for _, f := range aggregates.FieldErrors(err) {
		fields[f.Field] = true
	}
	if !fields["owner_id"] || !fields["renter_id"] {
		t.Fatalf("want owner_id and renter_id field errors, got=%v", aggregates.FieldErrors(err))
	}
}

func TestCreateContractRejectsSecondActiveForOffice(t *testing.T) {
	h := newHarness(t)
	active := h.activate(t)
	before := len(h.publisher.Events)

	_, err := h.svc.CreateContract(context.Background(), h.createCmd(active.OfficeID))
	if !aggregates.IsCode(err, aggregates.CodeConflict) {
		t.Fatalf("want conflict got=%v", err)
	}
	if len(h.publisher.Events) != before {
		t.Fatalf("conflict must not publish")
	}
}

func TestSigningFlowReachesActive(t *testing.T) {
	h := newHarness(t)
	snap := h.create(t)

	h.sign(t, snap.ID, h.owner)
	if got := h.stored(t, snap.ID).Status(); got != contracts.StatusDraft {
		t.Fatalf("after first signature: want=draft got=%s", got)
	}
	h.sign(t, snap.ID, h.renter)
	if got := h.stored(t, snap.ID).Status(); got != contracts.StatusPendingSignatures {
		t.Fatalf("after second signature: want=pending_signatures got=%s", got)
	}

	out, err := h.svc.ActivateContract(context.Background(), contracts.ActivateContractCommand{ContractID: snap.ID})
	if err != nil {
		t.Fatalf("ActivateContract: %v", err)
	}
	if out.Status != contracts.StatusActive || out.ActivatedAt == nil || !out.ActivatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected activated snapshot: %+v", out)
	}

	kinds := h.publisher.Kinds()
	if !sameKinds(kinds,
		contracts.KindContractCreated,
		contracts.KindContractSigned,
		contracts.KindContractSigned,
		contracts.KindContractActivated,
	) {
		t.Fatalf("events: got=%v", kinds)
	}
	first := h.publisher.Events[1].(contracts.ContractSigned)
	second := h.publisher.Events[2].(contracts.ContractSigned)
	if first.AllPartiesSigned || !second.AllPartiesSigned {
		t.Fatalf("all_parties_signed: first=%v second=%v", first.AllPartiesSigned, second.AllPartiesSigned)
	}
}

func TestSignContractRejectsStrangerAndRepeat(t *testing.T) {
	h := newHarness(t)
	snap := h.create(t)
	h.sign(t, snap.ID, h.owner)

	for name, signer := range map[string]uuid.UUID{"stranger": uuid.New(), "repeat": h.owner} {
		_, err := h.svc.SignContract(context.Background(), contracts.SignContractCommand{
			ContractID:    snap.ID,
			SignerID:      signer,
			SignatureHash: strings.Repeat("e", 64),
		})
		if !aggregates.IsCode(err, aggregates.CodeValidation) {
			t.Fatalf("%s: want validation got=%v", name, err)
		}
	}
	if n := len(h.stored(t, snap.ID).Signatures()); n != 1 {
		t.Fatalf("signatures: want=1 got=%d", n)
	}
}

func TestActivateWithoutSignaturesIsInvalidState(t *testing.T) {
	h := newHarness(t)
	snap := h.create(t)
	commits := h.store.Commits

	_, err := h.svc.ActivateContract(context.Background(), contracts.ActivateContractCommand{ContractID: snap.ID})
	if !aggregates.IsCode(err, aggregates.CodeInvalidState) {
		t.Fatalf("want invalid_state got=%v", err)
	}
	if h.store.Commits != commits {
		t.Fatalf("failed mutation must not commit")
	}
	if !sameKinds(h.publisher.Kinds(), contracts.KindContractCreated) {
		t.Fatalf("events: got=%v", h.publisher.Kinds())
	}
}

func TestClausesOnlyBeforeActivation(t *testing.T) {
	h := newHarness(t)
	snap := h.create(t)

	clause, err := h.svc.AddClause(context.Background(), contracts.AddClauseCommand{
		ContractID: snap.ID,
		Name:       " Quiet hours ",
		Content:    "No calls after 8pm.",
		Order:      1,
		Mandatory:  true,
	})
	if err != nil {
		t.Fatalf("AddClause: %v", err)
	}
	if clause.Name != "Quiet hours" {
		t.Fatalf("name: want trimmed got=%q", clause.Name)
	}
	last := h.publisher.Events[len(h.publisher.Events)-1]
	added, ok := last.(contracts.ClauseAdded)
	if !ok || added.ClauseID != clause.ID || !added.Mandatory {
		t.Fatalf("unexpected event: %#v", last)
	}

	active := h.activate(t)
	_, err = h.svc.AddClause(context.Background(), contracts.AddClauseCommand{
		ContractID: active.ID,
		Name:       "Late",
		Content:    "Too late.",
		Order:      1,
	})
	if !aggregates.IsCode(err, aggregates.CodeInvalidState) {
		t.Fatalf("want invalid_state got=%v", err)
	}
}

func TestUnknownContractIsNotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.AddClause(context.Background(), contracts.AddClauseCommand{
		ContractID: uuid.New(),
		Name:       "Parking",
		Content:    "One spot.",
		Order:      1,
	})
	if !aggregates.IsCode(err, aggregates.CodeNotFound) {
		t.Fatalf("want not_found got=%v", err)
	}
}

func TestCompensationReceiptAndFinish(t *testing.T) {
	h := newHarness(t)
	snap := h.activate(t)
	ctx := context.Background()

	comp, err := h.svc.AddCompensation(ctx, contracts.AddCompensationCommand{
		ContractID: snap.ID,
		IssuerID:   h.renter,
		ReceiverID: h.owner,
		Amount:     decimal.NewFromInt(80),
		Reason:     "Broken chair",
	})
	if err != nil {
		t.Fatalf("AddCompensation: %v", err)
	}
	eventsAfterComp := len(h.publisher.Events)

	_, err = h.svc.FinishContract(ctx, contracts.FinishContractCommand{ContractID: snap.ID, Reason: "done"})
	if !aggregates.IsCode(err, aggregates.CodeInvalidState) {
		t.Fatalf("finish with pending compensation: want invalid_state got=%v", err)
	}

	resolved, err := h.svc.ResolveCompensation(ctx, contracts.ResolveCompensationCommand{
		ContractID:     snap.ID,
		CompensationID: comp.ID,
		Decision:       " Approve ",
	})
	if err != nil {
		t.Fatalf("ResolveCompensation: %v", err)
	}
	if resolved.Status != contracts.CompensationApproved {
		t.Fatalf("compensation status: want=approved got=%s", resolved.Status)
	}

	if _, err := h.svc.UpdateReceipt(ctx, contracts.UpdateReceiptCommand{
		ContractID: snap.ID,
		Notes:      "chair",
	}); !aggregates.IsCode(err, aggregates.CodeNotFound) {
		t.Fatalf("update without receipt: want not_found got=%v", err)
	}

	if _, err := h.svc.IssueReceipt(ctx, contracts.IssueReceiptCommand{
		ContractID:    snap.ID,
		ReceiptNumber: "R-100",
		BaseAmount:    decimal.NewFromInt(1200),
	}); err != nil {
		t.Fatalf("IssueReceipt: %v", err)
	}
	if _, err := h.svc.IssueReceipt(ctx, contracts.IssueReceiptCommand{
		ContractID:    snap.ID,
		ReceiptNumber: "R-101",
		BaseAmount:    decimal.NewFromInt(1200),
	}); !aggregates.IsCode(err, aggregates.CodeConflict) {
		t.Fatalf("second receipt: want conflict got=%v", err)
	}
	if len(h.publisher.Events) != eventsAfterComp {
		t.Fatalf("compensation, resolve and issue must not publish, got=%v", h.publisher.Kinds())
	}

	receipt, err := h.svc.UpdateReceipt(ctx, contracts.UpdateReceiptCommand{
		ContractID:              snap.ID,
		CompensationAdjustments: decimal.NewFromInt(80),
		Notes:                   "chair",
	})
	if err != nil {
		t.Fatalf("UpdateReceipt: %v", err)
	}
	if !receipt.FinalAmount().Equal(decimal.NewFromInt(1280)) {
		t.Fatalf("final amount: want=1280 got=%s", receipt.FinalAmount())
	}
	updated := h.publisher.Events[len(h.publisher.Events)-1].(contracts.ReceiptUpdated)
	if !updated.FinalAmount.Equal(decimal.NewFromInt(1280)) || updated.ReceiptID != receipt.ID {
		t.Fatalf("unexpected receipt event: %+v", updated)
	}

	done, err := h.svc.FinishContract(ctx, contracts.FinishContractCommand{ContractID: snap.ID, Reason: " lease ended "})
	if err != nil {
		t.Fatalf("FinishContract: %v", err)
	}
	if done.Status != contracts.StatusCompleted || done.Receipt == nil || done.Receipt.Status != contracts.ReceiptStatusUpdated {
		t.Fatalf("unexpected finished snapshot: %+v", done)
	}
	finished := h.publisher.Events[len(h.publisher.Events)-1].(contracts.ContractFinished)
	if finished.Reason != "lease ended" || finished.OfficeID != snap.OfficeID {
		t.Fatalf("unexpected finished event: %+v", finished)
	}

	// Finishing the lease leaves the receipt open for a closing adjustment.
	closing, err := h.svc.UpdateReceipt(ctx, contracts.UpdateReceiptCommand{
		ContractID:              snap.ID,
		CompensationAdjustments: decimal.NewFromInt(-40),
		Notes:                   "deposit returned",
	})
	if err != nil {
		t.Fatalf("UpdateReceipt after finish: %v", err)
	}
	if !closing.FinalAmount().Equal(decimal.NewFromInt(1160)) {
		t.Fatalf("closing amount: want=1160 got=%s", closing.FinalAmount())
	}
}

func TestCancelContract(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	draft := h.create(t)
	before := len(h.publisher.Events)

	out, err := h.svc.CancelContract(ctx, contracts.CancelContractCommand{ContractID: draft.ID, Reason: "changed plans"})
	if err != nil {
		t.Fatalf("CancelContract: %v", err)
	}
	if out.Status != contracts.StatusCancelled || out.TerminatedAt == nil {
		t.Fatalf("unexpected cancelled snapshot: %+v", out)
	}
	if len(h.publisher.Events) != before {
		t.Fatalf("cancel must not publish")
	}

	active := h.activate(t)
	_, err = h.svc.CancelContract(ctx, contracts.CancelContractCommand{ContractID: active.ID, Reason: "too late"})
	if !aggregates.IsCode(err, aggregates.CodeInvalidState) {
		t.Fatalf("cancel active: want invalid_state got=%v", err)
	}
}

func TestCommitFailureSuppressesEvent(t *testing.T) {
	h := newHarness(t)
	snap := h.create(t)
	h.store.FailCommit = aggregates.NewError(aggregates.CodeRetryable, "test", "database is locked", nil)
	before := len(h.publisher.Events)

	_, err := h.svc.SignContract(context.Background(), contracts.SignContractCommand{
		ContractID:    snap.ID,
		SignerID:      h.owner,
		SignatureHash: strings.Repeat("a", 64),
	})
	if !aggregates.IsCode(err, aggregates.CodeRetryable) {
		t.Fatalf("want retryable got=%v", err)
	}
	if len(h.publisher.Events) != before {
		t.Fatalf("failed commit must not publish")
	}
	h.store.FailCommit = nil
	if n := len(h.stored(t, snap.ID).Signatures()); n != 0 {
		t.Fatalf("signatures: want=0 got=%d", n)
	}
}

func TestFailedCommandsReturnZeroValues(t *testing.T) {
	h := newHarness(t)
	draft := h.create(t)
	active := h.activate(t)
	h.store.FailCommit = aggregates.NewError(aggregates.CodeRetryable, "test", "database is locked", nil)
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() (uuid.UUID, error)
	}{
		{"AddClause", func() (uuid.UUID, error) {
			c, err := h.svc.AddClause(ctx, contracts.AddClauseCommand{ContractID: draft.ID, Name: "Parking", Content: "One spot.", Order: 1})
			return c.ID, err
		}},
		{"SignContract", func() (uuid.UUID, error) {
			sig, err := h.svc.SignContract(ctx, contracts.SignContractCommand{ContractID: draft.ID, SignerID: h.owner, SignatureHash: strings.Repeat("b", 64)})
			return sig.ID, err
		}},
		{"AddCompensation", func() (uuid.UUID, error) {
			comp, err := h.svc.AddCompensation(ctx, contracts.AddCompensationCommand{
				ContractID: active.ID, IssuerID: h.owner, ReceiverID: h.renter, Amount: decimal.NewFromInt(20), Reason: "Lost key",
			})
			return comp.ID, err
		}},
		{"IssueReceipt", func() (uuid.UUID, error) {
			r, err := h.svc.IssueReceipt(ctx, contracts.IssueReceiptCommand{ContractID: active.ID, ReceiptNumber: "R-9", BaseAmount: decimal.NewFromInt(1200)})
			return r.ID, err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := tc.run()
			if !aggregates.IsCode(err, aggregates.CodeRetryable) {
				t.Fatalf("want retryable got=%v", err)
			}
			if id != uuid.Nil {
				t.Fatalf("id: want=%v got=%v", uuid.Nil, id)
			}
		})
	}

	h.store.FailCommit = nil
	clause, err := h.svc.AddClause(ctx, contracts.AddClauseCommand{ContractID: active.ID, Name: "Late", Content: "Too late.", Order: 1})
	if !aggregates.IsCode(err, aggregates.CodeInvalidState) || clause.ID != uuid.Nil || clause.Name != "" {
		t.Fatalf("rejected clause: want zero value got=%+v err=%v", clause, err)
	}
}

func TestUnclassifiedErrorsCountAsInternal(t *testing.T) {
	h := newHarness(t)
	snap := h.create(t)
	h.store.FailCommit = errors.New("disk on fire")

	_, err := h.svc.CancelContract(context.Background(), contracts.CancelContractCommand{ContractID: snap.ID, Reason: "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := commandCount(t, h.metrics, "CancelContract", string(aggregates.CodeInternal)); got != 1 {
		t.Fatalf("internal counter: want=1 got=%v", got)
	}
}

func TestNilPublisherAndRolesAreOptional(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	svc := NewContractCommandService(log, ContractCommandDeps{Store: ctest.NewMemoryStore()})
	_, err = svc.CreateContract(context.Background(), contracts.CreateContractCommand{
		OfficeID:    uuid.New(),
		OwnerID:     uuid.New(),
		RenterID:    uuid.New(),
		Description: "Shared desk",
		StartDate:   time.Now().Add(48 * time.Hour),
		EndDate:     time.Now().AddDate(0, 3, 0),
		BaseAmount:  decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("CreateContract: %v", err)
	}
}
