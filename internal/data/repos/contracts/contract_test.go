package contracts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/workstation-backend/internal/data/repos/testutil"
	"github.com/yungbote/workstation-backend/internal/domain/records"
	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
)

func TestContractRepoCreateAndLoad(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContractRepo(db, testutil.Logger(t))

	now := time.Now().UTC().Truncate(time.Second)
	id := uuid.New()
	row := &records.Contract{
		ID:           id,
		OfficeID:     uuid.New(),
		OwnerID:      uuid.New(),
		RenterID:     uuid.New(),
		Description:  "corner office",
		StartDate:    now,
		EndDate:      now.AddDate(0, 3, 0),
		BaseAmount:   decimal.RequireFromString("1250.50"),
		LateFee:      decimal.Zero,
		InterestRate: decimal.NewFromInt(4),
		Status:       "draft",
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
		Clauses: []records.ContractClause{
			{ID: uuid.New(), ContractID: id, Seq: 1, Name: "second", Content: "b", Position: 2},
			{ID: uuid.New(), ContractID: id, Seq: 0, Name: "first", Content: "a", Position: 1, Mandatory: true},
		},
		Receipt: &records.PaymentReceipt{
			ID:                      uuid.New(),
			ContractID:              id,
			ReceiptNumber:           "R-" + id.String()[:8],
			BaseAmount:              decimal.NewFromInt(1250),
			CompensationAdjustments: decimal.Zero,
			IssuedAt:                now,
			Status:                  "issued",
		},
	}
	if err := repo.Create(dbc, row); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(dbc, id)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v row=%v", err, got)
	}
	if !got.BaseAmount.Equal(row.BaseAmount) {
		t.Fatalf("base amount: want=%s got=%s", row.BaseAmount, got.BaseAmount)
	}
	if len(got.Clauses) != 2 || got.Clauses[0].Name != "first" {
		t.Fatalf("clauses not ordered by seq: %+v", got.Clauses)
	}
	if got.Receipt == nil || got.Receipt.RevisedAt != nil {
		t.Fatalf("receipt: %+v", got.Receipt)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID missing: err=%v row=%v", err, missing)
	}
}

func TestContractRepoChildWrites(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContractRepo(db, testutil.Logger(t))

	c := testutil.SeedContract(t, ctx, tx, uuid.New(), "active")
	now := time.Now().UTC()
	comp := &records.ContractCompensation{
		ID: uuid.New(), ContractID: c.ID, IssuerID: c.OwnerID, ReceiverID: c.RenterID,
		Amount: decimal.NewFromInt(75), Reason: "broken chair", Status: "pending", CreatedAt: now,
	}
	if err := repo.CreateCompensations(dbc, []*records.ContractCompensation{comp}); err != nil {
		t.Fatalf("CreateCompensations: %v", err)
	}
	sig := &records.ContractSignature{ID: uuid.New(), ContractID: c.ID, SignerID: c.OwnerID, SignatureHash: "h", SignedAt: now}
	if err := repo.CreateSignatures(dbc, []*records.ContractSignature{sig}); err != nil {
		t.Fatalf("CreateSignatures: %v", err)
	}

	receipt := &records.PaymentReceipt{
		ID: uuid.New(), ContractID: c.ID, ReceiptNumber: "R-" + c.ID.String()[:8],
		BaseAmount: decimal.NewFromInt(1000), CompensationAdjustments: decimal.Zero, IssuedAt: now, Status: "issued",
	}
	if err := repo.CreateReceipt(dbc, receipt); err != nil {
		t.Fatalf("CreateReceipt: %v", err)
	}
	receipt.CompensationAdjustments = decimal.NewFromInt(-75)
	receipt.Notes = "chair"
	receipt.Status = "updated"
	receipt.RevisedAt = &now
	if err := repo.UpdateReceipt(dbc, receipt); err != nil {
		t.Fatalf("UpdateReceipt: %v", err)
	}

	got, err := repo.GetByID(dbc, c.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v", err)
	}
	if len(got.Compensations) != 1 || got.Compensations[0].Status != "pending" {
		t.Fatalf("compensations: %+v", got.Compensations)
	}
	if len(got.Signatures) != 1 {
		t.Fatalf("signatures: %+v", got.Signatures)
	}
	if got.Receipt == nil || !got.Receipt.CompensationAdjustments.Equal(decimal.NewFromInt(-75)) || got.Receipt.RevisedAt == nil {
		t.Fatalf("receipt after update: %+v", got.Receipt)
	}

	if err := repo.DeleteReceiptsByContractID(dbc, c.ID); err != nil {
		t.Fatalf("DeleteReceiptsByContractID: %v", err)
	}
	got, _ = repo.GetByID(dbc, c.ID)
	if got.Receipt != nil {
		t.Fatalf("receipt should be gone: %+v", got.Receipt)
	}
}

func TestContractRepoQueries(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContractRepo(db, testutil.Logger(t))

	office := uuid.New()
	active := testutil.SeedContract(t, ctx, tx, office, "active")
	testutil.SeedContract(t, ctx, tx, office, "draft")

	got, err := repo.GetActiveByOfficeID(dbc, office)
	if err != nil || got == nil || got.ID != active.ID {
		t.Fatalf("GetActiveByOfficeID: err=%v row=%v", err, got)
	}
	none, err := repo.GetActiveByOfficeID(dbc, uuid.New())
	if err != nil || none != nil {
		t.Fatalf("GetActiveByOfficeID empty: err=%v row=%v", err, none)
	}

	rows, err := repo.ListActive(dbc)
	if err != nil || !containsID(rows, active.ID) {
		t.Fatalf("ListActive: err=%v len=%d", err, len(rows))
	}

	byOwner, err := repo.GetByParticipantID(dbc, active.OwnerID)
	if err != nil || len(byOwner) != 1 {
		t.Fatalf("GetByParticipantID owner: err=%v len=%d", err, len(byOwner))
	}
	byRenter, err := repo.GetByParticipantID(dbc, active.RenterID)
	if err != nil || len(byRenter) != 1 {
		t.Fatalf("GetByParticipantID renter: err=%v len=%d", err, len(byRenter))
	}
}

func TestActiveOfficeIndexRejectsSecondActive(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	office := uuid.New()
	testutil.SeedContract(t, ctx, tx, office, "active")
	second := testutil.SeedContract(t, ctx, tx, office, "pending_signatures")

	err := tx.Transaction(func(inner *gorm.DB) error {
		return inner.Model(&records.Contract{}).Where("id = ?", second.ID).Update("status", "active").Error
	})
	if err == nil {
		t.Fatalf("expected unique violation for second active contract on office")
	}
}

func TestContractEventRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContractEventRepo(db, testutil.Logger(t))

	contractID := uuid.New()
	now := time.Now().UTC()
	rows := []*records.ContractEvent{
		{ID: uuid.New(), ContractID: contractID, Kind: "ContractCreated", Payload: []byte(`{"a":1}`), OccurredAt: now, CreatedAt: now},
		{ID: uuid.New(), ContractID: contractID, Kind: "ClauseAdded", Payload: []byte(`{"b":2}`), OccurredAt: now.Add(time.Second), CreatedAt: now},
	}
	if _, err := repo.Create(dbc, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.ListByContractID(dbc, contractID)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListByContractID: err=%v len=%d", err, len(got))
	}
	if got[0].Kind != "ContractCreated" || got[1].Kind != "ClauseAdded" {
		t.Fatalf("order: %s, %s", got[0].Kind, got[1].Kind)
	}
}

func containsID(rows []*records.Contract, id uuid.UUID) bool {
	for _, r := range rows {
		if r.ID == id {
			return true
		}
	}
	return false
}
