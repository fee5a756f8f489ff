package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/workstation-backend/internal/data/repos/testutil"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/observability"
	"github.com/yungbote/workstation-backend/internal/pkg/dbctx"
	"github.com/yungbote/workstation-backend/internal/realtime/bus"
)

func TestWireServicesRecordsEventsAfterCommit(t *testing.T) {
	log := testutil.Logger(t)
	db := testutil.DB(t)
	cfg := Config{EventLogEnabled: true, EventSinkTimeout: time.Second}
	memBus := bus.NewMemoryBus()
	var published int
	if err := memBus.StartForwarder(context.Background(), func([]byte) { published++ }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	reposet := wireRepos(db, log)
	svc, err := wireServices(log, cfg, db, reposet, Clients{Bus: memBus}, observability.NewMetrics())
	if err != nil {
		t.Fatalf("wireServices: %v", err)
	}

	start := time.Now().UTC().AddDate(0, 0, 1)
	snap, err := svc.Commands.CreateContract(context.Background(), contracts.CreateContractCommand{
		OfficeID:    uuid.New(),
		OwnerID:     uuid.New(),
		RenterID:    uuid.New(),
		Description: "Meeting room lease",
		StartDate:   start,
		EndDate:     start.AddDate(0, 6, 0),
		BaseAmount:  decimal.NewFromInt(700),
	})
	if err != nil {
		t.Fatalf("CreateContract: %v", err)
	}

	got, err := svc.Queries.GetContractByID(context.Background(), snap.ID)
	if err != nil || got.Status != contracts.StatusDraft {
		t.Fatalf("GetContractByID: status=%v err=%v", got.Status, err)
	}

	if err := svc.Publisher.Close(context.Background()); err != nil {
		t.Fatalf("Publisher.Close: %v", err)
	}
	rows, err := reposet.ContractEvent.ListByContractID(dbctx.Context{Ctx: context.Background()}, snap.ID)
	if err != nil {
		t.Fatalf("ListByContractID: %v", err)
	}
	if len(rows) != 1 || rows[0].Kind != string(contracts.KindContractCreated) {
		t.Fatalf("event log: want one contract_created row, got=%d", len(rows))
	}
	if published != 1 {
		t.Fatalf("bus: want=1 got=%d", published)
	}
}

func TestLoadRoles(t *testing.T) {
	log := testutil.Logger(t)

	dir, err := loadRoles(log, "")
	if err != nil || dir != nil {
		t.Fatalf("empty path: want nil directory, got=%v err=%v", dir, err)
	}

	lessor := uuid.New()
	path := filepath.Join(t.TempDir(), "roles.yaml")
	raw := "version: 1\nusers:\n  - id: " + lessor.String() + "\n    role: lessor\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	dir, err = loadRoles(log, path)
	if err != nil {
		t.Fatalf("loadRoles: %v", err)
	}
	role, err := dir.RoleOf(context.Background(), lessor)
	if err != nil || role != contracts.RoleLessor {
		t.Fatalf("RoleOf: want=lessor got=%s err=%v", role, err)
	}

	if _, err := loadRoles(log, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file should fail")
	}
}
