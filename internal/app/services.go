package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/workstation-backend/internal/data/aggregates"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/events"
	"github.com/yungbote/workstation-backend/internal/observability"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
	"github.com/yungbote/workstation-backend/internal/platform/roles"
	"github.com/yungbote/workstation-backend/internal/services"
)

type Services struct {
	Store     aggregates.ContractStore
	Publisher *events.Fanout
	Commands  services.ContractCommandService
	Queries   services.ContractQueryService
}

func wireServices(log *logger.Logger, cfg Config, db *gorm.DB, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	store := aggregates.NewContractStore(aggregates.ContractStoreDeps{
		Base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: aggregates.NewMetricsHooks(metrics),
		},
		Contracts: reposet.Contract,
	})

	sinks := []events.Sink{events.NewLogSink(log)}
	if clients.Bus != nil {
		sinks = append(sinks, events.NewBusSink(clients.Bus))
	}
	if cfg.EventLogEnabled {
		sinks = append(sinks, events.NewStoreSink(reposet.ContractEvent))
	}
	publisher := events.NewFanout(log, metrics, cfg.EventSinkTimeout, sinks...)

	roleDir, err := loadRoles(log, cfg.RoleDirectoryPath)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Store:     store,
		Publisher: publisher,
		Commands: services.NewContractCommandService(log, services.ContractCommandDeps{
			Store:     store,
			Publisher: publisher,
			Roles:     roleDir,
			Metrics:   metrics,
		}),
		Queries: services.NewContractQueryService(log, store),
	}, nil
}

// loadRoles returns nil when no directory is configured, which disables
// counterparty role checks.
func loadRoles(log *logger.Logger, path string) (contracts.RoleDirectory, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		log.Warn("ROLE_DIRECTORY_PATH not set; counterparty roles are not checked")
		return nil, nil
	}
	dir, err := roles.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load role directory: %w", err)
	}
	log.Info("Loaded role directory", "path", path, "users", dir.Len())
	return dir, nil
}
