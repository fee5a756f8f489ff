package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/workstation-backend/internal/http/handlers"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Contract *httpH.ContractHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	ping := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(ping),
		Contract: httpH.NewContractHandler(services.Commands, services.Queries),
	}
}
