package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/workstation-backend/internal/data/repos"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

type Repos struct {
	Contract      repos.ContractRepo
	ContractEvent repos.ContractEventRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Contract:      repos.NewContractRepo(db, log),
		ContractEvent: repos.NewContractEventRepo(db, log),
	}
}
