package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/workstation-backend/internal/data/repos/contracts"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

type ContractRepo = contracts.ContractRepo
type ContractEventRepo = contracts.ContractEventRepo

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return contracts.NewContractRepo(db, baseLog)
}
func NewContractEventRepo(db *gorm.DB, baseLog *logger.Logger) ContractEventRepo {
	return contracts.NewContractEventRepo(db, baseLog)
}
