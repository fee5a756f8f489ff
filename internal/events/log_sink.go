package events

import (
	"context"

	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.With("sink", "log")}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, e contracts.Event) error {
	switch ev := e.(type) {
	case contracts.ContractCreated:
		s.log.Info("contract created",
			"contract_id", ev.ContractID.String(),
			"office_id", ev.OfficeID.String(),
			"owner_id", ev.OwnerID.String(),
			"renter_id", ev.RenterID.String(),
			"base_amount", ev.BaseAmount.StringFixed(2),
		)
	case contracts.ClauseAdded:
		s.log.Info("clause added",
			"contract_id", ev.ContractID.String(),
			"clause_id", ev.ClauseID.String(),
			"name", ev.Name,
			"mandatory", ev.Mandatory,
		)
	case contracts.ContractActivated:
		s.log.Info("contract activated",
			"contract_id", ev.ContractID.String(),
			"office_id", ev.OfficeID.String(),
		)
	case contracts.ContractSigned:
		s.log.Info("contract signed",
			"contract_id", ev.ContractID.String(),
			"signer_id", ev.SignerID.String(),
			"signature_hash", ev.SignatureHash,
			"all_parties_signed", ev.AllPartiesSigned,
		)
	case contracts.ReceiptUpdated:
		s.log.Info("receipt updated",
			"contract_id", ev.ContractID.String(),
			"receipt_id", ev.ReceiptID.String(),
			"adjustments", ev.CompensationAdjustments.StringFixed(2),
			"final_amount", ev.FinalAmount.StringFixed(2),
		)
	case contracts.ContractFinished:
		s.log.Info("contract finished",
			"contract_id", ev.ContractID.String(),
			"office_id", ev.OfficeID.String(),
			"reason", ev.Reason,
		)
	default:
		s.log.Warn("unknown contract event", "kind", string(e.Kind()))
	}
	return nil
}
