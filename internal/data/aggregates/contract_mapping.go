package aggregates

import (
	"time"

	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/domain/records"
)

func contractSnapshot(row *records.Contract) contracts.Snapshot {
	snap := contracts.Snapshot{
		ID:            row.ID,
		OfficeID:      row.OfficeID,
		OwnerID:       row.OwnerID,
		RenterID:      row.RenterID,
		Description:   row.Description,
		StartDate:     row.StartDate.UTC(),
		EndDate:       row.EndDate.UTC(),
		BaseAmount:    row.BaseAmount,
		LateFee:       row.LateFee,
		InterestRate:  row.InterestRate,
		Status:        contracts.Status(row.Status),
		CreatedAt:     row.CreatedAt.UTC(),
		ActivatedAt:   utcPtr(row.ActivatedAt),
		TerminatedAt:  utcPtr(row.TerminatedAt),
		Clauses:       make([]contracts.Clause, 0, len(row.Clauses)),
		Signatures:    make([]contracts.Signature, 0, len(row.Signatures)),
		Compensations: make([]contracts.Compensation, 0, len(row.Compensations)),
	}
	for _, cl := range row.Clauses {
		snap.Clauses = append(snap.Clauses, contracts.Clause{
			ID:         cl.ID,
			ContractID: cl.ContractID,
			Name:       cl.Name,
			Content:    cl.Content,
			Order:      cl.Position,
			Mandatory:  cl.Mandatory,
		})
	}
	for _, sig := range row.Signatures {
		snap.Signatures = append(snap.Signatures, contracts.Signature{
			ID:            sig.ID,
			ContractID:    sig.ContractID,
			SignerID:      sig.SignerID,
			SignedAt:      sig.SignedAt.UTC(),
			SignatureHash: sig.SignatureHash,
		})
	}
	for _, comp := range row.Compensations {
		snap.Compensations = append(snap.Compensations, contracts.Compensation{
			ID:         comp.ID,
			ContractID: comp.ContractID,
			IssuerID:   comp.IssuerID,
			ReceiverID: comp.ReceiverID,
			Amount:     comp.Amount,
			Reason:     comp.Reason,
			CreatedAt:  comp.CreatedAt.UTC(),
			Status:     contracts.CompensationStatus(comp.Status),
		})
	}
	if row.Receipt != nil {
		r := receiptValue(row.Receipt)
		snap.Receipt = &r
	}
	return snap
}

func receiptValue(row *records.PaymentReceipt) contracts.PaymentReceipt {
	return contracts.PaymentReceipt{
		ID:                      row.ID,
		ContractID:              row.ContractID,
		ReceiptNumber:           row.ReceiptNumber,
		BaseAmount:              row.BaseAmount,
		CompensationAdjustments: row.CompensationAdjustments,
		IssuedAt:                row.IssuedAt.UTC(),
		UpdatedAt:               utcPtr(row.RevisedAt),
		Notes:                   row.Notes,
		Status:                  contracts.ReceiptStatus(row.Status),
	}
}

// contractRecord builds the full row set for a contract being inserted.
func contractRecord(snap contracts.Snapshot, version int, now time.Time) *records.Contract {
	row := &records.Contract{
		ID:           snap.ID,
		OfficeID:     snap.OfficeID,
		OwnerID:      snap.OwnerID,
		RenterID:     snap.RenterID,
		Description:  snap.Description,
		StartDate:    snap.StartDate,
		EndDate:      snap.EndDate,
		BaseAmount:   snap.BaseAmount,
		LateFee:      snap.LateFee,
		InterestRate: snap.InterestRate,
		Status:       string(snap.Status),
		Version:      version,
		ActivatedAt:  snap.ActivatedAt,
		TerminatedAt: snap.TerminatedAt,
		CreatedAt:    snap.CreatedAt,
		UpdatedAt:    now,
	}
	for i, cl := range snap.Clauses {
		row.Clauses = append(row.Clauses, *clauseRecord(cl, i))
	}
	for _, sig := range snap.Signatures {
		row.Signatures = append(row.Signatures, *signatureRecord(sig))
	}
	for i, comp := range snap.Compensations {
		row.Compensations = append(row.Compensations, *compensationRecord(comp, i))
	}
	if snap.Receipt != nil {
		row.Receipt = receiptRecord(*snap.Receipt)
	}
	return row
}

func clauseRecord(cl contracts.Clause, seq int) *records.ContractClause {
	return &records.ContractClause{
		ID:         cl.ID,
		ContractID: cl.ContractID,
		Seq:        seq,
		Name:       cl.Name,
		Content:    cl.Content,
		Position:   cl.Order,
		Mandatory:  cl.Mandatory,
	}
}

func signatureRecord(sig contracts.Signature) *records.ContractSignature {
	return &records.ContractSignature{
		ID:            sig.ID,
		ContractID:    sig.ContractID,
		SignerID:      sig.SignerID,
		SignatureHash: sig.SignatureHash,
		SignedAt:      sig.SignedAt,
	}
}

func compensationRecord(comp contracts.Compensation, seq int) *records.ContractCompensation {
	return &records.ContractCompensation{
		ID:         comp.ID,
		ContractID: comp.ContractID,
		Seq:        seq,
		IssuerID:   comp.IssuerID,
		ReceiverID: comp.ReceiverID,
		Amount:     comp.Amount,
		Reason:     comp.Reason,
		Status:     string(comp.Status),
		CreatedAt:  comp.CreatedAt,
	}
}

func receiptRecord(r contracts.PaymentReceipt) *records.PaymentReceipt {
	return &records.PaymentReceipt{
		ID:                      r.ID,
		ContractID:              r.ContractID,
		ReceiptNumber:           r.ReceiptNumber,
		BaseAmount:              r.BaseAmount,
		CompensationAdjustments: r.CompensationAdjustments,
		IssuedAt:                r.IssuedAt,
		RevisedAt:               r.UpdatedAt,
		Notes:                   r.Notes,
		Status:                  string(r.Status),
	}
}

func receiptChanged(before, after contracts.PaymentReceipt) bool {
	return before.Status != after.Status ||
		before.Notes != after.Notes ||
		!before.CompensationAdjustments.Equal(after.CompensationAdjustments) ||
		!sameTime(before.UpdatedAt, after.UpdatedAt)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
