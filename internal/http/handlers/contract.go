package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/http/response"
	"github.com/yungbote/workstation-backend/internal/services"
)

type ContractHandler struct {
	commands services.ContractCommandService
	queries  services.ContractQueryService
}

func NewContractHandler(commands services.ContractCommandService, queries services.ContractQueryService) *ContractHandler {
	return &ContractHandler{commands: commands, queries: queries}
}

type addClauseRequest struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Order     int    `json:"order"`
	Mandatory bool   `json:"mandatory"`
}

type signRequest struct {
	SignerID      uuid.UUID `json:"signer_id"`
	SignatureHash string    `json:"signature_hash"`
}

type addCompensationRequest struct {
	IssuerID   uuid.UUID       `json:"issuer_id"`
	ReceiverID uuid.UUID       `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
}

type resolveRequest struct {
	Decision contracts.Decision `json:"decision"`
}

type issueReceiptRequest struct {
	ReceiptNumber string          `json:"receipt_number"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
}

type updateReceiptRequest struct {
	CompensationAdjustments decimal.Decimal `json:"compensation_adjustments"`
	Notes                   string          `json:"notes"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type receiptView struct {
	contracts.PaymentReceipt
	FinalAmount decimal.Decimal `json:"final_amount"`
}

func viewReceipt(r contracts.PaymentReceipt) receiptView {
	return receiptView{PaymentReceipt: r, FinalAmount: r.FinalAmount()}
}

// POST /api/contracts
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var cmd contracts.CreateContractCommand
	if !bindJSON(c, &cmd) {
		return
	}
	snap, err := h.commands.CreateContract(c.Request.Context(), cmd)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"contract": snap})
}

// GET /api/contracts/active
func (h *ContractHandler) ListActive(c *gin.Context) {
	list, err := h.queries.ListActiveContracts(c.Request.Context())
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contracts": list})
}

// GET /api/contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	snap, err := h.queries.GetContractByID(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": snap})
}

// GET /api/users/:id/contracts
func (h *ContractHandler) ListByParticipant(c *gin.Context) {
	userID, ok := pathID(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	list, err := h.queries.ListContractsByParticipant(c.Request.Context(), userID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contracts": list})
}

// POST /api/contracts/:id/clauses
func (h *ContractHandler) AddClause(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	var req addClauseRequest
	if !bindJSON(c, &req) {
		return
	}
	clause, err := h.commands.AddClause(c.Request.Context(), contracts.AddClauseCommand{
		ContractID: id,
		Name:       req.Name,
		Content:    req.Content,
		Order:      req.Order,
		Mandatory:  req.Mandatory,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"clause": clause})
}

// POST /api/contracts/:id/signatures
func (h *ContractHandler) Sign(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	var req signRequest
	if !bindJSON(c, &req) {
		return
	}
	sig, err := h.commands.SignContract(c.Request.Context(), contracts.SignContractCommand{
		ContractID:    id,
		SignerID:      req.SignerID,
		SignatureHash: req.SignatureHash,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"signature": sig})
}

// POST /api/contracts/:id/activate
func (h *ContractHandler) Activate(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	snap, err := h.commands.ActivateContract(c.Request.Context(), contracts.ActivateContractCommand{ContractID: id})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": snap})
}

// POST /api/contracts/:id/compensations
func (h *ContractHandler) AddCompensation(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	var req addCompensationRequest
	if !bindJSON(c, &req) {
		return
	}
	comp, err := h.commands.AddCompensation(c.Request.Context(), contracts.AddCompensationCommand{
		ContractID: id,
		IssuerID:   req.IssuerID,
		ReceiverID: req.ReceiverID,
		Amount:     req.Amount,
		Reason:     req.Reason,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"compensation": comp})
}

// GET /api/contracts/:id/compensations
func (h *ContractHandler) ListCompensations(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	comps, err := h.queries.ListCompensationsByContractID(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"compensations": comps})
}

// POST /api/contracts/:id/compensations/:cid/resolve
func (h *ContractHandler) ResolveCompensation(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	compID, ok := pathID(c, "cid", "invalid_compensation_id")
	if !ok {
		return
	}
	var req resolveRequest
	if !bindJSON(c, &req) {
		return
	}
	comp, err := h.commands.ResolveCompensation(c.Request.Context(), contracts.ResolveCompensationCommand{
		ContractID:     id,
		CompensationID: compID,
		Decision:       req.Decision,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"compensation": comp})
}

// POST /api/contracts/:id/receipt
func (h *ContractHandler) IssueReceipt(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	var req issueReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.commands.IssueReceipt(c.Request.Context(), contracts.IssueReceiptCommand{
		ContractID:    id,
		ReceiptNumber: req.ReceiptNumber,
		BaseAmount:    req.BaseAmount,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"receipt": viewReceipt(r)})
}

// GET /api/contracts/:id/receipt
func (h *ContractHandler) GetReceipt(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	r, err := h.queries.GetReceiptByContractID(c.Request.Context(), id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"receipt": viewReceipt(r)})
}

// PUT /api/contracts/:id/receipt
func (h *ContractHandler) UpdateReceipt(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	var req updateReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.commands.UpdateReceipt(c.Request.Context(), contracts.UpdateReceiptCommand{
		ContractID:              id,
		CompensationAdjustments: req.CompensationAdjustments,
		Notes:                   req.Notes,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"receipt": viewReceipt(r)})
}

// POST /api/contracts/:id/finish
func (h *ContractHandler) Finish(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	var req reasonRequest
	if !bindJSON(c, &req) {
		return
	}
	snap, err := h.commands.FinishContract(c.Request.Context(), contracts.FinishContractCommand{ContractID: id, Reason: req.Reason})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": snap})
}

// POST /api/contracts/:id/cancel
func (h *ContractHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid_contract_id")
	if !ok {
		return
	}
	var req reasonRequest
	if !bindJSON(c, &req) {
		return
	}
	snap, err := h.commands.CancelContract(c.Request.Context(), contracts.CancelContractCommand{ContractID: id, Reason: req.Reason})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": snap})
}

func pathID(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

