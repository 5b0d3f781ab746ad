package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/SscSPs/finovate_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to ledger transactions and transfers.
type transactionHandler struct {
	ledgerService   portssvc.LedgerSvcFacade
	transferService portssvc.TransferSvc
}

func newTransactionHandler(ls portssvc.LedgerSvcFacade, ts portssvc.TransferSvc) *transactionHandler {
	return &transactionHandler{
		ledgerService:   ls,
		transferService: ts,
	}
}

// registerTransactionRoutes registers routes related to transactions and transfers.
func registerTransactionRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTransactionHandler(services.Ledger, services.Transfer)
	export := newExportHandler(services.Export)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/custom/:customID", h.getTransactionByCustomID)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.DELETE("/:id", h.deleteTransaction)
		transactions.GET("/:id/export", export.exportTransaction)
	}

	rg.POST("/transfers", h.createTransfer)
}

// createTransaction godoc
// @Summary Record a deposit or withdrawal
// @Description Records a standalone transaction and applies it to the account balance
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Custom ID already used"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	logger := middleware.GetLoggerFromContext(c)
	logger.Info("Received request to record transaction",
		slog.String("account_id", req.AccountID),
		slog.String("type", string(req.Type)))

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "record transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists every transaction visible to the caller, newest first
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if !bindQuery(c, &params) {
		return
	}
	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), identity, params)
	if err != nil {
		respondError(c, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getTransactionByCustomID godoc
// @Summary Find a transaction by its custom ID
// @Tags transactions
// @Produce  json
// @Param   customID path string true "Custom ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/custom/{customID} [get]
func (h *transactionHandler) getTransactionByCustomID(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	txn, err := h.ledgerService.FindByCustomID(c.Request.Context(), identity, c.Param("customID"))
	if err != nil {
		respondError(c, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Edits a transaction. The amount of a transfer leg cannot be changed.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Custom ID already used"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := h.ledgerService.UpdateTransaction(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Deletes a transaction and reverses its balance effect. Either leg deletes the whole transfer.
// @Tags transactions
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 422 {object} map[string]string "Reversal would overdraw an account"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), identity, c.Param("id")); err != nil {
		respondError(c, err, "delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// createTransfer godoc
// @Summary Transfer money between accounts
// @Description Debits the source and credits the destination in one atomic operation
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input or currency mismatch"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Custom ID already used"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transactionHandler) createTransfer(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if !bindJSON(c, &req) {
		return
	}

	logger := middleware.GetLoggerFromContext(c)
	logger.Info("Received request to transfer",
		slog.String("from_account_id", req.FromAccountID),
		slog.String("to_account_id", req.ToAccountID))

	result, err := h.transferService.Transfer(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "transfer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransferResponse(result))
}
