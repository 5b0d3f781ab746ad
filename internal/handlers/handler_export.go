package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// exportHandler serves transaction downloads.
type exportHandler struct {
	exportService portssvc.ExportSvc
}

func newExportHandler(es portssvc.ExportSvc) *exportHandler {
	return &exportHandler{exportService: es}
}

func sendFile(c *gin.Context, file *domain.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// exportTransaction godoc
// @Summary Export a transaction
// @Tags export
// @Produce  json,text/csv
// @Param   id path string true "Transaction ID"
// @Param   format query string false "json or csv" default(json)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Unsupported format"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id}/export [get]
func (h *exportHandler) exportTransaction(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var params dto.ExportParams
	if !bindQuery(c, &params) {
		return
	}
	file, err := h.exportService.ExportTransaction(c.Request.Context(), identity, c.Param("id"), params.Format)
	if err != nil {
		respondError(c, err, "export transaction")
		return
	}
	sendFile(c, file)
}

// exportAccountTransactions godoc
// @Summary Export the transactions of an account
// @Tags export
// @Produce  json,text/csv
// @Param   id path string true "Account ID"
// @Param   format query string false "json or csv" default(json)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Unsupported format"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /accounts/{id}/transactions/export [get]
func (h *exportHandler) exportAccountTransactions(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var params dto.ExportParams
	if !bindQuery(c, &params) {
		return
	}
	file, err := h.exportService.ExportTransactions(c.Request.Context(), identity, c.Param("id"), params.Format)
	if err != nil {
		respondError(c, err, "export transactions")
		return
	}
	sendFile(c, file)
}
