package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"smartconv/internal/domain"
	"smartconv/internal/service"
)

// HistoryHandler exposes the conversion ledger.
type HistoryHandler struct {
	ledger service.LedgerService
	now    func() time.Time
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(ledger service.LedgerService) *HistoryHandler {
	return &HistoryHandler{ledger: ledger, now: time.Now}
}

// Stats handles GET /api/v1/stats
// @Summary Dashboard counters
// @Description Operations recorded today (UTC), in total, and completed successfully.
// @Tags history
// @Produce json
// @Success 200 {object} Response{data=domain.Stats} "Counters"
// @Router /stats [get]
func (h *HistoryHandler) Stats(c *gin.Context) {
	stats, err := h.ledger.Stats(c.Request.Context(), h.now())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}

// List handles GET /api/v1/history
// @Summary Conversion history
// @Description Ledger records, newest first.
// @Tags history
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.ConversionRecord,meta=PagMeta} "Records"
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	records, total, err := h.ledger.History(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/history/export
// @Summary Export history
// @Description Download the whole ledger as CSV or XLSX.
// @Tags history
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} binary "Export file"
// @Failure 400 {object} ErrorResponseBody "Unknown format"
// @Router /history/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	format := domain.ExportFormat(c.DefaultQuery("format", string(domain.ExportCSV)))

	file, err := h.ledger.Export(c.Request.Context(), format)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Link handles GET /api/v1/history/:id/link
// @Summary Download link
// @Description Short-lived link to a completed record's artifact. Cloud uploads get a presigned bucket URL.
// @Tags history
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} Response{data=service.DownloadLink} "Link"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Record or artifact not found"
// @Router /history/{id}/link [get]
func (h *HistoryHandler) Link(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid record ID")
		return
	}

	link, err := h.ledger.DownloadLink(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, link)
}

// Download handles GET /api/v1/downloads/:token
// @Summary Download an artifact
// @Tags history
// @Produce application/octet-stream
// @Param token path string true "Link token"
// @Success 200 {file} binary "Artifact"
// @Failure 403 {object} ErrorResponseBody "Invalid or expired link"
// @Failure 404 {object} ErrorResponseBody "Artifact no longer exists"
// @Router /downloads/{token} [get]
func (h *HistoryHandler) Download(c *gin.Context) {
	art, err := h.ledger.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, art)
}
