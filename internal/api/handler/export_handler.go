package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRoster 导出报名名单
// GET /api/v1/manage/workshops/:id/export
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	workshopID, ok := mustParam(c, "id", "工作坊ID")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportRoster(c.Request.Context(), workshopID, callerID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	writeAttachment(c, buf, filename, contentTypeXLSX)
}

// ExportCalendar 导出工作坊日程
// GET /api/v1/workshops/:id/calendar.ics
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	workshopID, ok := mustParam(c, "id", "工作坊ID")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), workshopID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	writeAttachment(c, buf, filename, contentTypeICS)
}

// writeAttachment 设置下载响应头并写入文件内容
func writeAttachment(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	encodedFilename := url.PathEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
