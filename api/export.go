package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"skinsight/middleware"
	"skinsight/models"
	"skinsight/service"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheetName = "Analysis History"

// ExportHandler 导出处理器
type ExportHandler struct {
	svc *service.AnalysisService
	log *zap.Logger
}

// NewExportHandler 创建导出处理器
func NewExportHandler(svc *service.AnalysisService, log *zap.Logger) *ExportHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportHandler{svc: svc, log: log}
}

// resultSummary 从前端保存的 result 中取出导出所需字段，兼容几种命名
type resultSummary struct {
	Type       string          `json:"type"`
	Label      string          `json:"label"`
	Condition  string          `json:"condition"`
	Confidence json.RawMessage `json:"confidence"`
	RiskLevel  string          `json:"riskLevel"`
	RiskLevel2 string          `json:"risk_level"`
}

func summarize(raw []byte) (condition, confidence, risk string) {
	var s resultSummary
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", "", ""
	}
	condition = firstNonEmpty(s.Type, s.Label, s.Condition)
	risk = firstNonEmpty(s.RiskLevel, s.RiskLevel2)

	var p service.Percent
	if len(s.Confidence) > 0 && p.UnmarshalJSON(s.Confidence) == nil {
		confidence = fmt.Sprintf("%.2f%%", float64(p))
	}
	return condition, confidence, risk
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ExportExcel 导出当前用户的分析记录为 Excel
// @Summary 导出分析记录
// @Description 将当前用户的全部分析记录导出为 xlsx 文件，按时间倒序
// @Tags 分析记录
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Failure 500 {object} Response "导出失败"
// @Router /api/analysis/export [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	records, err := h.svc.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("导出时查询分析记录失败", zap.Uint("user_id", userID), zap.Error(err))
		ErrorWithDetail(c, http.StatusInternalServerError, "Failed to export analyses", err)
		return
	}

	f, err := buildHistoryWorkbook(records)
	if err != nil {
		h.log.Error("生成 Excel 失败", zap.Error(err))
		ErrorWithDetail(c, http.StatusInternalServerError, "Failed to export analyses", err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		ErrorWithDetail(c, http.StatusInternalServerError, "Failed to export analyses", err)
		return
	}

	filename := fmt.Sprintf("skin-analysis-history-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// buildHistoryWorkbook 生成分析记录工作簿，最后一行为记录总数
func buildHistoryWorkbook(records []models.AnalysisRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		f.Close()
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2563EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})

	f.SetColWidth(exportSheetName, "A", "A", 40)
	f.SetColWidth(exportSheetName, "B", "B", 28)
	f.SetColWidth(exportSheetName, "C", "D", 14)
	f.SetColWidth(exportSheetName, "E", "E", 22)

	headers := []string{"ID", "Condition", "Confidence", "Risk Level", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(exportSheetName, cell, header)
		f.SetCellStyle(exportSheetName, cell, cell, headerStyle)
	}

	for i, rec := range records {
		row := i + 2
		condition, confidence, risk := summarize(rec.Result)
		f.SetCellValue(exportSheetName, fmt.Sprintf("A%d", row), rec.ID)
		f.SetCellValue(exportSheetName, fmt.Sprintf("B%d", row), condition)
		f.SetCellValue(exportSheetName, fmt.Sprintf("C%d", row), confidence)
		f.SetCellValue(exportSheetName, fmt.Sprintf("D%d", row), risk)
		f.SetCellValue(exportSheetName, fmt.Sprintf("E%d", row), rec.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellStyle(exportSheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), dataStyle)
	}

	summaryRow := len(records) + 2
	f.SetCellValue(exportSheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("Total: %d", len(records)))
	f.MergeCell(exportSheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow))
	return f, nil
}
