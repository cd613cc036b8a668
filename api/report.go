package api

import (
	"errors"
	"net/http"

	"skinsight/service"

	"github.com/gin-gonic/gin"
)

// reportSender 生成并发送报告
type reportSender interface {
	GenerateAndSend(data service.ReportData, patient service.PatientInfo) error
}

// ReportHandler 报告处理器
type ReportHandler struct {
	reports reportSender
}

// NewReportHandler 创建报告处理器
func NewReportHandler(reports reportSender) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GenerateReportRequest 生成报告请求
type GenerateReportRequest struct {
	AnalysisData service.ReportData  `json:"analysisData"`
	PatientInfo  service.PatientInfo `json:"patientInfo"`
}

// Generate 生成 PDF 报告并发送到患者邮箱
// @Summary 生成并发送分析报告
// @Description 根据分析结果生成 PDF 报告，以附件形式发送到 patientInfo.email，发送后删除临时文件
// @Tags 报告
// @Accept json
// @Produce json
// @Param request body GenerateReportRequest true "报告信息"
// @Success 200 {object} Response "发送成功"
// @Failure 400 {object} Response "缺少必填字段"
// @Failure 500 {object} Response "生成或发送失败"
// @Router /api/report/generate [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, err)
		return
	}

	if err := service.Validate(req.AnalysisData, req.PatientInfo); err != nil {
		h.invalid(c, err)
		return
	}

	if err := h.reports.GenerateAndSend(req.AnalysisData, req.PatientInfo); err != nil {
		if errors.Is(err, service.ErrInvalidReport) {
			h.invalid(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to generate or send report",
			"error":   SafeErrorMessage(err, "report delivery failed"),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Report generated and sent successfully",
	})
}

func (h *ReportHandler) invalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Missing or invalid report fields",
		"error":   SafeErrorMessage(err, "invalid request"),
	})
}
