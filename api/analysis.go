package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"skinsight/middleware"
	"skinsight/models"
	"skinsight/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalysisHandler 分析记录处理器
type AnalysisHandler struct {
	svc *service.AnalysisService
	log *zap.Logger
}

// NewAnalysisHandler 创建分析记录处理器
func NewAnalysisHandler(svc *service.AnalysisService, log *zap.Logger) *AnalysisHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalysisHandler{svc: svc, log: log}
}

// SaveAnalysisRequest 保存分析记录请求，image 与 result 原样存储
type SaveAnalysisRequest struct {
	Image  string          `json:"image" example:"data:image/jpeg;base64,/9j/4AAQ..."`
	Result json.RawMessage `json:"result" swaggertype:"object"`
}

// SaveAnalysisResponse 保存结果
type SaveAnalysisResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"_id"`
}

// Save 保存分析记录
// @Summary 保存分析记录
// @Description 保存当前用户的一次分析结果
// @Tags 分析记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveAnalysisRequest true "分析记录"
// @Success 200 {object} SaveAnalysisResponse "保存成功"
// @Failure 400 {object} Response "缺少 image 或 result"
// @Failure 401 {object} Response "未授权"
// @Router /api/analysis [post]
func (h *AnalysisHandler) Save(c *gin.Context) {
	var req SaveAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}

	userID := middleware.GetCurrentUserID(c)
	id, err := h.svc.Create(c.Request.Context(), userID, middleware.GetCurrentUsername(c), req.Image, req.Result)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAnalysis) {
			h.badRequest(c, "Image and result are required")
			return
		}
		h.log.Error("保存分析记录失败", zap.Uint("user_id", userID), zap.Error(err))
		h.internal(c, "Failed to save analysis", err)
		return
	}

	c.JSON(http.StatusOK, SaveAnalysisResponse{Success: true, ID: id})
}

// List 获取当前用户的分析记录
// @Summary 分析记录列表
// @Description 按创建时间倒序返回当前用户的全部分析记录
// @Tags 分析记录
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AnalysisRecord "记录列表"
// @Failure 401 {object} Response "未授权"
// @Router /api/analysis [get]
func (h *AnalysisHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	records, err := h.svc.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("查询分析记录失败", zap.Uint("user_id", userID), zap.Error(err))
		h.internal(c, "Failed to fetch analyses", err)
		return
	}
	if records == nil {
		records = []models.AnalysisRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// Get 获取单条分析记录
// @Summary 分析记录详情
// @Description 仅记录所有者可以查看
// @Tags 分析记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录 ID"
// @Success 200 {object} models.AnalysisRecord "记录详情"
// @Failure 401 {object} Response "未授权"
// @Failure 403 {object} Response "无权访问"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/analysis/{id} [get]
func (h *AnalysisHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	record, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	switch {
	case errors.Is(err, service.ErrAnalysisNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Analysis not found"})
	case errors.Is(err, service.ErrAnalysisForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to view this analysis"})
	case err != nil:
		h.log.Error("查询分析记录失败", zap.String("id", c.Param("id")), zap.Error(err))
		h.internal(c, "Failed to fetch analysis", err)
	default:
		c.JSON(http.StatusOK, record)
	}
}

func (h *AnalysisHandler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func (h *AnalysisHandler) internal(c *gin.Context, message string, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
		"error":   SafeErrorMessage(err, message),
	})
}
