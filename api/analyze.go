package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"skinsight/inference"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzeHandler 图片分析处理器
type AnalyzeHandler struct {
	adapter  *inference.Adapter
	maxBytes int64
	log      *zap.Logger
}

// NewAnalyzeHandler 创建图片分析处理器，maxBytes 为上传图片大小上限
func NewAnalyzeHandler(adapter *inference.Adapter, maxBytes int64, log *zap.Logger) *AnalyzeHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyzeHandler{adapter: adapter, maxBytes: maxBytes, log: log}
}

// AnalyzeResponse 分析结果
type AnalyzeResponse struct {
	PredictedClass    int                `json:"predicted_class" example:"4"`
	Confidence        float64            `json:"confidence" example:"87.53"`
	Label             string             `json:"label" example:"Melanoma"`
	AllProbabilities  map[string]float64 `json:"all_probabilities"`
	MockResponse      bool               `json:"mock_response"`
	Fallback          bool               `json:"fallback,omitempty"`
	Description       string             `json:"description"`
	RiskLevel         string             `json:"risk_level" example:"High"`
	RecommendedAction string             `json:"recommended_action"`
	Timestamp         string             `json:"timestamp" example:"2024-05-01T10:00:00Z"`
}

// Analyze 上传皮肤图片并返回分类结果
// @Summary 皮肤图片分析
// @Description 上传图片（multipart 字段 image，最大 10MB），返回七类皮肤病变的分类结果。推理服务不可用时回退到模拟结果，并以 fallback 标记
// @Tags 分析
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "皮肤图片"
// @Success 200 {object} AnalyzeResponse "分析成功"
// @Failure 400 {object} Response "未上传图片"
// @Failure 413 {object} Response "图片过大"
// @Failure 500 {object} Response "分析失败"
// @Router /api/analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	// 整体请求体留出 1MB 给表单其他部分
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.tooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "No image file provided",
		})
		return
	}
	if fh.Size > h.maxBytes {
		h.tooLarge(c)
		return
	}

	data, err := readFormFile(fh)
	if err != nil {
		h.fail(c, "Failed to read uploaded image", err)
		return
	}

	img, err := inference.Preprocess(data)
	if err != nil {
		h.fail(c, "Failed to process image", err)
		return
	}

	outcome := h.adapter.Classify(c.Request.Context(), img)
	if outcome.Kind == inference.KindFailed {
		h.fail(c, "Failed to analyze image", outcome.Reason)
		return
	}

	pred := outcome.Prediction
	cond, ok := inference.Lookup(pred.ClassIndex)
	if !ok {
		h.fail(c, "Failed to analyze image", fmt.Errorf("%w: class %d", inference.ErrInvalidResponse, pred.ClassIndex))
		return
	}

	h.log.Info("图片分析完成",
		zap.String("request_id", c.GetString("requestID")),
		zap.String("label", cond.Label),
		zap.Float64("confidence", pred.Confidence),
		zap.Stringer("outcome", outcome.Kind),
	)

	c.JSON(http.StatusOK, AnalyzeResponse{
		PredictedClass:    pred.ClassIndex,
		Confidence:        pred.Confidence,
		Label:             cond.Label,
		AllProbabilities:  pred.Probabilities,
		MockResponse:      pred.Mock,
		Fallback:          outcome.Kind == inference.KindFallback,
		Description:       cond.Description,
		RiskLevel:         cond.RiskLevel,
		RecommendedAction: cond.RecommendedAction,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *AnalyzeHandler) tooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"success": false,
		"message": fmt.Sprintf("Image exceeds the %dMB upload limit", h.maxBytes>>20),
	})
}

func (h *AnalyzeHandler) fail(c *gin.Context, message string, err error) {
	h.log.Error("图片分析失败", zap.String("request_id", c.GetString("requestID")), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
		"error":   SafeErrorMessage(err, message),
	})
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
