package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"skinsight/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidAnalysis   = errors.New("image and result are required")
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrAnalysisForbidden = errors.New("not authorized to access this analysis")
)

// AnalysisService 分析记录的持久化：只支持创建与按所有者读取
type AnalysisService struct {
	db *gorm.DB
}

// NewAnalysisService 创建分析记录服务
func NewAnalysisService(db *gorm.DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// Create 保存一条分析记录并返回其ID
func (s *AnalysisService) Create(ctx context.Context, ownerID uint, ownerName, image string, result json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(result)
	if image == "" || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", ErrInvalidAnalysis
	}
	if !json.Valid(trimmed) {
		return "", ErrInvalidAnalysis
	}

	record := models.AnalysisRecord{
		OwnerID:   ownerID,
		OwnerName: ownerName,
		Image:     image,
		Result:    datatypes.JSON(trimmed),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("保存分析记录失败: %w", err)
	}
	return record.ID, nil
}

// ListByOwner 返回某用户的全部分析记录，按创建时间倒序
func (s *AnalysisService) ListByOwner(ctx context.Context, ownerID uint) ([]models.AnalysisRecord, error) {
	var list []models.AnalysisRecord
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("查询分析记录失败: %w", err)
	}
	return list, nil
}

// GetByID 获取分析记录，仅所有者可读
// 记录不存在返回 ErrAnalysisNotFound，存在但不属于请求者返回 ErrAnalysisForbidden
func (s *AnalysisService) GetByID(ctx context.Context, id string, requesterID uint) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询分析记录失败: %w", err)
	}
	if record.OwnerID != requesterID {
		return nil, ErrAnalysisForbidden
	}
	return &record, nil
}
