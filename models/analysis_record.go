package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisRecord 用户保存的单次皮肤分析记录
// 创建后不可修改，没有更新或删除路径
type AnalysisRecord struct {
	ID        string         `json:"_id" gorm:"primaryKey;size:36"`
	OwnerID   uint           `json:"user" gorm:"index;not null"`
	OwnerName string         `json:"userName" gorm:"size:100"`
	Image     string         `json:"image" gorm:"type:longtext;not null"` // 客户端编码后的图片，服务端不解析
	Result    datatypes.JSON `json:"result" gorm:"not null"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
}

// TableName 设置表名
func (AnalysisRecord) TableName() string {
	return "analysis_records"
}

// BeforeCreate 生成记录ID
func (r *AnalysisRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
