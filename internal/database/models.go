package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 导出状态。
const (
	ExportStatusNone       = ""
	ExportStatusPending    = "pending"
	ExportStatusProcessing = "processing"
	ExportStatusCompleted  = "completed"
	ExportStatusFailed     = "failed"
)

// Resume 表示用户保存的简历。Content 存放 resume.Resume 的 JSON。
// ShareID 仅在第一次开启分享时生成，之后关闭分享也保留原值。
type Resume struct {
	gorm.Model
	Title           string         `gorm:"size:255"`
	Content         datatypes.JSON `gorm:"type:jsonb"`
	UserID          uint           `gorm:"index"`
	ShareID         *string        `gorm:"uniqueIndex;size:36"`
	IsShared        bool           `gorm:"default:false"`
	PdfObjectKey    string         `gorm:"size:512"`
	ExportStatus    string         `gorm:"size:32"`
	PreviewImageURL string         `gorm:"size:512"`
}

// ShareIDValue returns the share id or "".
func (r Resume) ShareIDValue() string {
	if r.ShareID == nil {
		return ""
	}
	return *r.ShareID
}

// AutoMigrate creates or updates the schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Resume{})
}
