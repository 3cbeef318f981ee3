package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cvrender/internal/export"
	"cvrender/internal/resume"
)

// ErrNotFound 表示记录不存在或不属于当前用户。
var ErrNotFound = errors.New("resume not found")

// ResumeRepository wraps gorm access to resumes.
type ResumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) *ResumeRepository {
	return &ResumeRepository{db: db}
}

// Create stores a new resume for owner.
func (r *ResumeRepository) Create(ctx context.Context, ownerID uint, title string, content []byte) (*Resume, error) {
	if len(content) == 0 {
		content = []byte("{}")
	}
	rec := &Resume{Title: title, Content: datatypes.JSON(content), UserID: ownerID}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("create resume: %w", err)
	}
	return rec, nil
}

// GetOwned 读取属于 owner 的简历；不属于该用户时同样返回 ErrNotFound。
func (r *ResumeRepository) GetOwned(ctx context.Context, id, ownerID uint) (*Resume, error) {
	var rec Resume
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&rec).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

// Get reads a resume regardless of owner.
func (r *ResumeRepository) Get(ctx context.Context, id uint) (*Resume, error) {
	var rec Resume
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

// GetByShareID reads a resume by its share id, shared or not.
func (r *ResumeRepository) GetByShareID(ctx context.Context, shareID string) (*Resume, error) {
	shareID = strings.TrimSpace(shareID)
	if shareID == "" {
		return nil, ErrNotFound
	}
	var rec Resume
	if err := r.db.WithContext(ctx).Where("share_id = ?", shareID).First(&rec).Error; err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

// UpdateContent replaces title and content of an owned resume.
func (r *ResumeRepository) UpdateContent(ctx context.Context, id, ownerID uint, title string, content []byte) (*Resume, error) {
	rec, err := r.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	rec.Title = title
	rec.Content = datatypes.JSON(content)
	if err := r.db.WithContext(ctx).Save(rec).Error; err != nil {
		return nil, fmt.Errorf("update resume: %w", err)
	}
	return rec, nil
}

// SetShared 开关分享。第一次开启时生成 UUID 分享 id，之后保持不变。
func (r *ResumeRepository) SetShared(ctx context.Context, id, ownerID uint, shared bool) (*Resume, error) {
	rec, err := r.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{"is_shared": shared}
	if shared && rec.ShareIDValue() == "" {
		shareID := uuid.NewString()
		updates["share_id"] = shareID
		rec.ShareID = &shareID
	}
	if err := r.db.WithContext(ctx).Model(rec).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update share: %w", err)
	}
	rec.IsShared = shared
	return rec, nil
}

// SetExportStatus records the async export state and, on success, the object key.
func (r *ResumeRepository) SetExportStatus(ctx context.Context, id uint, status, objectKey string) error {
	updates := map[string]any{"export_status": status}
	if objectKey != "" {
		updates["pdf_object_key"] = objectKey
	}
	res := r.db.WithContext(ctx).Model(&Resume{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update export status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPreviewImage stores the object key of the rendered preview image.
func (r *ResumeRepository) SetPreviewImage(ctx context.Context, id uint, objectKey string) error {
	err := r.db.WithContext(ctx).Model(&Resume{}).Where("id = ?", id).
		Update("preview_image_url", objectKey).Error
	if err != nil {
		return fmt.Errorf("update preview image: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("query resume: %w", err)
}

// Decode 把数据库记录转换成导出流程使用的快照。
func Decode(rec *Resume) (export.Record, error) {
	doc, err := resume.Decode(rec.Content)
	if err != nil {
		return export.Record{}, err
	}
	return export.Record{
		ID:       rec.ID,
		OwnerID:  rec.UserID,
		ShareID:  rec.ShareIDValue(),
		IsShared: rec.IsShared,
		Title:    rec.Title,
		Resume:   doc,
	}, nil
}

// ExportStore adapts the repository to export.Store.
type ExportStore struct {
	Repo *ResumeRepository
}

func (s ExportStore) Get(ctx context.Context, id uint) (export.Record, error) {
	rec, err := s.Repo.Get(ctx, id)
	if err != nil {
		return export.Record{}, storeError(err)
	}
	return Decode(rec)
}

func (s ExportStore) GetByShareID(ctx context.Context, shareID string) (export.Record, error) {
	rec, err := s.Repo.GetByShareID(ctx, shareID)
	if err != nil {
		return export.Record{}, storeError(err)
	}
	return Decode(rec)
}

func storeError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %v", export.ErrNotFound, err)
	}
	return err
}
