package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ExportObjectKey 为一次导出生成唯一对象名：exports/<owner>/<uuid>.pdf。
func ExportObjectKey(ownerID uint) string {
	return fmt.Sprintf("exports/%d/%s.pdf", ownerID, uuid.NewString())
}

// PreviewObjectKey is the fixed location of a resume's preview image.
func PreviewObjectKey(resumeID uint) string {
	return fmt.Sprintf("thumbnails/resume/%d/preview.jpg", resumeID)
}

// OwnsExport reports whether key is an export object of owner. Keys are
// checked before presigning so a record can never point at foreign objects.
func OwnsExport(ownerID uint, key string) bool {
	prefix := fmt.Sprintf("exports/%d/", ownerID)
	if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, ".pdf") {
		return false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(key, prefix), ".pdf")
	_, err := uuid.Parse(name)
	return err == nil && !strings.Contains(name, "/")
}
