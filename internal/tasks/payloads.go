package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeResumeExport = "resume:export"
)

// ExportMaxRetry 是导出任务的最大重试次数，最后一次失败才通知用户。
const ExportMaxRetry = 3

// ResumeExportPayload 描述异步导出 PDF 所需的最小信息。
type ResumeExportPayload struct {
	ResumeID      uint   `json:"resume_id"`
	OwnerID       uint   `json:"owner_id"`
	Locale        string `json:"locale"`
	CorrelationID string `json:"correlation_id"`
}

// NewResumeExportTask 构造一个新的简历导出任务。
func NewResumeExportTask(p ResumeExportPayload) (*asynq.Task, error) {
	if p.ResumeID == 0 {
		return nil, fmt.Errorf("resume id missing")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResumeExport, payload, asynq.MaxRetry(ExportMaxRetry)), nil
}

// ParseResumeExportPayload 解析任务负载。
func ParseResumeExportPayload(t *asynq.Task) (ResumeExportPayload, error) {
	var p ResumeExportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal export payload: %w", err)
	}
	return p, nil
}
