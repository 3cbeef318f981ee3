package resume

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// ErrInvalidDocument 表示简历 JSON 无法通过结构校验。
var ErrInvalidDocument = errors.New("invalid resume document")

// Decode 解析存储的 JSON。未知的分区 key 会被丢弃，模板只会看到封闭枚举中的 key。
func Decode(raw []byte) (Resume, error) {
	var r Resume
	if len(strings.TrimSpace(string(raw))) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return Resume{}, fmt.Errorf("decode resume: %w", err)
	}
	for key := range r.SectionsVisibility {
		if !key.Valid() {
			delete(r.SectionsVisibility, key)
		}
	}
	return r, nil
}

// Validate checks raw against the embedded JSON schema. It is applied when a
// resume is saved; rendering never depends on it.
func Validate(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}
