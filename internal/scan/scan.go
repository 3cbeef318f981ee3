// Package scan checks uploaded resume photos with clamd before they are stored.
package scan

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dutchcoders/go-clamd"
)

// MaxPhotoBytes 限制解码后的照片大小。
const MaxPhotoBytes = 2 * 1024 * 1024

var (
	ErrInfected       = errors.New("malicious file detected")
	ErrMalformedPhoto = errors.New("malformed photo data uri")
	ErrPhotoTooLarge  = errors.New("photo too large")
)

// Scanner 对一段数据做病毒扫描，发现威胁时返回 ErrInfected。
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) error
}

// Clamd 通过 clamd 守护进程的 INSTREAM 命令扫描。
type Clamd struct {
	client *clamd.Clamd
}

// NewClamd returns nil when addr is empty; callers treat a nil scanner as "scanning disabled".
func NewClamd(addr string) *Clamd {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	return &Clamd{client: clamd.NewClamd(addr)}
}

// Scan 把数据流交给 clamd，ctx 取消时中止扫描。
func (s *Clamd) Scan(ctx context.Context, r io.Reader) error {
	if s == nil {
		return nil
	}
	// 关闭 abort 会断开 clamd 连接。
	abort := make(chan bool)
	defer close(abort)
	results, err := s.client.ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}

	var scanErr error
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result, ok := <-results:
			if !ok {
				return scanErr
			}
			switch result.Status {
			case clamd.RES_OK:
			case clamd.RES_FOUND:
				scanErr = fmt.Errorf("%w: %s", ErrInfected, result.Description)
			default:
				if scanErr == nil {
					scanErr = fmt.Errorf("clamd status %s: %s", result.Status, result.Description)
				}
			}
		}
	}
}

// DecodePhoto 解析 data:image/...;base64, 形式的照片，返回原始字节和 MIME 类型。
func DecodePhoto(dataURI string) ([]byte, string, error) {
	dataURI = strings.TrimSpace(dataURI)
	header, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(strings.ToLower(header), "data:image/") {
		return nil, "", ErrMalformedPhoto
	}
	mime, params, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	if !strings.EqualFold(params, "base64") {
		return nil, "", ErrMalformedPhoto
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxPhotoBytes+3 {
		return nil, "", ErrPhotoTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedPhoto, err)
	}
	if len(data) > MaxPhotoBytes {
		return nil, "", ErrPhotoTooLarge
	}
	return data, strings.ToLower(mime), nil
}

// Photo 校验并扫描简历中的照片。photo 为空时直接通过；scanner 为 nil 时只做格式校验。
func Photo(ctx context.Context, scanner Scanner, photo string) error {
	if strings.TrimSpace(photo) == "" {
		return nil
	}
	data, _, err := DecodePhoto(photo)
	if err != nil {
		return err
	}
	if scanner == nil {
		return nil
	}
	return scanner.Scan(ctx, bytes.NewReader(data))
}
