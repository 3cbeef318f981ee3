package storage

import (
	"errors"
	"net/http"

	"github.com/minio/minio-go/v7"
)

// IsNoSuchKey reports whether err means the object (or its bucket) is gone.
func IsNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return resp.StatusCode == http.StatusNotFound
}
