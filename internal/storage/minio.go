package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"cvrender/internal/config"
)

const bucketCheckTimeout = 5 * time.Second

// Client 封装 MinIO 客户端，存放导出的 PDF 和预览图。
// 上传和查询走内网地址，预签名链接用浏览器可访问的公网地址签发。
type Client struct {
	internal *minio.Client
	public   *minio.Client
	bucket   string
}

// NewClient 根据配置初始化 MinIO 客户端，并确保目标 Bucket 存在。
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	lookup, err := bucketLookup(cfg.BucketLookup)
	if err != nil {
		return nil, err
	}

	internal, err := newMinio(cfg, cfg.Endpoint, cfg.UseSSL, lookup)
	if err != nil {
		return nil, fmt.Errorf("init internal minio client: %w", err)
	}

	publicURL, err := url.Parse(cfg.PublicEndpoint)
	if err != nil || publicURL.Host == "" {
		return nil, fmt.Errorf("invalid minio public endpoint %q", cfg.PublicEndpoint)
	}
	public, err := newMinio(cfg, publicURL.Host, publicURL.Scheme == "https", lookup)
	if err != nil {
		return nil, fmt.Errorf("init public minio client: %w", err)
	}

	c := &Client{internal: internal, public: public, bucket: cfg.Bucket}
	if err := c.ensureBucket(cfg.Region, cfg.AutoCreateBucket); err != nil {
		return nil, err
	}
	return c, nil
}

func bucketLookup(raw string) (minio.BucketLookupType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto":
		return minio.BucketLookupAuto, nil
	case "dns":
		return minio.BucketLookupDNS, nil
	case "path":
		return minio.BucketLookupPath, nil
	}
	return minio.BucketLookupAuto, fmt.Errorf("invalid minio bucket lookup %q", raw)
}

func newMinio(cfg config.MinIOConfig, endpoint string, secure bool, lookup minio.BucketLookupType) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
}

func (c *Client) ensureBucket(region string, autoCreate bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), bucketCheckTimeout)
	defer cancel()

	exists, err := c.internal.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", c.bucket, err)
	}
	if exists {
		return nil
	}
	if !autoCreate {
		return fmt.Errorf("bucket %q does not exist (auto create disabled)", c.bucket)
	}
	if err := c.internal.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("make bucket %q: %w", c.bucket, err)
	}
	return nil
}

// UploadBytes 上传导出的 PDF 或预览图。同名对象会被覆盖。
func (c *Client) UploadBytes(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := c.internal.PutObject(ctx, c.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "private, no-store",
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", objectName, err)
	}
	return nil
}

// ObjectExists 检查对象是否仍在，用于签发下载链接前确认导出文件没有被清理。
func (c *Client) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	_, err := c.internal.StatObject(ctx, c.bucket, objectKey, minio.StatObjectOptions{})
	switch {
	case err == nil:
		return true, nil
	case IsNoSuchKey(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat object %q: %w", objectKey, err)
	}
}

// GeneratePresignedURLWithParams 生成带自定义响应参数的限时下载链接。
func (c *Client) GeneratePresignedURLWithParams(ctx context.Context, objectKey string, duration time.Duration, params map[string]string) (string, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	signed, err := c.public.PresignedGetObject(ctx, c.bucket, objectKey, duration, query)
	if err != nil {
		return "", fmt.Errorf("presign %q: %w", objectKey, err)
	}
	return signed.String(), nil
}
