package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"booth-service/internal/config"
	"booth-service/internal/infra/cache"
	"booth-service/internal/storage"
	"booth-service/pkg/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	emptyAWSSessionToken = ""
	deleteBatchSize      = 1000
	listPageSize         = 1000
	presignCacheMargin   = 30 * time.Second

	errFailedCreateAWSSessionFmt     = "failed to create AWS session: %w"
	errFailedUploadObjectFmt         = "failed to upload object: %w"
	errFailedGetObjectFmt            = "failed to get object: %w"
	errFailedReadObjectFmt           = "failed to read object body: %w"
	errFailedGeneratePresignedURLFmt = "failed to generate presigned download URL: %w"
	errFailedListObjectsFmt          = "failed to list objects: %w"
	errCodeNotFound                  = "NotFound"
)

var _ storage.ObjectStore = (*Client)(nil)

// Client is the S3 backed ObjectStore.
type Client struct {
	svc          *s3.S3
	bucket       string
	publicURL    string
	cache        cache.URLCache
	deleteObject func(ctx context.Context, keys []string) (deleted []string, failed []string, err error)
}

func NewClient(cfg *config.StorageConfig, urlCache cache.URLCache) (*Client, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		)
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}

	c := &Client{
		svc:       s3.New(sess),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		cache:     urlCache,
	}
	c.deleteObject = c.deleteObjects
	return c, nil
}

func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType, cacheControl string) (storage.UploadResult, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}
	if cacheControl != "" {
		input.CacheControl = aws.String(cacheControl)
	}

	if _, err := c.svc.PutObjectWithContext(ctx, input); err != nil {
		return storage.UploadResult{}, fmt.Errorf(errFailedUploadObjectFmt, err)
	}

	if c.cache != nil {
		c.cache.Delete(ctx, key)
	}

	result := storage.UploadResult{Key: key}
	if c.publicURL != "" {
		result.URL = c.publicURL + "/" + key
	}
	return result, nil
}

func (c *Client) Fetch(ctx context.Context, key string) (storage.Object, error) {
	out, err := c.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return storage.Object{}, storage.ErrObjectNotFound
		}
		return storage.Object{}, fmt.Errorf(errFailedGetObjectFmt, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return storage.Object{}, fmt.Errorf(errFailedReadObjectFmt, err)
	}

	return storage.Object{
		Data:        data,
		ContentType: aws.StringValue(out.ContentType),
	}, nil
}

// DeleteMany never aborts on a single key. Keys that fail are logged and
// returned in BatchResult.Failed.
func (c *Client) DeleteMany(ctx context.Context, keys []string) storage.BatchResult {
	var result storage.BatchResult
	log := logger.WithComponent("s3")

	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))
		chunk := keys[start:end]

		deleted, failed, err := c.deleteObject(ctx, chunk)
		if err != nil {
			log.Warn("batch delete failed", "keys", len(chunk), "error", err)
			result.Merge(storage.BatchResult{Failed: chunk})
			continue
		}
		for _, key := range failed {
			log.Warn("object delete failed", "key", key)
		}
		result.Merge(storage.BatchResult{Succeeded: deleted, Failed: failed})
	}

	if c.cache != nil && len(result.Succeeded) > 0 {
		c.cache.Delete(ctx, result.Succeeded...)
	}
	return result
}

func (c *Client) deleteObjects(ctx context.Context, keys []string) ([]string, []string, error) {
	objects := make([]*s3.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := c.svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(c.bucket),
		Delete: &s3.Delete{
			Objects: objects,
			Quiet:   aws.Bool(false),
		},
	})
	if err != nil {
		return nil, nil, err
	}

	failedSet := make(map[string]bool, len(out.Errors))
	failed := make([]string, 0, len(out.Errors))
	for _, e := range out.Errors {
		key := aws.StringValue(e.Key)
		failedSet[key] = true
		failed = append(failed, key)
	}

	deleted := make([]string, 0, len(keys))
	for _, key := range keys {
		if !failedSet[key] {
			deleted = append(deleted, key)
		}
	}
	return deleted, failed, nil
}

func (c *Client) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if c.cache != nil {
		if url, ok := c.cache.Get(ctx, key); ok {
			return url, nil
		}
	}

	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf(errFailedGeneratePresignedURLFmt, err)
	}

	if c.cache != nil && ttl > presignCacheMargin {
		c.cache.Set(ctx, key, url, time.Now().Add(ttl-presignCacheMargin))
	}
	return url, nil
}

func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimRight(prefix, "/") + "/"

	var keys []string
	err := c.svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int64(listPageSize),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf(errFailedListObjectsFmt, err)
	}
	return keys, nil
}

func (c *Client) DeletePrefix(ctx context.Context, prefix string) storage.BatchResult {
	keys, err := c.List(ctx, prefix)
	if err != nil {
		logger.WithComponent("s3").Warn("prefix listing failed", "prefix", prefix, "error", err)
		return storage.BatchResult{Failed: []string{prefix}}
	}
	return c.DeleteMany(ctx, keys)
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, errCodeNotFound:
			return true
		}
	}
	return false
}
