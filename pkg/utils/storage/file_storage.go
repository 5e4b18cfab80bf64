package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	appconfig "crmestate_backend/pkg/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	client *s3.Client
	cfg    appconfig.StorageConfig
)

// Init builds the S3 client once at startup. Works against AWS or any
// S3-compatible endpoint (endpoint override in config).
func Init(storageCfg appconfig.StorageConfig) error {
	cfg = storageCfg

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %v", err)
	}

	client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return nil
}

// PhotoKey builds the object key for a listing photo.
func PhotoKey(propertySlug, filename string) string {
	return objectKey("properties", propertySlug, filename)
}

// AvatarKey builds the object key for a user avatar.
func AvatarKey(username, filename string) string {
	return objectKey("avatars", username, filename)
}

func objectKey(prefix, owner, filename string) string {
	ext := filepath.Ext(filename)
	unique := fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.New().String())
	return filepath.Join(prefix, slug.Make(owner), unique+ext)
}

// Upload stores the object and returns its public URL.
func Upload(key string, body io.Reader, contentType string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("storage not initialized")
	}

	_, err := client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload object: %v", err)
	}

	if cfg.PublicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.PublicURL, "/"), key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key), nil
}

// Delete removes the object behind a previously returned public URL.
func Delete(publicURL string) error {
	if client == nil {
		return fmt.Errorf("storage not initialized")
	}

	u, err := url.Parse(publicURL)
	if err != nil {
		return fmt.Errorf("invalid object URL: %v", err)
	}
	key := strings.TrimPrefix(u.Path, "/")

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(key),
	})
	return err
}
