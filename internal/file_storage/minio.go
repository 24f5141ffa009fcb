package filestorage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"time"

	"github.com/SeakMengs/BizCard/internal/config"
	"github.com/SeakMengs/BizCard/internal/util"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

// Storage uploads generated cards and hands out presigned links to them.
type Storage struct {
	S3        *minio.Client
	Bucket    string
	URLExpiry time.Duration
}

type UploadedFile struct {
	ObjectName string `json:"objectName"`
	Size       int64  `json:"size"`
	URL        string `json:"url"`
}

func NewStorage(cfg *config.MinioConfig) (*Storage, error) {
	client, err := NewMinioClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Storage{
		S3:        client,
		Bucket:    cfg.BUCKET,
		URLExpiry: cfg.URL_EXPIRY,
	}, nil
}

func (s *Storage) createBucketIfNotExists(ctx context.Context) error {
	exists, err := s.S3.BucketExists(ctx, s.Bucket)
	if err != nil {
		return err
	}

	if !exists {
		if err := s.S3.MakeBucket(ctx, s.Bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}

	return nil
}

// ObjectName is where a local file is stored, e.g. "cards/V1StGXR8_Z5j_SON_Edited_Card.pdf".
func ObjectName(directory, localPath string) (string, error) {
	name, err := util.AddUniquePrefixToFileName(localPath)
	if err != nil {
		return "", err
	}
	if directory == "" {
		return name, nil
	}
	return path.Join(directory, name), nil
}

// UploadFile puts a local file in the bucket and returns a presigned GET url for it.
func (s *Storage) UploadFile(ctx context.Context, localPath, directory string) (*UploadedFile, error) {
	if err := s.createBucketIfNotExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	objectName, err := ObjectName(directory, localPath)
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.S3.FPutObject(ctx, s.Bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	presigned, err := s.S3.PresignedGetObject(ctx, s.Bucket, objectName, s.URLExpiry, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to presign %s: %w", objectName, err)
	}

	return &UploadedFile{
		ObjectName: objectName,
		Size:       info.Size,
		URL:        presigned.String(),
	}, nil
}
