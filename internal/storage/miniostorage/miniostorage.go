// Package miniostorage keeps staged upload blobs in a MinIO bucket
package miniostorage

import (
	"context"
	"errors"
	"io"

	"github.com/UnendingLoop/DroneGallery/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"
)

type MinioPendingStorage struct {
	bucket string
	client *minio.Client
}

func NewMinioClient(ctx context.Context, cfg config.MinioConfig) (*MinioPendingStorage, error) {
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "pending-uploads"
		zlog.Logger.Warn().Msgf("Bucket name is empty. Using default value %q...", bucket)
	}

	// подключаемся к минио - создаем клиента
	strg, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Pass, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, err
	}

	// создаем бакет если его нет
	if err := ensureBucket(ctx, strg, bucket); err != nil {
		return nil, err
	}

	return &MinioPendingStorage{bucket: bucket, client: strg}, nil
}

func (s *MinioPendingStorage) Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error {
	if r == nil {
		return errors.New("nil reader passed to storage.Put")
	}

	// размер может быть неизвестен - тогда минио сам режет на части
	if size <= 0 {
		size = -1
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinioPendingStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioPendingStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	res, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}

	stat, err := res.Stat()
	if err != nil {
		_ = res.Close()
		return nil, "", err
	}

	return res, stat.ContentType, nil
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}
