// Package s3backup sube respaldos a un bucket S3 (o compatible: R2, MinIO).
package s3backup

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jhoicas/conversion-pro/pkg/config"
)

// PutObjectAPI subconjunto del cliente S3 que usa el uploader.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader implementa backup.Uploader.
type Uploader struct {
	client PutObjectAPI
	bucket string
}

// New crea el cliente S3. Con Endpoint se usa path-style (MinIO, R2).
// Sin AccessKey se usa la cadena de credenciales por defecto de AWS.
func New(ctx context.Context, cfg config.BackupConfig) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3backup: cargar configuración AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg.Bucket), nil
}

// NewWithClient usa un cliente ya construido (tests).
func NewWithClient(client PutObjectAPI, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// Bucket nombre del bucket destino.
func (u *Uploader) Bucket() string { return u.bucket }

// Put sube body bajo key.
func (u *Uploader) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		StorageClass: types.StorageClassStandardIa,
	})
	if err != nil {
		return fmt.Errorf("s3backup: subir s3://%s/%s: %w", u.bucket, key, err)
	}
	return nil
}
