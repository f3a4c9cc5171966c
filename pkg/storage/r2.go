package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// objectPutter is the subset of *s3.Client used here.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Storage archives payment proofs in a Cloudflare R2 bucket through the S3 API.
type R2Storage struct {
	client        objectPutter
	bucketName    string
	publicURL     string
	uploadTimeout time.Duration
}

func NewR2Storage(ctx context.Context, accountId, accessKey, secretKey, bucketName, publicURL string, uploadTimeout time.Duration) (*R2Storage, error) {
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountId),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return newR2Storage(client, bucketName, publicURL, uploadTimeout), nil
}

func newR2Storage(client objectPutter, bucketName, publicURL string, uploadTimeout time.Duration) *R2Storage {
	return &R2Storage{
		client:        client,
		bucketName:    bucketName,
		publicURL:     strings.TrimSuffix(publicURL, "/"),
		uploadTimeout: uploadTimeout,
	}
}

// ArchiveProof re-encodes a payment proof and uploads it, returning the public URL.
// Proofs that cannot be decoded are stored unchanged.
func (s *R2Storage) ArchiveProof(ctx context.Context, proof *domain.Attachment) (string, error) {
	data, contentType := proof.Data, proof.ContentType
	if processed, ct, err := utils.ProcessImage(bytes.NewReader(proof.Data), proof.Filename); err == nil {
		data, contentType = processed, ct
	}
	return s.UploadBuffer(ctx, data, contentType)
}

// UploadBuffer uploads a byte slice under payment-proofs/ and returns its public URL
func (s *R2Storage) UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := ".bin"
	switch contentType {
	case "image/webp":
		ext = ".webp"
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	}

	key := fmt.Sprintf("payment-proofs/%s/%s%s", time.Now().UTC().Format("2006-01-02"), uuid.NewString(), ext)

	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	_, err := s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload buffer to R2: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
