// Package blob stores supporting documents and payment proofs in an
// S3-compatible backend. The database keeps only the storage key; uploads and
// downloads go through presigned URLs so file bytes never pass through the
// server.
package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fmbakop/cotisio/internal/server/config"
)

const presignValidity = 15 * time.Minute

// Key prefixes mirror the two document categories handled by the system.
const (
	PrefixSupportingDocuments = "supporting_documents"
	PrefixPaymentProofs       = "payment_proofs"
)

type Store struct {
	bucket       string
	region       string
	baseEndpoint string
	user         string
	password     string
}

func NewStore(cfg *config.Config) *Store {
	return &Store{
		bucket:       cfg.S3Bucket,
		region:       cfg.S3Region,
		baseEndpoint: cfg.S3BaseEndpoint,
		user:         cfg.S3RootUser,
		password:     cfg.S3RootPassword,
	}
}

// StorageKey generates a collision-free object key under the given prefix,
// partitioned by year/month like the original document tree.
func StorageKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%v", prefix, now.Year(), now.Month(), uuid.New())
}

func (s *Store) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(s.region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.user,
			s.password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.baseEndpoint)
	})

	return s3.NewPresignClient(client), nil
}

// PresignPut returns a storage key under prefix and a URL the client can PUT
// the file bytes to.
func (s *Store) PresignPut(ctx context.Context, prefix string) (string, string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	key := StorageKey(prefix, time.Now())

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignGet returns a URL the client can GET the stored file from.
func (s *Store) PresignGet(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
