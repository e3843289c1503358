package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Uploader is the subset of the S3 client used by S3Store.
type s3Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads media objects to an S3 bucket.
type S3Store struct {
	client        s3Uploader
	bucket        string
	prefix        string
	publicBaseURL string
	region        string
}

// NewS3Store creates an S3-backed store using the ambient AWS credential
// chain. publicBaseURL overrides the default virtual-hosted object URL when
// media is served through a CDN.
func NewS3Store(ctx context.Context, bucket, prefix, publicBaseURL, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		prefix:        strings.Trim(prefix, "/"),
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		region:        region,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	name, err := mediaFileName(data, contentType)
	if err != nil {
		return "", err
	}

	key := name
	if s.prefix != "" {
		key = s.prefix + "/" + name
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put media object: %w", err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
