package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const s3KeyPrefix = "profile-photos/"

// S3Store uploads files to an S3 bucket.
type S3Store struct {
	uploader *s3manager.Uploader
	bucket   string
	region   string
}

var _ Store = (*S3Store)(nil)

// NewS3Store creates an S3 store. Static credentials are used when both keys
// are set; otherwise the default AWS credential chain applies.
func NewS3Store(bucket, region, accessKey, secretKey string) (*S3Store, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create AWS session: %w", err)
	}

	return &S3Store{
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
		region:   region,
	}, nil
}

// Save uploads body under the profile photo prefix.
func (s *S3Store) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key := s3KeyPrefix + name

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
