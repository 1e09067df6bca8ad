package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/disintegration/imaging"
)

// UploadTimeout bounds a single upload
const UploadTimeout = 30 * time.Second

// S3Config holds static credentials for an S3 compatible endpoint. An empty
// Endpoint means AWS itself.
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
}

// S3ConfigFromEnv reads S3_ACCESS_KEY, S3_SECRET_KEY, S3_ENDPOINT and
// S3_REGION
func S3ConfigFromEnv() S3Config {
	return S3Config{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    os.Getenv("S3_REGION"),
	}
}

// S3Sink uploads the encoded image as a single object
type S3Sink struct {
	client s3iface.S3API
	Bucket string
	Key    string
	format imaging.Format
}

// NewS3Sink opens a session for cfg. The key's extension picks the format.
func NewS3Sink(cfg S3Config, bucket, key string) (*S3Sink, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return newS3Sink(s3.New(sess), bucket, key)
}

func newS3Sink(client s3iface.S3API, bucket, key string) (*S3Sink, error) {
	if bucket == "" || key == "" {
		return nil, ErrMissingBucket
	}
	format, err := formatFor(key)
	if err != nil {
		return nil, err
	}
	return &S3Sink{client: client, Bucket: bucket, Key: key, format: format}, nil
}

func (s *S3Sink) Save(ctx context.Context, img image.Image) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, s.format, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("encode %s: %w", s.Key, err)
	}

	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(buf.Len())
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(s.Key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType(s.format)),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	logger.Infof("uploaded s3://%s/%s (%d bytes)", s.Bucket, s.Key, size)
	return nil
}
