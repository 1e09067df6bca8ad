// Package output persists rendered images to local files or an S3
// compatible object store.
package output

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/df07/go-kd-pathtracer/pkg/log"
)

var logger = log.New("output")

var (
	ErrUnsupportedFormat = errors.New("output: unsupported image format")
	ErrMissingBucket     = errors.New("output: s3 target needs a bucket and a key")
)

// Sink stores a finished image
type Sink interface {
	Save(ctx context.Context, img image.Image) error
}

// New returns the sink for target: an s3://bucket/key URL uploads with
// cfg, anything else is a local path. The image format follows the file
// extension.
func New(target string, cfg S3Config) (Sink, error) {
	if strings.HasPrefix(target, "s3://") {
		bucket, key, err := parseS3URL(target)
		if err != nil {
			return nil, err
		}
		return NewS3Sink(cfg, bucket, key)
	}
	return NewFileSink(target)
}

// formatFor maps a file name to an encoder format
func formatFor(name string) (imaging.Format, error) {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return format, nil
}

func contentType(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	}
	return "image/png"
}

func parseS3URL(target string) (bucket, key string, err error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", target, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMissingBucket, target)
	}
	return bucket, key, nil
}
