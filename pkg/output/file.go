package output

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// FileSink writes the image to a local path, creating parent directories
type FileSink struct {
	Path string
}

// NewFileSink checks that path has an encodable extension
func NewFileSink(path string) (*FileSink, error) {
	if _, err := formatFor(path); err != nil {
		return nil, err
	}
	return &FileSink{Path: path}, nil
}

func (f *FileSink) Save(ctx context.Context, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := imaging.Save(img, f.Path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("save %s: %w", f.Path, err)
	}
	logger.Infof("wrote %s (%dx%d)", f.Path, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
