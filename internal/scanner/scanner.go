package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/snaptext/snaptext/pkg/logger"
)

// InputFile is a capture candidate found on disk.
type InputFile struct {
	AbsolutePath string
	RelativePath string
}

var inputExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(log *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{logger: log}
}

// FindInputs walks dir collecting images and PDFs. Unreadable entries are
// logged and skipped; an empty result is an error.
func (s *DirectoryScanner) FindInputs(ctx context.Context, dir string) ([]InputFile, error) {
	var inputs []InputFile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			s.logger.Warn("Skipping %s: %v", path, err)
			return nil
		}

		if info.IsDir() {
			s.logger.Debug("Scanning directory: %s", path)
			return nil
		}

		if !inputExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			relPath = path
		}

		inputs = append(inputs, InputFile{
			AbsolutePath: path,
			RelativePath: relPath,
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no image or PDF files found in %s or its subdirectories", dir)
	}

	return inputs, nil
}
