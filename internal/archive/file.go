package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
)

// FileSink writes documents below a directory of an afero filesystem.
type FileSink struct {
	fs     afero.Fs
	dir    string
	logger hclog.Logger
}

var _ Sink = (*FileSink)(nil)

// NewFileSink creates a sink rooted at dir. A nil fs uses the OS filesystem.
func NewFileSink(fs afero.Fs, dir string, logger hclog.Logger) *FileSink {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FileSink{
		fs:     fs,
		dir:    dir,
		logger: logger.Named("file-archive"),
	}
}

// Put writes data to dir/name, creating parent directories as needed. An
// existing file is replaced.
func (s *FileSink) Put(_ context.Context, name string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Debug("document archived", "path", path, "bytes", len(data))
	return path, nil
}
