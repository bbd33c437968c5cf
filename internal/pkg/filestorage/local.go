package filestorage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/edumanage/educenter/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // Public prefix the directory is served under
}

// NewLocalStorage creates basePath if needed. baseURL is the URL prefix the
// directory is served under, e.g. "/exports".
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes a new file and returns its accessible path
func (ls *LocalStorage) Save(subPath, ext string, write func(w io.Writer) error) (*FileInfo, error) {
	dir := ls.basePath
	if subPath != "" {
		dir = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
			return nil, fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	filename := uuid.New().String() + "." + strings.TrimPrefix(ext, ".")
	dstPath := filepath.Join(dir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}

	if err := write(dst); err != nil {
		dst.Close()
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to write file content: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	stat, err := os.Stat(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat saved file: %w", err)
	}

	info := &FileInfo{
		Path:     path.Join(ls.baseURL, filepath.ToSlash(subPath), filename),
		Filename: filename,
		FileSize: stat.Size(),
	}
	if ls.baseURL == "" {
		info.Path = path.Join(filepath.ToSlash(subPath), filename)
	}

	logger.Info().Str("saved_as", dstPath).Int64("size", info.FileSize).Msg("File saved successfully")
	return info, nil
}

// DeleteFile removes a file previously returned by Save. Missing files are not an error.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	physicalPath := ls.GetFullPath(filePath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath maps a stored path back to the filesystem. Paths escaping the
// base directory yield "".
func (ls *LocalStorage) GetFullPath(filePath string) string {
	rel := strings.TrimPrefix(filePath, ls.baseURL)
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if rel == "" || rel == "." {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel))
}
