package filestorage

import "io"

// FileInfo describes a stored file
type FileInfo struct {
	Path     string // Path or URL clients use to download the file
	Filename string // Name on disk
	FileSize int64  // Size in bytes
}

// FileStorage stores generated export files
type FileStorage interface {
	// Save writes the content produced by write under subPath with a unique
	// name ending in ext.
	Save(subPath, ext string, write func(w io.Writer) error) (*FileInfo, error)

	// DeleteFile removes a file from storage
	DeleteFile(filePath string) error

	// GetFullPath returns the filesystem path for a stored file path
	GetFullPath(filePath string) string
}
