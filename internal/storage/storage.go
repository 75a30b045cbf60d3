package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/config"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned when a file id does not resolve to an object
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is a folder-organized file host. Folder and file ids are opaque
// to callers; PublicURL derives a link from a file id alone.
type ObjectStore interface {
	// EnsureFolder returns the id of the folder named name under parentID,
	// creating it when missing. An empty parentID means the store root.
	EnsureFolder(ctx context.Context, name, parentID string) (string, error)
	Upload(ctx context.Context, folderID, filename, contentType string, data io.Reader) (string, int64, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileID string) error
	PublicURL(fileID string) string
}

// NewObjectStore creates the store selected by configuration: the local
// filesystem or Azure Blob Storage.
func NewObjectStore(cfg *config.StorageConfig, logger *zap.Logger) (ObjectStore, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalStorage(cfg.LocalBasePath, cfg.PublicBaseURL)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// folderName validates a single folder name
func folderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("invalid folder name %q", name)
	}
	return name, nil
}

// objectName builds a unique object name keeping the original extension
func objectName(folderID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(folderID, uuid.New().String()+ext)
}

// escapePath escapes each segment of a slash-separated id for use in a URL
func escapePath(id string) string {
	segments := strings.Split(id, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// ============================================================================
// Local filesystem
// ============================================================================

// LocalStorage keeps folders as directories under basePath. Ids are
// slash-separated paths relative to basePath.
type LocalStorage struct {
	basePath      string
	publicBaseURL string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath, publicBaseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{
		basePath:      basePath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// resolve maps an id to a path inside basePath, rejecting escapes
func (s *LocalStorage) resolve(id string) (string, error) {
	clean := path.Clean("/" + id)
	if clean == "/" {
		return s.basePath, nil
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean[1:])), nil
}

// EnsureFolder creates a directory under parentID
func (s *LocalStorage) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	name, err := folderName(name)
	if err != nil {
		return "", err
	}
	id := path.Join(strings.Trim(parentID, "/"), name)
	dir, err := s.resolve(id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return id, nil
}

// Upload writes data to a new file inside folderID
func (s *LocalStorage) Upload(ctx context.Context, folderID, filename, contentType string, data io.Reader) (string, int64, error) {
	dir, err := s.resolve(folderID)
	if err != nil {
		return "", 0, err
	}
	if _, err := os.Stat(dir); err != nil {
		return "", 0, fmt.Errorf("folder %q does not exist: %w", folderID, err)
	}

	fileID := objectName(strings.Trim(folderID, "/"), filename)
	fullPath, err := s.resolve(fileID)
	if err != nil {
		return "", 0, err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return fileID, size, nil
}

// Download opens a stored file
func (s *LocalStorage) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(fileID)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, fileID)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, fileID)
	}

	return os.Open(fullPath)
}

// Delete removes a stored file; deleting a missing file is not an error
func (s *LocalStorage) Delete(ctx context.Context, fileID string) error {
	fullPath, err := s.resolve(fileID)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL links to the file through the API's /files route
func (s *LocalStorage) PublicURL(fileID string) string {
	return s.publicBaseURL + "/" + escapePath(fileID)
}
