package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StorageService keeps rendered page rasters on the local filesystem, one
// directory per document, one file per page index.
type StorageService struct {
	basePath string
}

func NewStorageService(basePath string) *StorageService {
	return &StorageService{
		basePath: basePath,
	}
}

// StorePage writes one rendered page and returns the path to serve it from,
// relative to the base directory.
func (s *StorageService) StorePage(ctx context.Context, documentID uuid.UUID, pageIndex int, content io.Reader) (string, error) {
	docDir := filepath.Join(s.basePath, documentID.String())
	if err := os.MkdirAll(docDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}

	fileName := fmt.Sprintf("%d.png", pageIndex)
	filePath := filepath.Join(docDir, fileName)

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create page file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write page content: %w", err)
	}

	return filepath.Join(documentID.String(), fileName), nil
}

// GetPage opens one stored page raster.
func (s *StorageService) GetPage(ctx context.Context, path string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, path)

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open page file: %w", err)
	}

	return file, nil
}

// DeleteDocument removes every stored page for the document.
func (s *StorageService) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	docDir := filepath.Join(s.basePath, documentID.String())
	if err := os.RemoveAll(docDir); err != nil {
		return fmt.Errorf("failed to delete document pages: %w", err)
	}
	return nil
}

// BasePath returns the directory the rasters live under, for static serving.
func (s *StorageService) BasePath() string {
	return s.basePath
}
