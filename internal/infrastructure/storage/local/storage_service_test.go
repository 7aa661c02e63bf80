package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePageAndGetPage(t *testing.T) {
	svc := NewStorageService(t.TempDir())
	ctx := context.Background()
	docID := uuid.New()

	path, err := svc.StorePage(ctx, docID, 0, strings.NewReader("raster-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(docID.String(), "0.png"), path)

	reader, err := svc.GetPage(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "raster-bytes", string(content))
}

func TestDeleteDocumentRemovesAllPages(t *testing.T) {
	base := t.TempDir()
	svc := NewStorageService(base)
	ctx := context.Background()
	docID := uuid.New()

	for page := 0; page < 3; page++ {
		_, err := svc.StorePage(ctx, docID, page, strings.NewReader("page"))
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteDocument(ctx, docID))

	_, err := os.Stat(filepath.Join(base, docID.String()))
	assert.True(t, os.IsNotExist(err))
}

func TestGetPageMissing(t *testing.T) {
	svc := NewStorageService(t.TempDir())

	_, err := svc.GetPage(context.Background(), "nope/0.png")
	assert.Error(t, err)
}
