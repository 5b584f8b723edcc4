package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorageClient writes uploads to a directory on disk. It backs the
// same interface as the GCS client for development and tests; the directory
// is served by the HTTP layer under /uploads.
type LocalStorageClient struct {
	baseDir string
	baseURL string
}

func NewLocalStorageClient(baseDir, baseURL string) (*LocalStorageClient, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %v", err)
	}

	return &LocalStorageClient{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (c *LocalStorageClient) UploadFile(ctx context.Context, file io.Reader, fileType, folder string) (string, error) {
	folder = filepath.Base(folder)
	if err := os.MkdirAll(filepath.Join(c.baseDir, folder), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %v", err)
	}

	name := fmt.Sprintf("%s-%s%s", uuid.New().String(), time.Now().Format("20060102150405"), extensionFor(fileType))
	path := filepath.Join(c.baseDir, folder, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %v", err)
	}

	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %v", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close upload file: %v", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", c.baseURL, folder, name), nil
}
