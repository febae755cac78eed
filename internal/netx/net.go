// Package netx holds small HTTP helpers: presigned object storage downloads
// and browser origin allow-lists.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/filex"
)

// maxDownloadSize caps a downloaded export.
const maxDownloadSize = 64 << 20

// DownloadPresignedURL fetches url and writes the body to path atomically.
// It returns the number of bytes written.
func DownloadPresignedURL(ctx context.Context, url, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return 0, err
	}
	if len(data) > maxDownloadSize {
		return 0, fmt.Errorf("download failed: larger than %d bytes", maxDownloadSize)
	}

	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return 0, err
	}
	return len(data), nil
}
