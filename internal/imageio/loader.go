package imageio

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
)

// Loader resolves an image reference to raw bytes. Implementations are
// external collaborators; the formatting core never calls them.
type Loader interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// EncodeBase64 encodes raw image bytes as a bare base64 string.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// EncodeDataURL encodes raw image bytes as a data URL with the given media
// type. The media type must be in the allow-list.
func EncodeDataURL(data []byte, mediaType string) (string, error) {
	if !allowedMediaTypes[mediaType] {
		return "", &UnsupportedMediaTypeError{MediaType: mediaType}
	}
	return DataURL{MediaType: mediaType, Data: EncodeBase64(data)}.String(), nil
}

// HTTPLoader fetches remote images over HTTP with retries.
type HTTPLoader struct {
	Client   *http.Client
	Attempts uint
	Delay    time.Duration
}

// NewHTTPLoader creates a loader with default timeout and retry settings.
func NewHTTPLoader() *HTTPLoader {
	return &HTTPLoader{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Attempts: 3,
		Delay:    time.Second,
	}
}

// Load fetches the image at a URL.
func (l *HTTPLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("image URL cannot be empty")
	}

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
			if err != nil {
				return err
			}
			resp, err := l.Client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status fetching image: %d", resp.StatusCode)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(l.Attempts),
		retry.Delay(l.Delay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image %s: %w", ref, err)
	}
	return body, nil
}

// FileLoader reads images from the local filesystem.
type FileLoader struct{}

// Load reads the image file at a path.
func (FileLoader) Load(_ context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}
