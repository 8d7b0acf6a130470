package contract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Fetcher opens files referenced by a data contract. References are URLs,
// absolute paths or paths relative to the contract directory.
type Fetcher struct {
	baseDir    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewFetcher creates a Fetcher resolving relative references against baseDir
func NewFetcher(baseDir string, log zerolog.Logger) *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
	}
	return &Fetcher{
		baseDir:    baseDir,
		httpClient: retryClient.StandardClient(),
		log:        log,
	}
}

// BaseDir returns the directory relative references are resolved against
func (f *Fetcher) BaseDir() string {
	return f.baseDir
}

// IsURL reports whether ref has a remote scheme
func IsURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

// Resolve returns the location ref points to
func (f *Fetcher) Resolve(ref string) string {
	if IsURL(ref) || filepath.IsAbs(ref) {
		return ref
	}
	if IsURL(f.baseDir) {
		return strings.TrimSuffix(f.baseDir, "/") + "/" + ref
	}
	return filepath.Join(f.baseDir, ref)
}

// Open returns a reader for ref. The caller closes it.
func (f *Fetcher) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	location := f.Resolve(ref)
	if !IsURL(location) {
		return os.Open(location)
	}

	f.log.Debug().Str("url", location).Msg("Fetching remote file")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: status %d", location, resp.StatusCode)
	}
	return resp.Body, nil
}

// ReadAll reads the whole content of ref
func (f *Fetcher) ReadAll(ctx context.Context, ref string) ([]byte, error) {
	rc, err := f.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
