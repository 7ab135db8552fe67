package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry describes a locally available copy of a resource.
type Entry struct {
	// Resource is the locator the entry was resolved from.
	Resource string `json:"resource"`

	// Path is the local file holding the resource contents.
	Path string `json:"path"`

	// CreatedAt is when the local copy was fetched. For local resources it
	// is the file's modification time.
	CreatedAt time.Time `json:"fetched_at"`

	// ETag is the validator returned by the server, if any.
	ETag string `json:"etag,omitempty"`

	// LastModified is the Last-Modified header returned by the server, if any.
	LastModified string `json:"last_modified,omitempty"`
}

// Cache resolves resource locators to local files, downloading remote
// resources into a cache directory and reusing them until the server
// reports a new version.
//
// Each remote resource is stored as two files named after the SHA-256 hash
// of its URL: the data itself and a JSON sidecar holding the Entry.
//
// A Cache may be shared by several goroutines; concurrent resolutions of the
// same URL share one download.
type Cache struct {
	dir       string
	client    *http.Client
	offline   bool
	freshness time.Duration
	proxy     string
	logger    *slog.Logger
	group     singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithDir sets the cache directory.
func WithDir(dir string) Option {
	return func(c *Cache) {
		c.dir = dir
	}
}

// WithHTTPClient replaces the HTTP client used for downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) {
		c.client = client
	}
}

// WithOffline forbids network access. Remote resources resolve only when a
// cached copy already exists.
func WithOffline(offline bool) Option {
	return func(c *Cache) {
		c.offline = offline
	}
}

// WithFreshnessLifetime trusts a cached copy younger than d without asking
// the server. Zero means always revalidate.
func WithFreshnessLifetime(d time.Duration) Option {
	return func(c *Cache) {
		c.freshness = d
	}
}

// WithProxy routes downloads through an http, https or socks5 proxy.
// It is ignored when WithHTTPClient is also given.
func WithProxy(proxyURL string) Option {
	return func(c *Cache) {
		c.proxy = proxyURL
	}
}

// WithLogger sets the logger used for cache decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a Cache. The cache directory is created if needed; failing to
// create it, or an invalid proxy URL, is returned as an error.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.dir == "" {
		return nil, ErrNoCacheDir
	}
	if c.freshness < 0 {
		return nil, fmt.Errorf("invalid freshness lifetime %s", c.freshness)
	}
	if err := os.MkdirAll(c.dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	if c.client == nil {
		transport, err := newTransport(c.proxy)
		if err != nil {
			return nil, err
		}
		c.client = &http.Client{Transport: transport}
	}
	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// CachedPath returns a local copy of resource.
//
// Local paths and file:// URLs are returned as they are. http and https
// URLs are downloaded into the cache directory unless a cached copy is
// still current.
func (c *Cache) CachedPath(ctx context.Context, resource string) (*Entry, error) {
	u, err := url.Parse(resource)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// No scheme, or a Windows drive letter.
		return localEntry(resource, resource)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return localEntry(resource, u.Path)
	case "http", "https":
		v, err, _ := c.group.Do(resource, func() (any, error) {
			return c.remote(ctx, resource)
		})
		if err != nil {
			return nil, err
		}
		return v.(*Entry), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

func localEntry(resource, path string) (*Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return &Entry{Resource: resource, Path: path, CreatedAt: info.ModTime()}, nil
}

// remote implements the download decision for an http(s) resource.
func (c *Cache) remote(ctx context.Context, resource string) (*Entry, error) {
	cached, err := c.load(resource)
	if err != nil {
		return nil, err
	}

	if cached != nil {
		if c.offline {
			c.logger.Debug("offline, using cached copy", "resource", resource)
			return cached, nil
		}
		if c.freshness > 0 && time.Since(cached.CreatedAt) < c.freshness {
			c.logger.Debug("cached copy within freshness lifetime",
				"resource", resource,
				"age", time.Since(cached.CreatedAt).Round(time.Second),
			)
			return cached, nil
		}
	} else if c.offline {
		return nil, fmt.Errorf("%w: %s", ErrOffline, resource)
	}

	if cached != nil {
		current, err := c.revalidate(ctx, resource, cached)
		if err != nil {
			return nil, err
		}
		if current {
			c.logger.Debug("cached copy is current", "resource", resource, "etag", cached.ETag)
			return cached, nil
		}
	}
	return c.download(ctx, resource)
}

// revalidate asks the server whether cached is still the current version.
// Without a validator on either side the copy is treated as outdated.
func (c *Cache) revalidate(ctx context.Context, resource string, cached *Entry) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, resource, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("HEAD %s: %w", resource, err)
	}
	_ = resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return false, err
	}

	if etag := resp.Header.Get("ETag"); etag != "" && cached.ETag != "" {
		return etag == cached.ETag, nil
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" && cached.LastModified != "" {
		return lm == cached.LastModified, nil
	}
	return false, nil
}

func (c *Cache) download(ctx context.Context, resource string) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resource, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Info("downloading", "resource", resource)
	started := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	dataPath := c.dataPath(resource)
	tmp, err := os.CreateTemp(c.dir, filepath.Base(dataPath)+".*.tmp")
	if err != nil {
		return nil, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", resource, err)
	}
	if err := os.Rename(tmpName, dataPath); err != nil {
		return nil, err
	}

	entry := &Entry{
		Resource:     resource,
		Path:         dataPath,
		CreatedAt:    time.Now(),
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}
	if err := c.store(entry); err != nil {
		return nil, err
	}

	c.logger.Info("download complete",
		"resource", resource,
		"bytes", n,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return entry, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("%w: %s (%s)", ErrNotFound, resp.Request.URL, resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s (%s)", ErrUnexpectedStatus, resp.Request.URL, resp.Status)
	}
	return nil
}

// load returns the cached entry for resource, or nil when there is none.
// A sidecar whose data file disappeared counts as no entry.
func (c *Cache) load(resource string) (*Entry, error) {
	data, err := os.ReadFile(c.metaPath(resource))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("ignoring corrupt cache entry", "resource", resource, "error", err)
		return nil, nil
	}
	if _, err := os.Stat(entry.Path); err != nil {
		return nil, nil
	}
	return &entry, nil
}

func (c *Cache) store(entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(c.metaPath(entry.Resource), data, 0o600)
}

func (c *Cache) dataPath(resource string) string {
	return filepath.Join(c.dir, key(resource))
}

func (c *Cache) metaPath(resource string) string {
	return filepath.Join(c.dir, key(resource)+".json")
}

func key(resource string) string {
	h := sha256.Sum256([]byte(resource))
	return hex.EncodeToString(h[:])
}
