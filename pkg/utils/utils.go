// Package utils provides download and caching helpers for the flight datasets.
package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sudorandom/flightnet/pkg/logger"
)

var ErrNotFound = errors.New("file not found on server")

type progressWriter struct {
	io.Writer
	total uint64
	last  uint64
	label string
	log   logger.Logger
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.total += uint64(n)
	if pw.total-pw.last > 1024*1024 { // Log every MB
		pw.log.Debug("Download progress", "file", pw.label, "mb", pw.total/1024/1024)
		pw.last = pw.total
	}
	return n, err
}

// Fetcher performs HTTP GETs, optionally through a DiskCache.
type Fetcher struct {
	Client *http.Client
	Cache  *DiskCache
	Log    logger.Logger
}

// NewFetcher returns a Fetcher using http.DefaultClient. cache may be nil.
func NewFetcher(cache *DiskCache, log logger.Logger) *Fetcher {
	return &Fetcher{Client: http.DefaultClient, Cache: cache, Log: log}
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		if err := resp.Body.Close(); err != nil {
			f.Log.Warn("Error closing response body", "error", err)
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return resp, nil
}

// DownloadFile downloads a file from a URL to a local path safely.
func (f *Fetcher) DownloadFile(ctx context.Context, url, path string) error {
	resp, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.Log.Warn("Error closing response body", "error", err)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	// Create a temp file in the same directory to ensure atomic move
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	defer func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			f.Log.Warn("Error removing temp file", "path", tmpName, "error", err)
		}
	}() // Clean up if we fail

	pw := &progressWriter{Writer: tmpFile, label: filepath.Base(path), log: f.Log}
	if _, err := io.Copy(pw, resp.Body); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// CacheKey returns the cache key for a URL, prefixed with the sanitized label
// so the same file name from different hosts does not collide.
func CacheKey(url, label string) string {
	urlParts := strings.Split(url, "/")
	fileName := urlParts[len(urlParts)-1]

	sanitized := strings.Trim(label, "[]")
	sanitized = strings.ReplaceAll(sanitized, " ", "_")
	if sanitized != "" {
		fileName = sanitized + "_" + fileName
	}
	return fileName + "|" + url
}

// Evict drops the cached copy of url so the next Open downloads it again.
func (f *Fetcher) Evict(url, label string) error {
	if f.Cache == nil {
		return nil
	}
	return f.Cache.Delete(CacheKey(url, label))
}

// Open returns a reader for the given URL, served from the cache when present.
// Without a cache the response body is streamed directly.
func (f *Fetcher) Open(ctx context.Context, url, label string) (io.ReadCloser, error) {
	if f.Cache != nil {
		key := CacheKey(url, label)
		data, err := f.Cache.Get(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read cache: %w", err)
		}
		if data != nil {
			f.Log.Debug("Using cached copy", "label", label, "url", url, "bytes", len(data))
			return io.NopCloser(bytes.NewReader(data)), nil
		}

		f.Log.Info("Downloading", "label", label, "url", url)
		resp, err := f.get(ctx, url)
		if err != nil {
			return nil, err // keep ErrNotFound visible to callers
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				f.Log.Warn("Error closing response body", "error", err)
			}
		}()
		var buf bytes.Buffer
		pw := &progressWriter{Writer: &buf, label: label, log: f.Log}
		if _, err := io.Copy(pw, resp.Body); err != nil {
			return nil, err
		}
		if err := f.Cache.Put(key, buf.Bytes()); err != nil {
			f.Log.Warn("Failed to store download in cache", "label", label, "error", err)
		}
		return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
	}

	f.Log.Info("Streaming", "label", label, "url", url)
	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
