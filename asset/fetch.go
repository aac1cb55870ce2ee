// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
)

// Fetcher is the asset-fetch primitive: it returns the raw bytes
// for the given path, honoring cancellation of the context.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// FileFetcher fetches assets from a file system.
type FileFetcher struct {

	// FS is the file system to read from.
	FS fs.FS
}

// NewFileFetcher returns a [FileFetcher] rooted at the given directory,
// which may start with ~ for the home directory.
func NewFileFetcher(dir string) (*FileFetcher, error) {
	exp, err := homedir.Expand(dir)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(exp)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("asset.NewFileFetcher: %q is not a directory", exp)
	}
	return &FileFetcher{FS: os.DirFS(exp)}, nil
}

func (ff *FileFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(ff.FS, path.Clean(p))
}

// HTTPFetcher fetches assets over HTTP, resolving paths against BaseURL.
type HTTPFetcher struct {

	// BaseURL is the URL that relative asset paths are resolved against.
	BaseURL *url.URL

	// Client is the HTTP client; nil means [http.DefaultClient].
	Client *http.Client

	// MaxBytes limits the size of a fetched asset; 0 means 256 MiB.
	MaxBytes int64
}

func (hf *HTTPFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	u, err := url.Parse(p)
	if err != nil {
		return nil, err
	}
	if hf.BaseURL != nil {
		u = hf.BaseURL.ResolveReference(u)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	client := hf.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	limit := hf.MaxBytes
	if limit <= 0 {
		limit = 256 << 20
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("GET %s: asset exceeds %d bytes", u, limit)
	}
	return data, nil
}
