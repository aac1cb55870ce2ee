// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asset provides the asynchronous asset loader, which fetches
// 3D model files off the render goroutine and resolves them into opaque
// scene fragments through single-transition [Handle]s.
package asset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cogentcore.org/stage/base/errors"
	"golang.org/x/sync/semaphore"
)

// DefaultTimeout is the default limit on fetching and decoding one asset.
const DefaultTimeout = 30 * time.Second

// Option configures a [Loader].
type Option func(ld *Loader)

// WithTimeout sets the limit on fetching one asset.
func WithTimeout(d time.Duration) Option {
	return func(ld *Loader) { ld.timeout = d }
}

// WithMaxConcurrent sets the maximum number of fetches in flight.
func WithMaxConcurrent(n int) Option {
	return func(ld *Loader) { ld.sem = semaphore.NewWeighted(int64(max(n, 1))) }
}

// WithDecoder replaces [Decode] as the decoder of fetched bytes.
func WithDecoder(dec Decoder) Option {
	return func(ld *Loader) { ld.decode = dec }
}

// Loader loads assets asynchronously. Repeated loads of the same path
// are deduplicated: they return the same [Handle] and cause a single
// fetch, until [Loader.Forget] is called for the path.
type Loader struct {
	fetcher Fetcher
	decode  Decoder
	timeout time.Duration
	sem     *semaphore.Weighted

	mu      sync.Mutex
	handles map[string]*Handle
	wg      sync.WaitGroup
}

// NewLoader returns a new [Loader] using the given fetch primitive.
func NewLoader(fetcher Fetcher, opts ...Option) *Loader {
	ld := &Loader{
		fetcher: fetcher,
		decode:  Decode,
		timeout: DefaultTimeout,
		sem:     semaphore.NewWeighted(4),
		handles: make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load starts loading the given path in the background, if it is not
// already loaded or loading, and returns its handle. It never blocks
// on the fetch.
func (ld *Loader) Load(path string) *Handle {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	if h, ok := ld.handles[path]; ok {
		return h
	}
	h := newHandle(path)
	ld.handles[path] = h
	ld.wg.Add(1)
	go ld.run(h)
	return h
}

// Forget drops the cached handle for the given path, so that the next
// [Loader.Load] fetches it again. Existing handles are unaffected.
func (ld *Loader) Forget(path string) {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	delete(ld.handles, path)
}

// Wait blocks until all loads started so far have settled.
func (ld *Loader) Wait() {
	ld.wg.Wait()
}

func (ld *Loader) run(h *Handle) {
	defer ld.wg.Done()
	start := time.Now()
	frag, err := ld.fetchDecode(h.path)
	if err != nil {
		errors.Log(err)
	} else {
		slog.Debug("asset loaded", "path", h.path, "fragment", frag, "took", time.Since(start))
	}
	h.settle(frag, err)
}

func (ld *Loader) fetchDecode(path string) (frag *Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			frag = nil
			err = &LoadError{Path: path, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), ld.timeout)
	defer cancel()
	if err := ld.sem.Acquire(ctx, 1); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer ld.sem.Release(1)
	data, err := ld.fetch(ctx, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	frag, err = ld.decode(path, data)
	if err != nil {
		var pe *ParseError
		if !errors.As(err, &pe) {
			err = &ParseError{Path: path, Reason: "decode", Err: err}
		}
		return nil, err
	}
	if frag == nil {
		return nil, &ParseError{Path: path, Reason: "decoder returned no fragment"}
	}
	return frag, nil
}

type fetchResult struct {
	data []byte
	err  error
}

// fetch runs the fetcher on its own goroutine so that the load settles
// when ctx is done even if the fetcher ignores ctx. A fetch that is
// abandoned that way finishes in the background and its result is dropped.
func (ld *Loader) fetch(ctx context.Context, path string) ([]byte, error) {
	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		data, err := ld.fetcher.Fetch(ctx, path)
		done <- fetchResult{data: data, err: err}
	}()
	select {
	case res := <-done:
		if res.err == nil {
			res.err = ctx.Err()
		}
		return res.data, res.err
	case <-ctx.Done():
		slog.Warn("asset fetch abandoned", "path", path, "err", ctx.Err())
		return nil, ctx.Err()
	}
}
