// Package mirror expands candidate source URIs into concrete download URLs.
// A normal URI passes through unchanged; a mirror indirection URI points at a
// text file listing base URLs, which is fetched once per session and expanded
// into one URL per listed mirror.
package mirror

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/pakt-dev/pakt/internal/logger"
	"github.com/pakt-dev/pakt/pkg/errors"
)

const (
	// SchemeHTTP is the indirection scheme for a mirror list served over HTTP.
	SchemeHTTP = "mirror://"
	// SchemeFile is the indirection scheme for a local mirror list file.
	SchemeFile = "mirror+file:"
)

// Resolver expands mirror indirections, caching each list for the lifetime
// of the session so a list shared by many candidates is fetched once.
type Resolver struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string][]string
}

// NewResolver returns a Resolver fetching mirror lists with client.
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{client: client, cache: make(map[string][]string)}
}

// Resolve expands uris into a flat, ordered list of concrete URLs for the
// artifact at relPath (the repository-relative file path appended to each
// mirror base). A failure to obtain an indirection target is returned as
// ErrMirrorListFetch and must abort the whole transaction: without the list
// there is nothing to fall back to.
func (r *Resolver) Resolve(ctx context.Context, uris []string, relPath string) ([]string, error) {
	var out []string
	for _, uri := range uris {
		switch {
		case strings.HasPrefix(uri, SchemeHTTP):
			target := strings.TrimPrefix(uri, SchemeHTTP)
			bases, err := r.httpList(ctx, target)
			if err != nil {
				return nil, err
			}
			out = append(out, expand(bases, relPath)...)
		case strings.HasPrefix(uri, SchemeFile):
			path := strings.TrimPrefix(uri, SchemeFile)
			bases, err := r.fileList(path)
			if err != nil {
				return nil, err
			}
			out = append(out, expand(bases, relPath)...)
		default:
			out = append(out, uri)
		}
	}
	return out, nil
}

func (r *Resolver) httpList(ctx context.Context, target string) ([]string, error) {
	r.mu.Lock()
	if cached, ok := r.cache[target]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	listURL := "http://" + target
	logger.Debug("fetching mirror list", logger.Fields{"url": listURL})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, http.NoBody)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMirrorListFetch, "invalid mirror list url %s", listURL)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to connect to %s: %v", errors.ErrMirrorListFetch, listURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", errors.ErrMirrorListFetch, listURL, resp.StatusCode)
	}

	bases, err := readList(bufio.NewScanner(resp.Body))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMirrorListFetch, "reading %s", listURL)
	}

	r.mu.Lock()
	r.cache[target] = bases
	r.mu.Unlock()
	return bases, nil
}

func (r *Resolver) fileList(path string) ([]string, error) {
	r.mu.Lock()
	if cached, ok := r.cache[path]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.mu.Unlock()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrMirrorListFetch, path, err)
	}
	defer func() { _ = file.Close() }()

	bases, err := readList(bufio.NewScanner(file))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMirrorListFetch, "reading %s", path)
	}

	r.mu.Lock()
	r.cache[path] = bases
	r.mu.Unlock()
	return bases, nil
}

// readList collects non-empty, non-comment lines.
func readList(scanner *bufio.Scanner) ([]string, error) {
	var bases []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		bases = append(bases, line)
	}
	return bases, scanner.Err()
}

func expand(bases []string, relPath string) []string {
	urls := make([]string, 0, len(bases))
	for _, base := range bases {
		urls = append(urls, strings.TrimRight(base, "/")+"/"+strings.TrimLeft(relPath, "/"))
	}
	return urls
}
