// Package download orchestrates the concurrent fetch of every archive a
// transaction needs: largest candidates first, per-host admission control,
// retry-once on connection reset, mirror failover, streaming hash
// verification into a partial directory and an atomic move into the archive
// directory as the commit point.
package download

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pakt-dev/pakt/internal/logger"
	"github.com/pakt-dev/pakt/pkg/errors"
	"github.com/pakt-dev/pakt/pkg/fsutil"
	"github.com/pakt-dev/pakt/pkg/hash"
	"github.com/pakt-dev/pakt/pkg/model"
	"github.com/pakt-dev/pakt/pkg/progress"
)

const copyChunk = 32 * 1024

// Manager downloads candidate archives. It holds no per-transaction state;
// each Download call builds its own session.
type Manager struct {
	client      *http.Client
	archiveDir  string
	partialDir  string
	hostCeiling int
	fatalOnHTTP bool
	userAgent   string
}

// Options configure a Manager.
type Options struct {
	Client      *http.Client
	ArchiveDir  string // final destination for verified archives
	PartialDir  string // staging area for in-flight downloads
	HostCeiling int    // max in-flight requests per host, default 3
	FatalOnHTTP bool   // escalate exhausted HTTP status failures to session-fatal
	UserAgent   string
}

// NewManager creates a download manager.
func NewManager(opts Options) *Manager {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.HostCeiling <= 0 {
		opts.HostCeiling = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "pakt/1.0"
	}
	return &Manager{
		client:      opts.Client,
		archiveDir:  opts.ArchiveDir,
		partialDir:  opts.PartialDir,
		hostCeiling: opts.HostCeiling,
		fatalOnHTTP: opts.FatalOnHTTP,
		userAgent:   opts.UserAgent,
	}
}

// NewClient builds an HTTP client honoring the configured proxy map. Keys
// are a scheme ("http", "https") or scheme://host; a value of "direct" or
// "false" disables proxying for that key.
func NewClient(timeout time.Duration, proxies map[string]string) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if len(proxies) > 0 {
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			candidates := []string{
				req.URL.Scheme + "://" + req.URL.Host,
				req.URL.Scheme,
			}
			for _, key := range candidates {
				value, ok := proxies[key]
				if !ok {
					continue
				}
				if v := strings.ToLower(value); v == "direct" || v == "false" {
					return nil, nil
				}
				return url.Parse(value)
			}
			return http.ProxyFromEnvironment(req)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// Download fetches all candidates concurrently and returns the session
// outcome. Failures local to one candidate are absorbed into Result.Failed;
// the returned error is non-nil only for cancellation or a setup failure.
// Partial files are left in place on cancellation so a later run can resume;
// they are never treated as complete.
func (m *Manager) Download(ctx context.Context, candidates []*model.Candidate, sink progress.Sink) (*Result, error) {
	if sink == nil {
		sink = progress.Nop{}
	}
	if !filepath.IsAbs(m.archiveDir) || !filepath.IsAbs(m.partialDir) {
		return nil, fmt.Errorf("archive and partial dirs must be absolute: %w", errors.ErrInvalidPath)
	}
	for _, dir := range []string{m.archiveDir, m.partialDir} {
		if err := os.MkdirAll(dir, fsutil.DirModeDefault); err != nil {
			return nil, errors.Wrap(err, "could not create download directory")
		}
	}

	sess := newSession(len(candidates), m.hostCeiling)

	pending := make([]*model.Candidate, 0, len(candidates))
	for _, cand := range candidates {
		if m.preFlight(cand) {
			completed, total := sess.recordSuccess(cand.Ref)
			sink.SetStatus(fmt.Sprintf("Already fetched %s (%d/%d)", cand.Filename, completed, total))
			continue
		}
		pending = append(pending, cand)
	}

	// Start the largest downloads first so the longest transfer is not left
	// for last.
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].Size > pending[j].Size })

	group, gctx := errgroup.WithContext(ctx)
	for _, cand := range pending {
		group.Go(func() error {
			return m.fetchCandidate(gctx, sess, cand, sink)
		})
	}
	if err := group.Wait(); err != nil {
		return sess.result(), err
	}
	return sess.result(), nil
}

// preFlight reports whether the candidate's final file is already present
// with the expected size and digest. A wrong-size or wrong-hash leftover is
// deleted so it can never be mistaken for a completed download.
func (m *Manager) preFlight(cand *model.Candidate) bool {
	if cand.NoHash {
		return false
	}
	final := filepath.Join(m.archiveDir, cand.Filename)
	info, err := os.Stat(final)
	if err != nil {
		return false
	}
	if info.Size() != cand.Size {
		logger.Debug("removing archive with unexpected size",
			logger.Fields{"file": cand.Filename, "size": info.Size(), "expected": cand.Size})
		_ = os.Remove(final)
		return false
	}
	ok, err := hash.VerifyFile(final, cand.Hash)
	if err != nil || !ok {
		logger.Debug("removing archive that failed hash check", logger.Fields{"file": cand.Filename})
		_ = os.Remove(final)
		return false
	}
	return true
}

// fetchCandidate walks the candidate's mirror list in order until one URL
// delivers a verified archive. Errors for individual URLs are absorbed; only
// cancellation propagates.
func (m *Manager) fetchCandidate(ctx context.Context, sess *session, cand *model.Candidate, sink progress.Sink) error {
	var lastErr *Error
	for _, rawURL := range cand.URIs {
		host := hostOf(rawURL)
		if err := sess.acquireHost(ctx, host); err != nil {
			return err
		}
		dlErr := m.fetchURL(ctx, cand, rawURL, sink)
		sess.releaseHost(host)

		if dlErr == nil {
			completed, total := sess.recordSuccess(cand.Ref)
			sink.SetStatus(fmt.Sprintf("Fetched %s (%d/%d)", cand.Filename, completed, total))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warnf("%v", dlErr)
		lastErr = dlErr
		logger.Debug("trying next mirror", logger.Fields{"package": cand.Ref.Name})
	}

	if len(cand.URIs) > 1 {
		logger.Errorf("no more mirrors available for %s", cand.Filename)
	}
	sess.recordFailure(cand.Ref, lastErr, m.fatalOnHTTP)
	return nil
}

// fetchURL downloads one URL into the partial directory, verifying size and
// digest, and commits it into the archive directory. A connection reset is
// retried once on the same URL; every other failure moves on to the next
// mirror. Integrity failures delete the partial file.
func (m *Manager) fetchURL(ctx context.Context, cand *model.Candidate, rawURL string, sink progress.Sink) *Error {
	secondAttempt := false
	for {
		dlErr := m.streamOnce(ctx, cand, rawURL, sink)
		if dlErr == nil {
			return nil
		}
		if dlErr.Kind == KindReset && !secondAttempt {
			secondAttempt = true
			logger.Debug("mirror closed the connection, retrying once",
				logger.Fields{"url": rawURL})
			continue
		}
		return dlErr
	}
}

func (m *Manager) streamOnce(ctx context.Context, cand *model.Candidate, rawURL string, sink progress.Sink) *Error {
	partial := filepath.Join(m.partialDir, cand.Filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return &Error{Kind: KindTransport, Ref: cand.Ref, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.client.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Ref: cand.Ref, URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return &Error{Kind: KindStatus, Ref: cand.Ref, URL: rawURL, Status: resp.StatusCode,
			Err: errors.ErrDownloadFailed}
	}

	var verifier *hash.Verifier
	if !cand.NoHash {
		verifier, err = hash.NewVerifier(cand.Hash)
		if err != nil {
			return &Error{Kind: KindHash, Ref: cand.Ref, URL: rawURL, Err: err}
		}
	}

	file, err := os.OpenFile(partial, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return &Error{Kind: KindFile, Ref: cand.Ref, URL: rawURL, Err: err}
	}

	written, streamErr := m.copyBody(resp.Body, file, verifier, sink)
	_ = file.Close()

	if streamErr != nil {
		// Counted bytes for an abandoned attempt are rolled back so the
		// aggregate stays truthful.
		sink.Discount(written)
		kind := KindTransport
		if isReset(streamErr) {
			kind = KindReset
		}
		return &Error{Kind: kind, Ref: cand.Ref, URL: rawURL, Err: streamErr}
	}

	if written != cand.Size {
		sink.Discount(written)
		_ = os.Remove(partial)
		return &Error{Kind: KindSize, Ref: cand.Ref, URL: rawURL,
			Expected: fmt.Sprintf("%d", cand.Size), Received: fmt.Sprintf("%d", written)}
	}
	if verifier != nil && !verifier.OK() {
		sink.Discount(written)
		_ = os.Remove(partial)
		return &Error{Kind: KindHash, Ref: cand.Ref, URL: rawURL,
			Expected: strings.ToUpper(cand.Hash.Algo) + ": " + cand.Hash.Value,
			Received: strings.ToUpper(cand.Hash.Algo) + ": " + verifier.Sum()}
	}

	// The move from partial to final is the commit point.
	final := filepath.Join(m.archiveDir, cand.Filename)
	if err := fsutil.Move(partial, final); err != nil {
		sink.Discount(written)
		return &Error{Kind: KindFile, Ref: cand.Ref, URL: rawURL, Err: err}
	}
	return nil
}

func (m *Manager) copyBody(body io.Reader, file *os.File, verifier *hash.Verifier, sink progress.Sink) (int64, error) {
	var written int64
	buf := make([]byte, copyChunk)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return written, werr
			}
			if verifier != nil {
				_, _ = verifier.Write(buf[:n])
			}
			written += int64(n)
			sink.Advance(int64(n))
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}

// isReset reports whether err looks like the peer closed the connection
// without sending the complete body.
func isReset(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, syscall.ECONNRESET) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "unexpected EOF")
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}
