package downloader

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"io"
	"net/http"
	"os"
	"path"
	"sync"
	"time"
)

// MaxInFlight is the number of concurrent fetches in one batch.
const MaxInFlight = 8

// Downloadable is any remote artifact with a verifiable hash and a
// destination relative to the batch's base filesystem.
type Downloadable interface {
	Name() string
	URL() string
	Hash() string
	Path() string
}

// OnSuccess verifies and persists fetched bytes for a single item.
type OnSuccess[T Downloadable] func(base billy.Filesystem, data []byte, item T) error

type Downloader struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

func New(client *http.Client, userAgent string, logger *zap.Logger) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{client: client, userAgent: userAgent, logger: logger.Named("downloader")}
}

func (d *Downloader) Logger() *zap.Logger { return d.logger }

// Fetch reads the whole body at url. Any non 2xx status is a transport error.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, acqerr.Transport("create request", err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, acqerr.Transport("get "+url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, acqerr.Transport("get "+url, fmt.Errorf("unexpected status: %s", resp.Status))
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, acqerr.Transport("read "+url, err)
	}
	return b, nil
}

type Failure struct {
	Name string
	Err  error
}

// BatchResult summarises a settled batch. Failed items never fail the batch.
type BatchResult struct {
	Fetched  int
	Skipped  int
	Bytes    uint64
	Failures []Failure
}

func (b BatchResult) OK() bool { return len(b.Failures) == 0 }

// Mismatches lists the names of items whose bytes failed hash verification.
func (b BatchResult) Mismatches() []string {
	var a []string
	for _, f := range b.Failures {
		if errors.Is(f.Err, acqerr.ErrInvalidDownload) {
			a = append(a, f.Name)
		}
	}
	return a
}

// Err returns the first failure, if any.
func (b BatchResult) Err() error {
	if len(b.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d downloads failed: %s: %w", len(b.Failures), b.Fetched+len(b.Failures), b.Failures[0].Name, b.Failures[0].Err)
}

// FetchAll downloads every item whose path is missing from base and hands the
// bytes to onSuccess. At most MaxInFlight fetches run at once. The batch
// always runs to completion, cancelling ctx does not stop it.
func FetchAll[T Downloadable](ctx context.Context, d *Downloader, base billy.Filesystem, items []T, onSuccess OnSuccess[T]) BatchResult {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	var mu sync.Mutex
	var res BatchResult

	var g errgroup.Group
	g.SetLimit(MaxInFlight)
	for _, item := range items {
		if _, err := base.Stat(item.Path()); err == nil {
			mu.Lock()
			res.Skipped++
			mu.Unlock()
			continue
		}
		item := item
		g.Go(func() error {
			data, err := d.Fetch(ctx, item.URL())
			if err == nil {
				err = onSuccess(base, data, item)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, acqerr.ErrInvalidDownload) {
					d.logger.Error("Hash mismatch", zap.String("name", item.Name()), zap.String("url", item.URL()), zap.Error(err))
				} else {
					d.logger.Warn("Download failed", zap.String("name", item.Name()), zap.Error(err))
				}
				res.Failures = append(res.Failures, Failure{Name: item.Name(), Err: err})
				return nil
			}
			res.Fetched++
			res.Bytes += uint64(len(data))
			return nil
		})
	}
	_ = g.Wait()

	if res.Fetched > 0 || len(res.Failures) > 0 {
		d.logger.Info("Batch settled",
			zap.Int("fetched", res.Fetched),
			zap.Int("skipped", res.Skipped),
			zap.Int("failed", len(res.Failures)),
			zap.String("size", humanize.Bytes(res.Bytes)),
			zap.Duration("took", time.Since(start)),
		)
	}
	return res
}

// HashBytes returns the lowercase hex SHA-1 of b.
func HashBytes(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// Verify checks b against the expected SHA-1. An empty expectation passes.
func Verify(name string, b []byte, expected string) error {
	if expected == "" {
		return nil
	}
	if got := HashBytes(b); got != expected {
		return acqerr.InvalidDownload(fmt.Sprintf("verify %s: expected sha1 %s, got %s", name, expected, got))
	}
	return nil
}

// WriteFile writes data to name inside base, creating parent directories.
func WriteFile(base billy.Filesystem, name string, data []byte, perm os.FileMode) error {
	if dir := path.Dir(name); dir != "." {
		if err := base.MkdirAll(dir, 0o755); err != nil {
			return acqerr.IO("create "+dir, err)
		}
	}
	if err := util.WriteFile(base, name, data, perm); err != nil {
		return acqerr.IO("write "+name, err)
	}
	return nil
}

// VerifyAndWrite is the default OnSuccess: it checks the item's hash and
// writes the bytes to the item's path on a match.
func VerifyAndWrite[T Downloadable](base billy.Filesystem, data []byte, item T) error {
	if err := Verify(item.Name(), data, item.Hash()); err != nil {
		return err
	}
	return WriteFile(base, item.Path(), data, 0o644)
}
