// Package java_runtime builds a managed java runtime's directory tree from
// its runtime manifest.
package java_runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/go-git/go-billy/v5"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"github.com/mrmelon54/mc-launcher-core/rules"
	"github.com/ulikunitz/xz/lzma"
	"go.uber.org/zap"
	"io"
	"os"
	"path/filepath"
)

type Materializer struct {
	d          *downloader.Downloader
	preferLzma bool
	posixPerms bool
	logger     *zap.Logger
	trace      func(kind, path string)
}

func NewMaterializer(d *downloader.Downloader, preferCompressed bool, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{
		d:          d,
		preferLzma: preferCompressed,
		posixPerms: rules.Current().OS != rules.OSWindows,
		logger:     logger.Named("java-runtime"),
	}
}

type Result struct {
	Directories  int
	Files        downloader.BatchResult
	Links        int
	LinksSkipped int
}

// partition splits entries by variant, keeping manifest order in each list.
func partition(entries []manifest.RuntimeEntry) (dirs []manifest.RuntimeDirectory, files []manifest.RuntimeFile, links []manifest.RuntimeLink, err error) {
	for _, e := range entries {
		switch v := e.(type) {
		case manifest.RuntimeDirectory:
			dirs = append(dirs, v)
		case manifest.RuntimeFile:
			files = append(files, v)
		case manifest.RuntimeLink:
			links = append(links, v)
		default:
			return nil, nil, nil, acqerr.Contract("unknown runtime entry %T", e)
		}
	}
	return
}

// Materialize creates every directory, then downloads every file, then
// creates every link of rm inside root. Failed files are reported in
// Result.Files and do not stop the link pass, but a link whose target is
// missing fails with an IO error. root must be backed by the operating
// system filesystem since links are created with os.Symlink and os.Link.
func (m *Materializer) Materialize(ctx context.Context, root billy.Filesystem, rm *manifest.RuntimeManifest) (Result, error) {
	var res Result
	dirs, files, links, err := partition(rm.Entries)
	if err != nil {
		return res, err
	}

	for _, d := range dirs {
		m.emit("directory", d.RelPath)
		if err := root.MkdirAll(d.RelPath, 0o755); err != nil {
			return res, acqerr.IO("create directory "+d.RelPath, err)
		}
		res.Directories++
	}

	items := make([]runtimeDownload, len(files))
	for i, f := range files {
		items[i] = runtimeDownload{RuntimeFile: f, lzma: m.preferLzma && f.Lzma != nil}
	}
	res.Files = downloader.FetchAll(ctx, m.d, root, items, m.writeFile)
	if !res.Files.OK() {
		m.logger.Warn("Runtime files failed",
			zap.String("root", root.Root()),
			zap.Int("failed", len(res.Files.Failures)),
			zap.Strings("mismatched", res.Files.Mismatches()),
		)
	}

	for _, l := range links {
		created, err := m.link(root.Root(), l)
		if err != nil {
			return res, err
		}
		if created {
			res.Links++
		} else {
			res.LinksSkipped++
		}
	}
	m.logger.Info("Materialized java runtime",
		zap.String("root", root.Root()),
		zap.Int("directories", res.Directories),
		zap.Int("files", res.Files.Fetched),
		zap.Int("failed", len(res.Files.Failures)),
		zap.Int("links", res.Links),
	)
	return res, nil
}

func (m *Materializer) emit(kind, p string) {
	if m.trace != nil {
		m.trace(kind, p)
	}
}

// runtimeDownload fetches the lzma variant of a file when asked to. The hash
// always refers to the raw bytes.
type runtimeDownload struct {
	manifest.RuntimeFile
	lzma bool
}

func (r runtimeDownload) URL() string {
	if r.lzma {
		return r.Lzma.Url
	}
	return r.Raw.Url
}

func (m *Materializer) writeFile(base billy.Filesystem, data []byte, item runtimeDownload) error {
	m.emit("file", item.RelPath)
	if item.lzma {
		r, err := lzma.NewReader(bytes.NewReader(data))
		if err != nil {
			return acqerr.Decode("open lzma "+item.RelPath, err)
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			return acqerr.Decode("read lzma "+item.RelPath, err)
		}
		data = raw
	}
	if err := downloader.Verify(item.Name(), data, item.Hash()); err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if item.Executable && m.posixPerms {
		perm = 0o755
	}
	return downloader.WriteFile(base, item.RelPath, data, perm)
}

// link resolves the target relative to the link's parent, canonicalizes it
// and creates a symbolic link for directories or a hard link otherwise. An
// existing destination is left alone.
func (m *Materializer) link(base string, l manifest.RuntimeLink) (bool, error) {
	m.emit("link", l.RelPath)
	dst := filepath.Join(base, filepath.FromSlash(l.RelPath))
	if _, err := os.Lstat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, acqerr.IO("stat "+l.RelPath, err)
	}

	target := filepath.Join(filepath.Dir(dst), filepath.FromSlash(l.Target))
	target, err := filepath.EvalSymlinks(target)
	if err != nil {
		return false, acqerr.IO(fmt.Sprintf("resolve link %s -> %s", l.RelPath, l.Target), err)
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return false, acqerr.IO("resolve link "+l.RelPath, err)
	}
	stat, err := os.Stat(target)
	if err != nil {
		return false, acqerr.IO("stat link target "+l.Target, err)
	}
	if stat.IsDir() {
		err = os.Symlink(target, dst)
	} else {
		err = os.Link(target, dst)
	}
	if err != nil {
		return false, acqerr.IO("create link "+l.RelPath, err)
	}
	return true, nil
}
