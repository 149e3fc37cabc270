package natives

import (
	"archive/zip"
	"github.com/go-git/go-billy/v5"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"go.uber.org/zap"
	"io"
	"path"
	"strings"
)

// Extractor unpacks native classifier jars into an instance's natives
// directory.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger.Named("natives")}
}

// ExtractAll extracts every classifier from src into dst. The first failure
// stops the batch. Files extracted before the failure are kept.
func (e *Extractor) ExtractAll(src, dst billy.Filesystem, files []manifest.LibraryFile) (int, error) {
	total := 0
	for _, f := range files {
		n, err := e.Extract(src, dst, f)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Extract copies the entries of one classifier archive into dst and returns
// the number of files written.
func (e *Extractor) Extract(src, dst billy.Filesystem, f manifest.LibraryFile) (int, error) {
	file, err := src.Open(f.Path())
	if err != nil {
		return 0, acqerr.IO("open "+f.Path(), err)
	}
	defer file.Close()
	stat, err := src.Stat(f.Path())
	if err != nil {
		return 0, acqerr.IO("stat "+f.Path(), err)
	}
	zr, err := zip.NewReader(file, stat.Size())
	if err != nil {
		return 0, acqerr.Decode("read archive "+f.Path(), err)
	}

	n := 0
	for _, entry := range zr.File {
		if strings.HasSuffix(entry.Name, "/") {
			continue
		}
		name := path.Clean(entry.Name)
		if !safeName(name) {
			e.logger.Warn("Skipping unsafe archive entry", zap.String("library", f.Name()), zap.String("entry", entry.Name))
			continue
		}
		if excluded(name, f.Exclude) {
			continue
		}
		if err := copyEntry(dst, entry, name); err != nil {
			return n, err
		}
		n++
	}
	e.logger.Debug("Extracted natives", zap.String("library", f.Name()), zap.Int("files", n))
	return n, nil
}

func safeName(name string) bool {
	return name != "." && !path.IsAbs(name) && name != ".." && !strings.HasPrefix(name, "../")
}

// excluded matches whole path components, so "META-INF/" and "META-INF"
// both exclude "META-INF/MANIFEST.MF" but not "META-INFO".
func excluded(name string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if name == p || strings.HasPrefix(name, p+"/") {
			return true
		}
	}
	return false
}

func copyEntry(dst billy.Filesystem, entry *zip.File, name string) error {
	if dir := path.Dir(name); dir != "." {
		if err := dst.MkdirAll(dir, 0o755); err != nil {
			return acqerr.IO("create "+dir, err)
		}
	}
	r, err := entry.Open()
	if err != nil {
		return acqerr.Decode("open entry "+entry.Name, err)
	}
	defer r.Close()
	w, err := dst.Create(name)
	if err != nil {
		return acqerr.IO("create "+name, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return acqerr.IO("write "+name, err)
	}
	if err := w.Close(); err != nil {
		return acqerr.IO("close "+name, err)
	}
	return nil
}
