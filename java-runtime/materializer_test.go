package java_runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/julienschmidt/httprouter"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"github.com/mrmelon54/mc-launcher-core/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz/lzma"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

var javaBinary = []byte("#!/bin/sh\necho java\n")

func lzmaBytes(t *testing.T, b []byte) []byte {
	buf := new(bytes.Buffer)
	w, err := lzma.NewWriter(buf)
	require.NoError(t, err)
	_, err = w.Write(b)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func runtimeServer(t *testing.T, hits *atomic.Int32) *downloader.Downloader {
	compressed := lzmaBytes(t, javaBinary)
	r := httprouter.New()
	r.GET("/raw/:name", func(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
		hits.Add(1)
		_, _ = rw.Write(javaBinary)
	})
	r.GET("/lzma/:name", func(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
		hits.Add(1)
		_, _ = rw.Write(compressed)
	})
	return downloader.New(test.NewTestServer(r), "", nil)
}

func parseRuntime(t *testing.T, hash string) *manifest.RuntimeManifest {
	var rm manifest.RuntimeManifest
	require.NoError(t, json.Unmarshal([]byte(`{"files": {
		"bin": {"type": "directory"},
		"bin/java": {"type": "file", "executable": true, "downloads": {
			"raw": {"sha1": "`+hash+`", "size": 20, "url": "https://runtime.test/raw/java"},
			"lzma": {"sha1": "ignored", "size": 10, "url": "https://runtime.test/lzma/java"}
		}},
		"bin/javac": {"type": "link", "target": "java"},
		"lib": {"type": "directory"},
		"lib/current": {"type": "link", "target": "../bin"}
	}}`), &rm))
	return &rm
}

func TestMaterializer_Materialize(t *testing.T) {
	for name, preferLzma := range map[string]bool{"raw": false, "lzma": true} {
		t.Run(name, func(t *testing.T) {
			var hits atomic.Int32
			m := NewMaterializer(runtimeServer(t, &hits), preferLzma, nil)

			var mu sync.Mutex
			var order []string
			m.trace = func(kind, p string) {
				mu.Lock()
				order = append(order, kind)
				mu.Unlock()
			}

			dir := t.TempDir()
			res, err := m.Materialize(context.Background(), osfs.New(dir), parseRuntime(t, downloader.HashBytes(javaBinary)))
			require.NoError(t, err)
			assert.Equal(t, 2, res.Directories)
			assert.Equal(t, 1, res.Files.Fetched)
			assert.Equal(t, 2, res.Links)
			assert.Equal(t, []string{"directory", "directory", "file", "link", "link"}, order)

			b, err := os.ReadFile(filepath.Join(dir, "bin", "java"))
			require.NoError(t, err)
			assert.Equal(t, javaBinary, b)
			stat, err := os.Stat(filepath.Join(dir, "bin", "java"))
			require.NoError(t, err)
			assert.NotZero(t, stat.Mode().Perm()&0o100)

			// hard link to the file
			javac, err := os.Lstat(filepath.Join(dir, "bin", "javac"))
			require.NoError(t, err)
			assert.Zero(t, javac.Mode()&os.ModeSymlink)
			assert.True(t, os.SameFile(stat, javac))

			// symbolic link to the directory
			current, err := os.Lstat(filepath.Join(dir, "lib", "current"))
			require.NoError(t, err)
			assert.NotZero(t, current.Mode()&os.ModeSymlink)

			// everything exists on the second run
			res, err = m.Materialize(context.Background(), osfs.New(dir), parseRuntime(t, downloader.HashBytes(javaBinary)))
			require.NoError(t, err)
			assert.Equal(t, 0, res.Files.Fetched)
			assert.Equal(t, 1, res.Files.Skipped)
			assert.Equal(t, 2, res.LinksSkipped)
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestMaterializer_hashMismatch(t *testing.T) {
	var hits atomic.Int32
	m := NewMaterializer(runtimeServer(t, &hits), false, nil)
	var order []string
	m.trace = func(kind, p string) { order = append(order, kind+" "+p) }
	dir := t.TempDir()

	// the link pass still runs and trips over the missing target
	res, err := m.Materialize(context.Background(), osfs.New(dir), parseRuntime(t, "0000"))
	assert.ErrorIs(t, err, acqerr.ErrIO)
	assert.Equal(t, []string{"bin/java"}, res.Files.Mismatches())
	assert.Contains(t, order, "link bin/javac")
	_, err = os.Stat(filepath.Join(dir, "bin", "java"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaterializer_failedFileKeepsGoing(t *testing.T) {
	var hits atomic.Int32
	m := NewMaterializer(runtimeServer(t, &hits), false, nil)
	rm := &manifest.RuntimeManifest{Entries: []manifest.RuntimeEntry{
		manifest.RuntimeDirectory{RelPath: "bin"},
		manifest.RuntimeFile{RelPath: "bin/java", Raw: manifest.RuntimeDownload{Sha1: downloader.HashBytes(javaBinary), Url: "https://runtime.test/raw/java"}},
		manifest.RuntimeFile{RelPath: "bin/keytool", Raw: manifest.RuntimeDownload{Sha1: "0000", Url: "https://runtime.test/raw/keytool"}},
		manifest.RuntimeLink{RelPath: "bin/javac", Target: "java"},
	}}
	dir := t.TempDir()

	res, err := m.Materialize(context.Background(), osfs.New(dir), rm)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files.Fetched)
	assert.Equal(t, []string{"bin/keytool"}, res.Files.Mismatches())
	assert.Equal(t, 1, res.Links)
	_, err = os.Stat(filepath.Join(dir, "bin", "javac"))
	assert.NoError(t, err)
}

func TestMaterializer_danglingLink(t *testing.T) {
	var hits atomic.Int32
	m := NewMaterializer(runtimeServer(t, &hits), false, nil)
	rm := &manifest.RuntimeManifest{Entries: []manifest.RuntimeEntry{
		manifest.RuntimeDirectory{RelPath: "bin"},
		manifest.RuntimeLink{RelPath: "bin/jar", Target: "missing"},
	}}
	_, err := m.Materialize(context.Background(), osfs.New(t.TempDir()), rm)
	assert.ErrorIs(t, err, acqerr.ErrIO)
	assert.Equal(t, int32(0), hits.Load())
}
