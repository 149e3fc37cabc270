package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/mrmelon54/mc-launcher-core"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/database"
	"github.com/mrmelon54/mc-launcher-core/database/types"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"github.com/mrmelon54/mc-launcher-core/instance"
	launch_args "github.com/mrmelon54/mc-launcher-core/launch-args"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"github.com/mrmelon54/mc-launcher-core/rules"
	"github.com/mrmelon54/mc-launcher-core/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const versionManifestJson = `{
  "latest": {"release": "1.20.1", "snapshot": "23w31a"},
  "versions": [
    {"id": "23w31a", "type": "snapshot", "url": "https://piston.test/v1/23w31a.json", "sha1": "00"},
    {"id": "1.20.1", "type": "release", "url": "https://piston.test/v1/1.20.1.json", "sha1": "00"}
  ]
}`

type testEnv struct {
	router http.Handler
	db     *database.Queries
	orch   *instance.Orchestrator
	down   *atomic.Bool
}

func newTestEnv(t *testing.T) testEnv {
	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "instances.sqlite3.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	down := new(atomic.Bool)
	piston := httprouter.New()
	piston.GET("/mc/game/version_manifest_v2.json", func(rw http.ResponseWriter, req *http.Request, params httprouter.Params) {
		if down.Load() {
			http.Error(rw, "502 Bad Gateway", http.StatusBadGateway)
			return
		}
		_, _ = rw.Write([]byte(versionManifestJson))
	})

	root := osfs.New(dir)
	d := downloader.New(test.NewTestServer(piston), "mc-launcher-test", nil)
	client := manifest.NewClient(d, root, manifest.Endpoints{VersionManifest: "https://piston.test/mc/game/version_manifest_v2.json"}, nil)
	cache := manifest.NewCache(client, time.Hour, nil)
	queries := database.New(db)
	orch := instance.New(root, d, client, cache, queries, instance.Config{
		Platform: rules.Platform{OS: rules.OSLinux, Arch: rules.ArchX86_64},
	}, nil)

	conf := new(atomic.Pointer[mc_launcher_core.LauncherConfig])
	conf.Store(&mc_launcher_core.LauncherConfig{Resolution: launch_args.Resolution{Width: 854, Height: 480}})
	return testEnv{Router(orch, queries, cache, conf, nil), queries, orch, down}
}

func (e testEnv) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestVersionsGet(t *testing.T) {
	e := newTestEnv(t)

	e.down.Store(true)
	assert.Equal(t, http.StatusServiceUnavailable, e.do(http.MethodGet, "/versions").Code)

	e.down.Store(false)
	rec := e.do(http.MethodGet, "/versions")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["1.20.1"]`, rec.Body.String())

	rec = e.do(http.MethodGet, "/versions?snapshots")
	assert.JSONEq(t, `["23w31a","1.20.1"]`, rec.Body.String())
}

func TestInstancePost_errors(t *testing.T) {
	e := newTestEnv(t)
	for name, tc := range map[string]struct {
		target string
		status int
	}{
		"missing version": {"/instances/survival", http.StatusBadRequest},
		"invalid name":    {"/instances/a:b?version=1.20.1", http.StatusBadRequest},
		"unknown version": {"/instances/survival?version=9.9.9", http.StatusNotFound},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.status, e.do(http.MethodPost, tc.target).Code)
		})
	}
}

func TestInstances(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodGet, "/instances")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/instances/survival").Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/instances/survival/launch").Code)

	require.NoError(t, e.db.AddInstance(context.Background(), database.AddInstanceParams{
		ID:          uuid.New(),
		Name:        "survival",
		Version:     "1.20.1",
		RuntimePath: "/data/java/17.0.8/bin/java",
		Arguments:   types.Arguments{"-cp", "a:b", "Main", "--username", "${auth_player_name}", "--width", "${resolution_width}"},
		CreatedAt:   time.Now().UTC(),
	}))
	require.NoError(t, os.MkdirAll(e.orch.InstanceDir("survival"), 0o755))

	rec = e.do(http.MethodGet, "/instances/survival")
	assert.Equal(t, http.StatusOK, rec.Code)
	var inst database.Instance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inst))
	assert.Equal(t, "1.20.1", inst.Version)
	assert.Equal(t, types.Arguments{"-cp", "a:b", "Main", "--username", "${auth_player_name}", "--width", "${resolution_width}"}, inst.Arguments)

	rec = e.do(http.MethodGet, "/instances/survival/launch?username=Steve")
	assert.Equal(t, http.StatusOK, rec.Code)
	var args []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &args))
	assert.Equal(t, []string{"/data/java/17.0.8/bin/java", "-cp", "a:b", "Main", "--username", "Steve", "--width", "854"}, args)

	rec = e.do(http.MethodGet, "/instances")
	var rows []database.Instance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)

	assert.Equal(t, http.StatusConflict, e.do(http.MethodPost, "/instances/survival?version=1.20.1").Code)

	assert.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, "/instances/survival").Code)
	assert.NoDirExists(t, e.orch.InstanceDir("survival"))
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/instances/survival").Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/instances/survival").Code)
}

func TestCreateStatus(t *testing.T) {
	for name, tc := range map[string]struct {
		err    error
		status int
	}{
		"invalid name":  {fmt.Errorf("%w: %q", instance.ErrInvalidName, ".."), http.StatusBadRequest},
		"exists":        {instance.ErrInstanceExists, http.StatusConflict},
		"not found":     {acqerr.VersionNotFound("9.9.9"), http.StatusNotFound},
		"not ready":     {acqerr.ResourceNotReady("version manifest"), http.StatusServiceUnavailable},
		"transport":     {acqerr.Transport("fetch", errors.New("eof")), http.StatusBadGateway},
		"hash mismatch": {fmt.Errorf("assets: %w", acqerr.InvalidDownload("sha1 mismatch")), http.StatusBadGateway},
		"contract":      {acqerr.Contract("unsupported operating system %q", "plan9"), http.StatusInternalServerError},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.status, createStatus(tc.err))
		})
	}
}
