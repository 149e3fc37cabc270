// Package manifest fetches, caches and parses the piston-meta manifests a
// launcher installation is built from.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"go.uber.org/zap"
	"os"
	"sync"
	"unicode/utf8"
)

const (
	DefaultVersionManifest = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"
	DefaultJavaManifest    = "https://piston-meta.mojang.com/v1/products/java-runtime/2ec0cc96c44e5a76b9c8b7c39df7210883d12871/all.json"
	DefaultResources       = "https://resources.download.minecraft.net"
)

// Cache paths for manifests without a published hash.
const (
	VersionManifestPath = "versions/version_manifest_v2.json"
	JavaManifestPath    = "java/all.json"
)

type Endpoints struct {
	VersionManifest string `yaml:"versionManifest" toml:"versionManifest"`
	JavaManifest    string `yaml:"javaManifest" toml:"javaManifest"`
	Resources       string `yaml:"resources" toml:"resources"`
}

// WithDefaults fills empty endpoints with the public Mojang ones.
func (e Endpoints) WithDefaults() Endpoints {
	if e.VersionManifest == "" {
		e.VersionManifest = DefaultVersionManifest
	}
	if e.JavaManifest == "" {
		e.JavaManifest = DefaultJavaManifest
	}
	if e.Resources == "" {
		e.Resources = DefaultResources
	}
	return e
}

// Client reads manifests through a cache rooted at the data directory.
type Client struct {
	d         *downloader.Downloader
	fs        billy.Filesystem
	endpoints Endpoints
	logger    *zap.Logger

	javaMu *sync.Mutex
	java   JavaManifestMap
}

func NewClient(d *downloader.Downloader, fs billy.Filesystem, endpoints Endpoints, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		d:         d,
		fs:        fs,
		endpoints: endpoints.WithDefaults(),
		logger:    logger.Named("manifest"),
		javaMu:    new(sync.Mutex),
	}
}

func (c *Client) Endpoints() Endpoints { return c.endpoints }

func decodeJson[T any](name string, b []byte) (*T, error) {
	if !utf8.Valid(b) {
		return nil, acqerr.Decode("decode "+name, errors.New("invalid utf-8"))
	}
	v := new(T)
	if err := json.Unmarshal(b, v); err != nil {
		return nil, acqerr.Deserialize("parse "+name, err)
	}
	return v, nil
}

// loadVerified returns the cached copy of item when its hash matches, and
// otherwise fetches, verifies and caches a fresh one. A fresh body that fails
// verification is an invalid download and is not retried.
func loadVerified[T any](ctx context.Context, c *Client, item downloader.Downloadable) (*T, error) {
	if b, err := util.ReadFile(c.fs, item.Path()); err == nil {
		if downloader.HashBytes(b) == item.Hash() {
			return decodeJson[T](item.Name(), b)
		}
		c.logger.Info("Cached manifest is stale", zap.String("name", item.Name()), zap.String("path", item.Path()))
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, acqerr.IO("read "+item.Path(), err)
	}

	b, err := c.d.Fetch(ctx, item.URL())
	if err != nil {
		return nil, err
	}
	if err := downloader.Verify(item.Name(), b, item.Hash()); err != nil {
		return nil, err
	}
	v, err := decodeJson[T](item.Name(), b)
	if err != nil {
		return nil, err
	}
	if err := downloader.WriteFile(c.fs, item.Path(), b, 0o644); err != nil {
		return nil, err
	}
	return v, nil
}

// loadFresh always fetches url and caches the body at p. The cached copy is
// only read when the fetch fails.
func loadFresh[T any](ctx context.Context, c *Client, name, url, p string) (*T, error) {
	b, fetchErr := c.d.Fetch(ctx, url)
	if fetchErr != nil {
		cached, err := util.ReadFile(c.fs, p)
		if err != nil {
			return nil, fetchErr
		}
		c.logger.Warn("Using cached manifest", zap.String("name", name), zap.Error(fetchErr))
		return decodeJson[T](name, cached)
	}
	v, err := decodeJson[T](name, b)
	if err != nil {
		return nil, err
	}
	if err := downloader.WriteFile(c.fs, p, b, 0o644); err != nil {
		return nil, err
	}
	return v, nil
}

// VersionManifest fetches the top level version list.
func (c *Client) VersionManifest(ctx context.Context) (*VersionManifest, error) {
	return loadFresh[VersionManifest](ctx, c, "version manifest", c.endpoints.VersionManifest, VersionManifestPath)
}

// Version loads the per-version manifest for entry.
func (c *Client) Version(ctx context.Context, entry VersionEntry) (*Version, error) {
	return loadVerified[Version](ctx, c, entry)
}

// JavaManifest fetches the platform keyed java runtime list once per client.
func (c *Client) JavaManifest(ctx context.Context) (JavaManifestMap, error) {
	c.javaMu.Lock()
	defer c.javaMu.Unlock()
	if c.java != nil {
		return c.java, nil
	}
	m, err := loadFresh[JavaManifestMap](ctx, c, "java manifest", c.endpoints.JavaManifest, JavaManifestPath)
	if err != nil {
		return nil, err
	}
	c.java = *m
	return c.java, nil
}

// RuntimeManifest loads the file list of a java runtime.
func (c *Client) RuntimeManifest(ctx context.Context, rt JavaRuntime) (*RuntimeManifest, error) {
	return loadVerified[RuntimeManifest](ctx, c, RuntimeManifestFile{rt})
}

// AssetIndex loads the asset index referenced by a version.
func (c *Client) AssetIndex(ctx context.Context, ref AssetIndexRef) (*AssetIndex, error) {
	return loadVerified[AssetIndex](ctx, c, ref)
}
