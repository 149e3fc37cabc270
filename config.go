package mc_launcher_core

import (
	launch_args "github.com/mrmelon54/mc-launcher-core/launch-args"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultLauncherName = "mc-launcher"
	DefaultManifestTTL  = time.Hour
)

type LauncherConfig struct {
	DataDir                 string                 `yaml:"dataDir" toml:"dataDir"`
	Listen                  string                 `yaml:"listen" toml:"listen"`
	LauncherName            string                 `yaml:"launcherName" toml:"launcherName"`
	LauncherVersion         string                 `yaml:"launcherVersion" toml:"launcherVersion"`
	UserAgent               string                 `yaml:"userAgent" toml:"userAgent"`
	ManifestTTL             time.Duration          `yaml:"manifestTTL" toml:"manifestTTL"`
	PreferCompressedRuntime bool                   `yaml:"preferCompressedRuntime" toml:"preferCompressedRuntime"`
	Endpoints               manifest.Endpoints     `yaml:"endpoints" toml:"endpoints"`
	Resolution              launch_args.Resolution `yaml:"resolution" toml:"resolution"`
}

// WithDefaults fills every unset field. The data directory defaults to
// mc-launcher inside the user config directory.
func (c LauncherConfig) WithDefaults() (LauncherConfig, error) {
	if c.DataDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return c, err
		}
		c.DataDir = filepath.Join(dir, DefaultLauncherName)
	}
	if c.LauncherName == "" {
		c.LauncherName = DefaultLauncherName
	}
	if c.LauncherVersion == "" {
		c.LauncherVersion = "dev"
	}
	if c.UserAgent == "" {
		c.UserAgent = c.LauncherName + "/" + c.LauncherVersion
	}
	if c.ManifestTTL == 0 {
		c.ManifestTTL = DefaultManifestTTL
	}
	c.Endpoints = c.Endpoints.WithDefaults()
	return c, nil
}

// GameResolution is the configured window size or nil when unset.
func (c LauncherConfig) GameResolution() *launch_args.Resolution {
	if c.Resolution.Width <= 0 || c.Resolution.Height <= 0 {
		return nil
	}
	r := c.Resolution
	return &r
}

// DatabasePath is the instance store inside the data directory.
func (c LauncherConfig) DatabasePath() string {
	return filepath.Join(c.DataDir, "instances.sqlite3.db")
}
