package mc_launcher_core

import (
	"github.com/BurntSushi/toml"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"path/filepath"
	"testing"
	"time"
)

const configYml = `dataDir: /srv/mc
listen: 127.0.0.1:8080
launcherVersion: 1.2.0
manifestTTL: 30m
preferCompressedRuntime: true
endpoints:
  resources: https://mirror.example/objects
resolution:
  width: 854
  height: 480
`

const configToml = `dataDir = "/srv/mc"
listen = "127.0.0.1:8080"
launcherVersion = "1.2.0"
manifestTTL = "30m"
preferCompressedRuntime = true

[endpoints]
resources = "https://mirror.example/objects"

[resolution]
width = 854
height = 480
`

func TestLauncherConfig_decode(t *testing.T) {
	var fromYml, fromToml LauncherConfig
	require.NoError(t, yaml.Unmarshal([]byte(configYml), &fromYml))
	_, err := toml.Decode(configToml, &fromToml)
	require.NoError(t, err)
	assert.Equal(t, fromYml, fromToml)

	c, err := fromYml.WithDefaults()
	require.NoError(t, err)
	assert.Equal(t, "/srv/mc", c.DataDir)
	assert.Equal(t, 30*time.Minute, c.ManifestTTL)
	assert.True(t, c.PreferCompressedRuntime)
	assert.Equal(t, "mc-launcher/1.2.0", c.UserAgent)
	assert.Equal(t, "https://mirror.example/objects", c.Endpoints.Resources)
	assert.Equal(t, manifest.DefaultVersionManifest, c.Endpoints.VersionManifest)
	assert.Equal(t, filepath.Join("/srv/mc", "instances.sqlite3.db"), c.DatabasePath())
	if assert.NotNil(t, c.GameResolution()) {
		assert.Equal(t, 854, c.GameResolution().Width)
	}
}

func TestLauncherConfig_WithDefaults(t *testing.T) {
	c, err := LauncherConfig{DataDir: "/data"}.WithDefaults()
	require.NoError(t, err)
	assert.Equal(t, DefaultLauncherName, c.LauncherName)
	assert.Equal(t, "mc-launcher/dev", c.UserAgent)
	assert.Equal(t, DefaultManifestTTL, c.ManifestTTL)
	assert.Nil(t, c.GameResolution())
}
