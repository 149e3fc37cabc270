package manifest

import (
	"encoding/json"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestArgument_UnmarshalJSON(t *testing.T) {
	var args []Argument
	require.NoError(t, json.Unmarshal([]byte(`[
		"--width",
		{"rules": [{"action": "allow", "os": {"arch": "x86"}}], "value": "-Xss1M"},
		{"rules": [{"action": "allow", "features": {"has_custom_resolution": true}}], "value": ["--width", "${resolution_width}"]}
	]`), &args))
	require.Len(t, args, 3)
	assert.Nil(t, args[0].Rules)
	assert.Equal(t, []string{"--width"}, args[0].Values)
	assert.Len(t, args[1].Rules, 1)
	assert.Equal(t, []string{"-Xss1M"}, args[1].Values)
	assert.Equal(t, []string{"--width", "${resolution_width}"}, args[2].Values)

	b, err := json.Marshal(args[0])
	require.NoError(t, err)
	assert.JSONEq(t, `"--width"`, string(b))
}

func TestVersion_legacyArguments(t *testing.T) {
	v := Version{MinecraftArguments: "--username ${auth_player_name} --version ${version_name}"}
	game := v.GameArguments()
	require.Len(t, game, 4)
	assert.Equal(t, []string{"${auth_player_name}"}, game[1].Values)

	jvm := v.JVMArguments()
	require.Len(t, jvm, 3)
	assert.Equal(t, []string{"${classpath}"}, jvm[2].Values)
}

func TestRuntimeManifest_UnmarshalJSON(t *testing.T) {
	var m RuntimeManifest
	require.NoError(t, json.Unmarshal([]byte(`{"files": {
		"bin/javac": {"type": "link", "target": "java"},
		"bin/java": {"type": "file", "executable": true, "downloads": {
			"raw": {"sha1": "aa", "size": 3, "url": "https://runtime.test/java"},
			"lzma": {"sha1": "bb", "size": 2, "url": "https://runtime.test/java.lzma"}
		}},
		"bin": {"type": "directory"}
	}}`), &m))
	require.Len(t, m.Entries, 3)
	assert.Equal(t, RuntimeDirectory{RelPath: "bin"}, m.Entries[0])
	f, ok := m.Entries[1].(RuntimeFile)
	require.True(t, ok)
	assert.True(t, f.Executable)
	assert.Equal(t, "aa", f.Hash())
	assert.Equal(t, "https://runtime.test/java.lzma", f.Lzma.Url)
	assert.Equal(t, RuntimeLink{RelPath: "bin/javac", Target: "java"}, m.Entries[2])

	assert.Error(t, json.Unmarshal([]byte(`{"files":{"x":{"type":"fifo"}}}`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"files":{"x":{"type":"file"}}}`), &m))
}

func TestJavaKey(t *testing.T) {
	for name, tc := range map[string]struct {
		p   rules.Platform
		key string
		exe string
	}{
		"linux":         {rules.Platform{OS: rules.OSLinux, Arch: rules.ArchX86_64}, "linux", "bin/java"},
		"linux-i386":    {rules.Platform{OS: rules.OSLinux, Arch: rules.ArchX86}, "linux-i386", "bin/java"},
		"mac-os":        {rules.Platform{OS: rules.OSMacOS, Arch: rules.ArchX86_64}, "mac-os", "jre.bundle/Contents/Home/bin/java"},
		"mac-os-arm64":  {rules.Platform{OS: rules.OSMacOS, Arch: rules.ArchAarch64}, "mac-os-arm64", "jre.bundle/Contents/Home/bin/java"},
		"windows-x86":   {rules.Platform{OS: rules.OSWindows, Arch: rules.ArchX86}, "windows-x86", "bin/javaw.exe"},
		"windows-x64":   {rules.Platform{OS: rules.OSWindows, Arch: rules.ArchX86_64}, "windows-x64", "bin/javaw.exe"},
		"windows-arm64": {rules.Platform{OS: rules.OSWindows, Arch: rules.ArchAarch64}, "windows-arm64", "bin/javaw.exe"},
	} {
		t.Run(name, func(t *testing.T) {
			key, err := JavaKey(tc.p)
			require.NoError(t, err)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.exe, JavaExecutable(key))
		})
	}

	_, err := JavaKey(rules.Platform{OS: "plan9", Arch: rules.ArchX86_64})
	assert.ErrorIs(t, err, acqerr.ErrContract)
	_, err = JavaKey(rules.Platform{OS: rules.OSWindows, Arch: "mips"})
	assert.ErrorIs(t, err, acqerr.ErrContract)
}

func TestJavaManifestMap_Runtime(t *testing.T) {
	var m JavaManifestMap
	require.NoError(t, json.Unmarshal([]byte(`{"linux": {
		"java-runtime-gamma": [{"manifest": {"sha1": "m", "size": 1, "url": "https://runtime.test/m.json"}, "version": {"name": "17.0.8", "released": "2023-07-18T00:00:00+00:00"}}],
		"jre-legacy": []
	}}`), &m))

	rt, err := m.Runtime("linux", "java-runtime-gamma")
	require.NoError(t, err)
	assert.Equal(t, "java/17.0.8", rt.Dir())
	assert.Equal(t, "java/17.0.8.json", RuntimeManifestFile{rt}.Path())

	_, err = m.Runtime("linux", "jre-legacy")
	assert.ErrorIs(t, err, acqerr.ErrContract)
	_, err = m.Runtime("mac-os", "java-runtime-gamma")
	assert.ErrorIs(t, err, acqerr.ErrContract)
}

func TestLibrary_Classifier(t *testing.T) {
	var lib Library
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "org.lwjgl.lwjgl:lwjgl-platform:2.9.4",
		"downloads": {"classifiers": {
			"natives-linux": {"path": "lwjgl-platform-natives-linux.jar", "sha1": "l", "size": 1, "url": "https://libraries.test/l.jar"},
			"natives-windows-64": {"path": "lwjgl-platform-natives-windows-64.jar", "sha1": "w", "size": 1, "url": "https://libraries.test/w.jar"}
		}},
		"natives": {"linux": "natives-linux", "windows": "natives-windows-${arch}", "osx": "natives-osx"},
		"extract": {"exclude": ["META-INF/"]}
	}`), &lib))

	_, ok := lib.File()
	assert.False(t, ok)

	f, key, ok := lib.Classifier(rules.Platform{OS: rules.OSWindows, Arch: rules.ArchX86_64})
	require.True(t, ok)
	assert.Equal(t, "natives-windows-64", key)
	assert.Equal(t, "libraries/lwjgl-platform-natives-windows-64.jar", f.Path())
	assert.Equal(t, "org.lwjgl.lwjgl:lwjgl-platform:2.9.4:natives-windows-64", f.Name())
	assert.Equal(t, []string{"META-INF/"}, f.Exclude)

	_, key, ok = lib.Classifier(rules.Platform{OS: rules.OSMacOS, Arch: rules.ArchX86_64})
	assert.False(t, ok)
	assert.Equal(t, "natives-osx", key)
}
