package manifest

import (
	"encoding/json"
	"fmt"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"github.com/mrmelon54/mc-launcher-core/rules"
	"slices"
	"strings"
	"time"
)

// JavaManifestMap maps a platform key to its runtime components.
type JavaManifestMap map[string]JavaPlatform

// JavaPlatform maps a component name to its published runtimes. Most
// components have zero or one entry.
type JavaPlatform map[string][]JavaRuntime

type JavaRuntime struct {
	Availability struct {
		Group    int `json:"group"`
		Progress int `json:"progress"`
	} `json:"availability"`
	Manifest struct {
		Sha1 string `json:"sha1"`
		Size int64  `json:"size"`
		Url  string `json:"url"`
	} `json:"manifest"`
	Version struct {
		Name     string    `json:"name"`
		Released time.Time `json:"released"`
	} `json:"version"`
}

// RuntimeManifestFile is the cached runtime manifest, stored next to the
// runtime directory it describes.
type RuntimeManifestFile struct {
	JavaRuntime
}

var _ downloader.Downloadable = RuntimeManifestFile{}

func (r RuntimeManifestFile) Name() string { return "java " + r.Version.Name }
func (r RuntimeManifestFile) URL() string  { return r.Manifest.Url }
func (r RuntimeManifestFile) Hash() string { return r.Manifest.Sha1 }
func (r RuntimeManifestFile) Path() string { return "java/" + r.Version.Name + ".json" }

// Dir is the runtime's directory relative to the data root.
func (r JavaRuntime) Dir() string { return "java/" + r.Version.Name }

// Runtime selects the runtime for component on platform key. A missing key or
// component is a contract error.
func (m JavaManifestMap) Runtime(key, component string) (JavaRuntime, error) {
	platform, ok := m[key]
	if !ok {
		return JavaRuntime{}, acqerr.Contract("java manifest has no platform %q", key)
	}
	runtimes := platform[component]
	if len(runtimes) == 0 {
		return JavaRuntime{}, acqerr.Contract("java runtime component %q is not available for %s", component, key)
	}
	return runtimes[0], nil
}

// JavaKey maps p to a java manifest platform key.
func JavaKey(p rules.Platform) (string, error) {
	switch p.OS {
	case rules.OSLinux:
		if p.Arch == rules.ArchX86 {
			return "linux-i386", nil
		}
		return "linux", nil
	case rules.OSMacOS:
		if p.Arch == rules.ArchAarch64 {
			return "mac-os-arm64", nil
		}
		return "mac-os", nil
	case rules.OSWindows:
		switch p.Arch {
		case rules.ArchX86:
			return "windows-x86", nil
		case rules.ArchX86_64:
			return "windows-x64", nil
		case rules.ArchAarch64:
			return "windows-arm64", nil
		}
		return "", acqerr.Contract("unsupported windows architecture %q", p.Arch)
	}
	return "", acqerr.Contract("unsupported operating system %q", p.OS)
}

// JavaExecutable is the java binary inside a runtime directory for key.
func JavaExecutable(key string) string {
	switch {
	case strings.HasPrefix(key, "mac-os"):
		return "jre.bundle/Contents/Home/bin/java"
	case strings.HasPrefix(key, "windows"):
		return "bin/javaw.exe"
	}
	return "bin/java"
}

// RuntimeEntry is one of RuntimeDirectory, RuntimeFile or RuntimeLink.
type RuntimeEntry interface {
	EntryPath() string
	isRuntimeEntry()
}

type RuntimeDirectory struct {
	RelPath string
}

type RuntimeDownload struct {
	Sha1 string `json:"sha1"`
	Size int64  `json:"size"`
	Url  string `json:"url"`
}

type RuntimeFile struct {
	RelPath    string
	Executable bool
	Raw        RuntimeDownload
	Lzma       *RuntimeDownload
}

type RuntimeLink struct {
	RelPath string
	Target  string
}

func (d RuntimeDirectory) EntryPath() string { return d.RelPath }
func (f RuntimeFile) EntryPath() string      { return f.RelPath }
func (l RuntimeLink) EntryPath() string      { return l.RelPath }

func (RuntimeDirectory) isRuntimeEntry() {}
func (RuntimeFile) isRuntimeEntry()      {}
func (RuntimeLink) isRuntimeEntry()      {}

var _ downloader.Downloadable = RuntimeFile{}

func (f RuntimeFile) Name() string { return f.RelPath }
func (f RuntimeFile) URL() string  { return f.Raw.Url }
func (f RuntimeFile) Hash() string { return f.Raw.Sha1 }
func (f RuntimeFile) Path() string { return f.RelPath }

// RuntimeManifest lists a java runtime's entries sorted by path.
type RuntimeManifest struct {
	Entries []RuntimeEntry
}

type runtimeManifestJson struct {
	Files map[string]struct {
		Type       string `json:"type"`
		Executable bool   `json:"executable"`
		Downloads  *struct {
			Raw  *RuntimeDownload `json:"raw"`
			Lzma *RuntimeDownload `json:"lzma"`
		} `json:"downloads"`
		Target string `json:"target"`
	} `json:"files"`
}

func (r *RuntimeManifest) UnmarshalJSON(b []byte) error {
	var raw runtimeManifestJson
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	entries := make([]RuntimeEntry, 0, len(raw.Files))
	for p, f := range raw.Files {
		switch f.Type {
		case "directory":
			entries = append(entries, RuntimeDirectory{RelPath: p})
		case "file":
			if f.Downloads == nil || f.Downloads.Raw == nil {
				return fmt.Errorf("runtime file %q has no raw download", p)
			}
			entries = append(entries, RuntimeFile{
				RelPath:    p,
				Executable: f.Executable,
				Raw:        *f.Downloads.Raw,
				Lzma:       f.Downloads.Lzma,
			})
		case "link":
			entries = append(entries, RuntimeLink{RelPath: p, Target: f.Target})
		default:
			return fmt.Errorf("runtime entry %q has unknown type %q", p, f.Type)
		}
	}
	slices.SortFunc(entries, func(a, b RuntimeEntry) int {
		return strings.Compare(a.EntryPath(), b.EntryPath())
	})
	r.Entries = entries
	return nil
}
