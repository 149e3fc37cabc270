package manifest

import (
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"github.com/mrmelon54/mc-launcher-core/rules"
	"strings"
)

type Library struct {
	Name      string `json:"name"`
	Downloads struct {
		Artifact    *Artifact           `json:"artifact,omitempty"`
		Classifiers map[string]Artifact `json:"classifiers,omitempty"`
	} `json:"downloads"`
	Rules   []rules.Rule      `json:"rules,omitempty"`
	Natives map[string]string `json:"natives,omitempty"`
	Extract *struct {
		Exclude []string `json:"exclude"`
	} `json:"extract,omitempty"`
}

// LibraryFile is a library jar or one of its native classifiers, stored under
// libraries/ in the data directory.
type LibraryFile struct {
	Library    string
	Classifier string
	Artifact   Artifact
	Exclude    []string
}

var _ downloader.Downloadable = LibraryFile{}

func (l LibraryFile) Name() string {
	if l.Classifier != "" {
		return l.Library + ":" + l.Classifier
	}
	return l.Library
}
func (l LibraryFile) URL() string  { return l.Artifact.Url }
func (l LibraryFile) Hash() string { return l.Artifact.Sha1 }
func (l LibraryFile) Path() string { return "libraries/" + l.Artifact.Path }

// Allowed evaluates the library's rules for p.
func (l *Library) Allowed(p rules.Platform) (bool, error) {
	return p.Evaluate(l.Rules)
}

// File returns the main artifact of the library, if it has one.
func (l *Library) File() (LibraryFile, bool) {
	if l.Downloads.Artifact == nil || l.Downloads.Artifact.Url == "" {
		return LibraryFile{}, false
	}
	return LibraryFile{Library: l.Name, Artifact: *l.Downloads.Artifact}, true
}

// ClassifierKey returns the native classifier name for p, or false when the
// library has no natives for that OS.
func (l *Library) ClassifierKey(p rules.Platform) (string, bool) {
	k, ok := l.Natives[p.ManifestOSName()]
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(k, "${arch}", p.PointerWidth()), true
}

// Classifier returns the single native artifact selected for p. The key is
// returned even when the classifier map has no matching entry.
func (l *Library) Classifier(p rules.Platform) (LibraryFile, string, bool) {
	k, ok := l.ClassifierKey(p)
	if !ok {
		return LibraryFile{}, "", false
	}
	a, ok := l.Downloads.Classifiers[k]
	if !ok {
		return LibraryFile{}, k, false
	}
	f := LibraryFile{Library: l.Name, Classifier: k, Artifact: a}
	if l.Extract != nil {
		f.Exclude = l.Extract.Exclude
	}
	return f, k, true
}
