package manifest

import (
	"github.com/Masterminds/semver/v3"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"regexp"
	"slices"
	"time"
)

const (
	TypeRelease  = "release"
	TypeSnapshot = "snapshot"
	TypeOldBeta  = "old_beta"
	TypeOldAlpha = "old_alpha"
)

// VersionManifest is the top level piston-meta version list.
type VersionManifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []VersionEntry `json:"versions"`
}

type VersionEntry struct {
	Id              string    `json:"id"`
	Type            string    `json:"type"`
	Url             string    `json:"url"`
	Time            time.Time `json:"time"`
	ReleaseTime     time.Time `json:"releaseTime"`
	Sha1            string    `json:"sha1"`
	ComplianceLevel int       `json:"complianceLevel"`
}

var _ downloader.Downloadable = VersionEntry{}

func (v VersionEntry) Name() string { return v.Id }
func (v VersionEntry) URL() string  { return v.Url }
func (v VersionEntry) Hash() string { return v.Sha1 }
func (v VersionEntry) Path() string { return "versions/" + v.Id + ".json" }

// Find returns the entry for id or a version not found error.
func (m *VersionManifest) Find(id string) (VersionEntry, error) {
	for _, v := range m.Versions {
		if v.Id == id {
			return v, nil
		}
	}
	return VersionEntry{}, acqerr.VersionNotFound(id)
}

// IDs lists version ids in manifest order. Only releases are listed unless
// includeSnapshots is set.
func (m *VersionManifest) IDs(includeSnapshots bool) []string {
	a := make([]string, 0, len(m.Versions))
	for _, v := range m.Versions {
		if includeSnapshots || v.Type == TypeRelease {
			a = append(a, v.Id)
		}
	}
	return a
}

var regexGameVersionId = regexp.MustCompile(`^[0-9]+\.[0-9]+(?:\.[0-9]+)?$`)

// Releases returns every semver shaped release id, newest first.
func (m *VersionManifest) Releases() []*semver.Version {
	a := make([]*semver.Version, 0)
	for _, i := range m.Versions {
		if i.Type != TypeRelease || !regexGameVersionId.MatchString(i.Id) {
			continue
		}
		v, err := semver.NewVersion(i.Id)
		if err != nil {
			continue
		}
		a = append(a, v)
	}
	slices.SortFunc(a, func(a, b *semver.Version) int {
		return b.Compare(a)
	})
	return a
}
