// Package resolve_versions turns version selectors such as "latest" or
// "1.20.x" into concrete version ids from a version manifest.
package resolve_versions

import (
	"github.com/Masterminds/semver/v3"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"slices"
)

const (
	Latest         = "latest"
	LatestRelease  = "latest-release"
	LatestSnapshot = "latest-snapshot"
)

// Resolve picks the version id named by selector. Exact ids win over
// constraints, so snapshot ids like "23w31a" resolve as themselves. A
// constraint resolves to the newest matching release.
func Resolve(m *manifest.VersionManifest, selector string) (string, error) {
	switch selector {
	case Latest, LatestRelease:
		return m.Latest.Release, nil
	case LatestSnapshot:
		return m.Latest.Snapshot, nil
	}
	if _, err := m.Find(selector); err == nil {
		return selector, nil
	}
	c, err := semver.NewConstraint(selector)
	if err != nil {
		return "", acqerr.VersionNotFound(selector)
	}
	a := MatchingConstraints(m.Releases(), c)
	if len(a) == 0 {
		return "", acqerr.VersionNotFound(selector)
	}
	return a[0], nil
}

// ResolveGameVersions lists every release matching any of constraints,
// newest first and without duplicates.
func ResolveGameVersions(constraints []*semver.Constraints, m *manifest.VersionManifest) []string {
	releases := m.Releases()
	verSet := mapset.NewThreadUnsafeSet[string]()
	for _, constraint := range constraints {
		verSet.Append(MatchingConstraints(releases, constraint)...)
	}
	a := make([]string, 0, verSet.Cardinality())
	for _, r := range releases {
		if id := toMcVersion(r); verSet.Contains(id) {
			a = append(a, id)
		}
	}
	return slices.Clip(a)
}
