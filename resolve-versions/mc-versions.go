package resolve_versions

import (
	"fmt"
	"github.com/Masterminds/semver/v3"
	"strings"
)

// toMcVersion formats ver the way Minecraft release ids are written, with
// the patch omitted when it is zero.
func toMcVersion(ver *semver.Version) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprint(ver.Major()))
	sb.WriteByte('.')
	sb.WriteString(fmt.Sprint(ver.Minor()))
	if ver.Patch() > 0 {
		sb.WriteByte('.')
		sb.WriteString(fmt.Sprint(ver.Patch()))
	}
	return sb.String()
}

// MatchingConstraints lists the release ids in releases that satisfy c,
// keeping the order of releases.
func MatchingConstraints(releases []*semver.Version, c *semver.Constraints) []string {
	a := make([]string, 0)
	for _, i := range releases {
		if c.Check(i) {
			a = append(a, toMcVersion(i))
		}
	}
	return a
}
