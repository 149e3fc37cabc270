// Package launch_args turns a version's argument lists into the command line
// used to start the game.
package launch_args

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"github.com/mrmelon54/mc-launcher-core/rules"
	"strings"
)

// DefaultUserType is the account type passed for Microsoft accounts.
const DefaultUserType = "msa"

// Context holds every value known before an account is chosen.
type Context struct {
	Platform        rules.Platform
	LauncherName    string
	LauncherVersion string
	VersionId       string
	VersionType     string
	AssetIndex      string
	UserType        string

	NativesDir string
	GameDir    string
	AssetsDir  string
	Libraries  []string
	ClientJar  string

	// LoggingPath binds ${path} in the logging argument.
	LoggingPath string
}

// Classpath joins the library paths with the platform separator, dropping
// repeats, and appends the client jar last.
func (c Context) Classpath() string {
	seen := mapset.NewThreadUnsafeSet[string]()
	parts := make([]string, 0, len(c.Libraries)+1)
	for _, l := range c.Libraries {
		if l == c.ClientJar || !seen.Add(l) {
			continue
		}
		parts = append(parts, l)
	}
	if c.ClientJar != "" {
		parts = append(parts, c.ClientJar)
	}
	return strings.Join(parts, c.Platform.PathListSeparator())
}

// Values is the early substitution table. Late placeholders are absent.
func (c Context) Values() map[Placeholder]string {
	userType := c.UserType
	if userType == "" {
		userType = DefaultUserType
	}
	return map[Placeholder]string{
		NativesDirectory: c.NativesDir,
		LauncherName:     c.LauncherName,
		LauncherVersion:  c.LauncherVersion,
		Classpath:        c.Classpath(),
		VersionName:      c.VersionId,
		VersionType:      c.VersionType,
		GameDirectory:    c.GameDir,
		AssetsRoot:       c.AssetsDir,
		AssetsIndexName:  c.AssetIndex,
		UserType:         userType,
	}
}

// expand substitutes every argument whose rules pass for p.
func expand(args []manifest.Argument, p rules.Platform, values map[Placeholder]string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if len(a.Rules) > 0 {
			ok, err := p.Evaluate(a.Rules)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		for _, v := range a.Values {
			out = append(out, Substitute(v, values))
		}
	}
	return out, nil
}

// Build returns the JVM arguments, the main class and the game arguments of
// v in that order. When v has a client logging config and c.LoggingPath is
// set, its argument is the last JVM argument.
func Build(c Context, v *manifest.Version) ([]string, error) {
	values := c.Values()
	jvm, err := expand(v.JVMArguments(), c.Platform, values)
	if err != nil {
		return nil, err
	}
	if v.Logging.Client != nil && v.Logging.Client.Argument != "" && c.LoggingPath != "" {
		jvm = append(jvm, Substitute(v.Logging.Client.Argument, map[Placeholder]string{LoggingPath: c.LoggingPath}))
	}
	game, err := expand(v.GameArguments(), c.Platform, values)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(jvm)+1+len(game))
	out = append(out, jvm...)
	out = append(out, v.MainClass)
	out = append(out, game...)
	return out, nil
}
