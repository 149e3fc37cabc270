package launch_args

import (
	"strings"
)

// Placeholder is a token name found between "${" and "}" in an argument.
type Placeholder string

const (
	NativesDirectory Placeholder = "natives_directory"
	LauncherName     Placeholder = "launcher_name"
	LauncherVersion  Placeholder = "launcher_version"
	Classpath        Placeholder = "classpath"
	VersionName      Placeholder = "version_name"
	VersionType      Placeholder = "version_type"
	GameDirectory    Placeholder = "game_directory"
	AssetsRoot       Placeholder = "assets_root"
	AssetsIndexName  Placeholder = "assets_index_name"
	UserType         Placeholder = "user_type"
	LoggingPath      Placeholder = "path"

	AuthPlayerName   Placeholder = "auth_player_name"
	AuthUUID         Placeholder = "auth_uuid"
	AuthAccessToken  Placeholder = "auth_access_token"
	AuthXUID         Placeholder = "auth_xuid"
	ClientID         Placeholder = "clientid"
	ResolutionWidth  Placeholder = "resolution_width"
	ResolutionHeight Placeholder = "resolution_height"
)

// Late reports whether p is only resolvable once account or window state is
// known.
func (p Placeholder) Late() bool {
	switch p {
	case AuthPlayerName, AuthUUID, AuthAccessToken, AuthXUID, ClientID, ResolutionWidth, ResolutionHeight:
		return true
	}
	return false
}

type token struct {
	start, end int // s[start:end] is "${name}"
	name       Placeholder
}

// firstToken finds the first "${...}" in s.
func firstToken(s string) (token, bool) {
	start := strings.Index(s, "${")
	if start < 0 {
		return token{}, false
	}
	n := strings.IndexByte(s[start+2:], '}')
	if n < 0 {
		return token{}, false
	}
	end := start + 2 + n + 1
	return token{start: start, end: end, name: Placeholder(s[start+2 : end-1])}, true
}

// Tokens lists every placeholder in s in order of appearance.
func Tokens(s string) []Placeholder {
	var a []Placeholder
	for {
		t, ok := firstToken(s)
		if !ok {
			return a
		}
		a = append(a, t.name)
		s = s[t.end:]
	}
}

// Substitute replaces the first placeholder in s when values has it. Only one
// token is replaced per call. Strings without a token, or whose first token
// is unknown to values, are returned unchanged.
func Substitute(s string, values map[Placeholder]string) string {
	t, ok := firstToken(s)
	if !ok {
		return s
	}
	v, ok := values[t.name]
	if !ok {
		return s
	}
	return s[:t.start] + v + s[t.end:]
}
