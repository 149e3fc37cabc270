package manifest

import (
	"encoding/json"
	"fmt"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"github.com/mrmelon54/mc-launcher-core/rules"
	"strings"
)

// Version is a per-version manifest. It is not modified after parsing.
type Version struct {
	Id                 string        `json:"id"`
	Type               string        `json:"type"`
	MainClass          string        `json:"mainClass"`
	Arguments          Arguments     `json:"arguments"`
	MinecraftArguments string        `json:"minecraftArguments,omitempty"`
	AssetIndex         AssetIndexRef `json:"assetIndex"`
	Assets             string        `json:"assets"`
	Downloads          struct {
		Client *Artifact `json:"client"`
		Server *Artifact `json:"server"`
	} `json:"downloads"`
	JavaVersion JavaVersion `json:"javaVersion"`
	Libraries   []Library   `json:"libraries"`
	Logging     struct {
		Client *LoggingConfig `json:"client"`
	} `json:"logging"`
}

type JavaVersion struct {
	Component    string `json:"component"`
	MajorVersion int    `json:"majorVersion"`
}

type Arguments struct {
	Game []Argument `json:"game"`
	JVM  []Argument `json:"jvm"`
}

// Argument is a literal string or a rule guarded group of values. A guarded
// group is included or dropped as a whole.
type Argument struct {
	Rules  []rules.Rule
	Values []string
}

func Literal(s string) Argument { return Argument{Values: []string{s}} }

func (a *Argument) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Literal(s)
		return nil
	}
	var c struct {
		Rules []rules.Rule    `json:"rules"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return err
	}
	a.Rules = c.Rules
	if err := json.Unmarshal(c.Value, &s); err == nil {
		a.Values = []string{s}
		return nil
	}
	return json.Unmarshal(c.Value, &a.Values)
}

func (a Argument) MarshalJSON() ([]byte, error) {
	if a.Rules == nil && len(a.Values) == 1 {
		return json.Marshal(a.Values[0])
	}
	return json.Marshal(struct {
		Rules []rules.Rule `json:"rules"`
		Value []string     `json:"value"`
	}{a.Rules, a.Values})
}

// GameArguments returns the game argument list. Versions from before the
// structured argument format carry a single space separated string.
func (v *Version) GameArguments() []Argument {
	if len(v.Arguments.Game) > 0 || v.MinecraftArguments == "" {
		return v.Arguments.Game
	}
	fields := strings.Fields(v.MinecraftArguments)
	a := make([]Argument, len(fields))
	for i, f := range fields {
		a[i] = Literal(f)
	}
	return a
}

// JVMArguments returns the JVM argument list, falling back to the fixed
// launcher defaults for versions without one.
func (v *Version) JVMArguments() []Argument {
	if len(v.Arguments.JVM) > 0 {
		return v.Arguments.JVM
	}
	return []Argument{
		Literal("-Djava.library.path=${natives_directory}"),
		Literal("-cp"),
		Literal("${classpath}"),
	}
}

type Artifact struct {
	Path string `json:"path,omitempty"`
	Sha1 string `json:"sha1"`
	Size int64  `json:"size"`
	Url  string `json:"url"`
}

// ClientJar is the game jar download of a version.
type ClientJar struct {
	VersionId string
	Artifact  Artifact
}

var _ downloader.Downloadable = ClientJar{}

func (c ClientJar) Name() string { return c.VersionId + " client" }
func (c ClientJar) URL() string  { return c.Artifact.Url }
func (c ClientJar) Hash() string { return c.Artifact.Sha1 }
func (c ClientJar) Path() string { return fmt.Sprintf("versions/%s/client.jar", c.VersionId) }

// ClientJar returns the client download, or false when the version has none.
func (v *Version) ClientJar() (ClientJar, bool) {
	if v.Downloads.Client == nil {
		return ClientJar{}, false
	}
	return ClientJar{VersionId: v.Id, Artifact: *v.Downloads.Client}, true
}

type LoggingConfig struct {
	Argument string      `json:"argument"`
	File     LoggingFile `json:"file"`
	Type     string      `json:"type"`
}

type LoggingFile struct {
	Id   string `json:"id"`
	Sha1 string `json:"sha1"`
	Size int64  `json:"size"`
	Url  string `json:"url"`
}

var _ downloader.Downloadable = LoggingFile{}

func (l LoggingFile) Name() string { return l.Id }
func (l LoggingFile) URL() string  { return l.Url }
func (l LoggingFile) Hash() string { return l.Sha1 }
func (l LoggingFile) Path() string { return "logging/" + l.Id }
