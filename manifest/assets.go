package manifest

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	"slices"
	"strings"
)

type AssetIndexRef struct {
	Id        string `json:"id"`
	Sha1      string `json:"sha1"`
	Size      int64  `json:"size"`
	TotalSize int64  `json:"totalSize"`
	Url       string `json:"url"`
}

var _ downloader.Downloadable = AssetIndexRef{}

func (a AssetIndexRef) Name() string { return "asset index " + a.Id }
func (a AssetIndexRef) URL() string  { return a.Url }
func (a AssetIndexRef) Hash() string { return a.Sha1 }
func (a AssetIndexRef) Path() string { return "assets/indexes/" + a.Id + ".json" }

type AssetIndex struct {
	Objects        map[string]AssetObject `json:"objects"`
	MapToResources bool                   `json:"map_to_resources,omitempty"`
	Virtual        bool                   `json:"virtual,omitempty"`
}

type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// AssetFile is a content addressed asset object download.
type AssetFile struct {
	AssetName string
	Object    AssetObject
	Resources string
}

var _ downloader.Downloadable = AssetFile{}

func (a AssetFile) key() string  { return a.Object.Hash[:2] + "/" + a.Object.Hash }
func (a AssetFile) Name() string { return a.AssetName }
func (a AssetFile) URL() string  { return strings.TrimSuffix(a.Resources, "/") + "/" + a.key() }
func (a AssetFile) Hash() string { return a.Object.Hash }
func (a AssetFile) Path() string { return "assets/objects/" + a.key() }

// Files returns one download per distinct object hash, ordered by asset name.
// resources is the base url objects are served from.
func (a *AssetIndex) Files(resources string) []AssetFile {
	names := make([]string, 0, len(a.Objects))
	for k := range a.Objects {
		names = append(names, k)
	}
	slices.Sort(names)

	seen := mapset.NewThreadUnsafeSet[string]()
	files := make([]AssetFile, 0, len(names))
	for _, n := range names {
		o := a.Objects[n]
		if len(o.Hash) < 2 || !seen.Add(o.Hash) {
			continue
		}
		files = append(files, AssetFile{AssetName: n, Object: o, Resources: resources})
	}
	return files
}
