// Package instance sequences manifest resolution, downloads, runtime
// materialization, native extraction and argument building into the
// creation of one named instance.
package instance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/go-git/go-billy/v5"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"github.com/mrmelon54/mc-launcher-core/database"
	"github.com/mrmelon54/mc-launcher-core/database/types"
	"github.com/mrmelon54/mc-launcher-core/downloader"
	java_runtime "github.com/mrmelon54/mc-launcher-core/java-runtime"
	launch_args "github.com/mrmelon54/mc-launcher-core/launch-args"
	"github.com/mrmelon54/mc-launcher-core/manifest"
	"github.com/mrmelon54/mc-launcher-core/natives"
	resolve_versions "github.com/mrmelon54/mc-launcher-core/resolve-versions"
	"github.com/mrmelon54/mc-launcher-core/rules"
	"go.uber.org/zap"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultJavaComponent is used by versions that predate the javaVersion
// field.
const DefaultJavaComponent = "jre-legacy"

var (
	ErrInvalidName      = errors.New("invalid instance name")
	ErrInstanceExists   = errors.New("instance already exists")
	ErrInstanceNotFound = errors.New("instance not found")
)

// Store persists finished instance configurations.
type Store interface {
	AddInstance(ctx context.Context, arg database.AddInstanceParams) error
	GetInstance(ctx context.Context, name string) (database.Instance, error)
}

var _ Store = &database.Queries{}

type Config struct {
	Platform                rules.Platform
	LauncherName            string
	LauncherVersion         string
	PreferCompressedRuntime bool
}

// Configuration is the terminal artifact of CreateInstance. Failed names the
// downloads that did not succeed; they are fetched again by the next
// instance that needs them.
type Configuration struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	RuntimePath string   `json:"runtime_path"`
	Arguments   []string `json:"arguments"`
	Failed      []string `json:"failed,omitempty"`
}

type Orchestrator struct {
	root         billy.Filesystem
	d            *downloader.Downloader
	client       *manifest.Client
	cache        *manifest.Cache
	materializer *java_runtime.Materializer
	extractor    *natives.Extractor
	store        Store
	conf         Config
	logger       *zap.Logger
}

// New builds an orchestrator writing below root. root must be backed by the
// operating system filesystem.
func New(root billy.Filesystem, d *downloader.Downloader, client *manifest.Client, cache *manifest.Cache, store Store, conf Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		root:         root,
		d:            d,
		client:       client,
		cache:        cache,
		materializer: java_runtime.NewMaterializer(d, conf.PreferCompressedRuntime, logger),
		extractor:    natives.NewExtractor(logger),
		store:        store,
		conf:         conf,
		logger:       logger.Named("instance"),
	}
}

func (o *Orchestrator) abs(rel string) string {
	return filepath.Join(o.root.Root(), filepath.FromSlash(rel))
}

// InstanceDir is the game directory of the named instance.
func (o *Orchestrator) InstanceDir(name string) string {
	return o.abs(path.Join("instances", name))
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\:`)
}

// batch runs one download batch. Failed items are logged and returned, they
// never fail the stage.
func batch[T downloader.Downloadable](ctx context.Context, o *Orchestrator, stage string, items []T) downloader.BatchResult {
	res := downloader.FetchAll(ctx, o.d, o.root, items, downloader.VerifyAndWrite[T])
	o.logger.Debug("Stage settled", zap.String("stage", stage), zap.Int("fetched", res.Fetched), zap.Int("skipped", res.Skipped))
	if mismatched := res.Mismatches(); len(mismatched) > 0 {
		o.logger.Error("Downloads failed verification", zap.String("stage", stage), zap.Strings("names", mismatched))
	}
	if n := len(res.Failures); n > 0 {
		o.logger.Warn("Stage finished with failures", zap.String("stage", stage), zap.Int("failed", n), zap.Error(res.Err()))
	}
	return res
}

func failedNames(res downloader.BatchResult) []string {
	a := make([]string, len(res.Failures))
	for i, f := range res.Failures {
		a[i] = f.Name
	}
	return a
}

// CreateInstance acquires everything versionId needs and stores a new
// instance called name. versionId may also be a selector understood by
// resolve_versions.Resolve. Shared artifacts downloaded before a failure stay
// cached for the next attempt.
func (o *Orchestrator) CreateInstance(ctx context.Context, versionId, name string) (*Configuration, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	o.cache.Ensure()
	var conf *Configuration
	err := o.cache.Hold(func(m *manifest.VersionManifest) error {
		// checked under the lock so concurrent creates of one name cannot both pass
		if _, err := o.store.GetInstance(ctx, name); err == nil {
			return fmt.Errorf("%w: %s", ErrInstanceExists, name)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return acqerr.IO("read instance store", err)
		}
		id, err := resolve_versions.Resolve(m, versionId)
		if err != nil {
			return err
		}
		entry, err := m.Find(id)
		if err != nil {
			return err
		}
		conf, err = o.create(ctx, entry, name)
		return err
	})
	return conf, err
}

func (o *Orchestrator) create(ctx context.Context, entry manifest.VersionEntry, name string) (*Configuration, error) {
	start := time.Now()
	p := o.conf.Platform
	v, err := o.client.Version(ctx, entry)
	if err != nil {
		return nil, err
	}

	// libraries and their native classifiers
	var libs, classifiers []manifest.LibraryFile
	for i := range v.Libraries {
		lib := &v.Libraries[i]
		ok, err := lib.Allowed(p)
		if err != nil {
			return nil, fmt.Errorf("library %s: %w", lib.Name, err)
		}
		if !ok {
			continue
		}
		if f, ok := lib.File(); ok {
			libs = append(libs, f)
		}
		f, key, ok := lib.Classifier(p)
		switch {
		case ok:
			classifiers = append(classifiers, f)
		case key != "":
			o.logger.Warn("Library has no classifier for this platform", zap.String("library", lib.Name), zap.String("classifier", key))
		}
	}
	var failed []string
	res := batch(ctx, o, "libraries", append(append([]manifest.LibraryFile{}, libs...), classifiers...))
	failed = append(failed, failedNames(res)...)
	if !res.OK() {
		// natives are only extracted from classifiers that arrived
		missing := mapset.NewThreadUnsafeSet(failed...)
		kept := classifiers[:0:0]
		for _, f := range classifiers {
			if !missing.Contains(f.Name()) {
				kept = append(kept, f)
			}
		}
		classifiers = kept
	}

	// the game cannot start without its jar
	jar, ok := v.ClientJar()
	if !ok {
		return nil, acqerr.Contract("version %s has no client download", v.Id)
	}
	if err := batch(ctx, o, "client jar", []manifest.ClientJar{jar}).Err(); err != nil {
		return nil, fmt.Errorf("client jar: %w", err)
	}

	runtimePath, runtimeFailed, err := o.javaRuntime(ctx, v)
	if err != nil {
		return nil, err
	}
	failed = append(failed, runtimeFailed...)

	var loggingPath string
	if v.Logging.Client != nil {
		lf := v.Logging.Client.File
		res := batch(ctx, o, "logging config", []manifest.LoggingFile{lf})
		failed = append(failed, failedNames(res)...)
		if res.OK() {
			loggingPath = o.abs(lf.Path())
		}
	}

	idx, err := o.client.AssetIndex(ctx, v.AssetIndex)
	if err != nil {
		return nil, err
	}
	failed = append(failed, failedNames(batch(ctx, o, "assets", idx.Files(o.client.Endpoints().Resources)))...)

	instDir := path.Join("instances", name)
	nativesDir := path.Join(instDir, "natives")
	if err := o.root.MkdirAll(nativesDir, 0o755); err != nil {
		return nil, acqerr.IO("create instance directory", err)
	}

	libPaths := make([]string, len(libs))
	for i, l := range libs {
		libPaths[i] = o.abs(l.Path())
	}
	args, err := launch_args.Build(launch_args.Context{
		Platform:        p,
		LauncherName:    o.conf.LauncherName,
		LauncherVersion: o.conf.LauncherVersion,
		VersionId:       v.Id,
		VersionType:     v.Type,
		AssetIndex:      v.AssetIndex.Id,
		NativesDir:      o.abs(nativesDir),
		GameDir:         o.abs(instDir),
		AssetsDir:       o.abs("assets"),
		Libraries:       libPaths,
		ClientJar:       o.abs(jar.Path()),
		LoggingPath:     loggingPath,
	}, v)
	if err != nil {
		return nil, err
	}

	nativesFs, err := o.root.Chroot(nativesDir)
	if err != nil {
		return nil, acqerr.IO("open natives directory", err)
	}
	if _, err := o.extractor.ExtractAll(o.root, nativesFs, classifiers); err != nil {
		return nil, err
	}

	conf := &Configuration{Name: name, Version: v.Id, RuntimePath: runtimePath, Arguments: args, Failed: failed}
	err = o.store.AddInstance(ctx, database.AddInstanceParams{
		ID:          uuid.New(),
		Name:        name,
		Version:     v.Id,
		RuntimePath: runtimePath,
		Arguments:   types.Arguments(args),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, acqerr.IO("store instance", err)
	}
	o.logger.Info("Created instance",
		zap.String("name", name),
		zap.String("version", v.Id),
		zap.Int("libraries", len(libs)),
		zap.Int("natives", len(classifiers)),
		zap.Int("failed", len(failed)),
		zap.Duration("took", time.Since(start)),
	)
	return conf, nil
}

// javaRuntime materializes the runtime v asks for and returns the absolute
// path of its java executable along with the runtime files that failed.
func (o *Orchestrator) javaRuntime(ctx context.Context, v *manifest.Version) (string, []string, error) {
	key, err := manifest.JavaKey(o.conf.Platform)
	if err != nil {
		return "", nil, err
	}
	jm, err := o.client.JavaManifest(ctx)
	if err != nil {
		return "", nil, err
	}
	component := v.JavaVersion.Component
	if component == "" {
		component = DefaultJavaComponent
	}
	rt, err := jm.Runtime(key, component)
	if err != nil {
		return "", nil, err
	}
	rm, err := o.client.RuntimeManifest(ctx, rt)
	if err != nil {
		return "", nil, err
	}
	rtFs, err := o.root.Chroot(rt.Dir())
	if err != nil {
		return "", nil, acqerr.IO("open runtime directory", err)
	}
	res, err := o.materializer.Materialize(ctx, rtFs, rm)
	if err != nil {
		return "", nil, fmt.Errorf("java runtime %s: %w", rt.Version.Name, err)
	}
	failed := failedNames(res.Files)
	for i := range failed {
		failed[i] = path.Join(rt.Dir(), failed[i])
	}
	return o.abs(path.Join(rt.Dir(), manifest.JavaExecutable(key))), failed, nil
}

// LaunchArguments loads a stored instance and returns its command line, java
// executable first, with account and resolution placeholders bound.
func (o *Orchestrator) LaunchArguments(ctx context.Context, name string, acc launch_args.Account, res *launch_args.Resolution) ([]string, error) {
	inst, err := o.store.GetInstance(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, name)
	} else if err != nil {
		return nil, acqerr.IO("read instance store", err)
	}
	args := launch_args.BindLate(inst.Arguments, acc, res)
	if pending := launch_args.Pending(args); len(pending) > 0 {
		o.logger.Debug("Unbound launch placeholders", zap.String("name", name), zap.Any("placeholders", pending))
	}
	return append([]string{inst.RuntimePath}, args...), nil
}
