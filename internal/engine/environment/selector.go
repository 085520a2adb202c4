// Package environment selects, verifies and downloads the launcher pinned by a project.
package environment

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.trai.ch/bonsai/internal/adapters/archive"
	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/adapters/telemetry"
	"go.trai.ch/bonsai/internal/build"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

// Selector resolves which launcher a project uses and makes sure it is present and intact.
type Selector struct {
	mu          sync.Mutex
	current     domain.BootstrapperInfo
	currentDone bool
	checksums   map[string]string

	packageID  string
	releaseURL string
	cacheDir   string

	downloader ports.Downloader
	telemetry  ports.Telemetry
	logger     ports.Logger
	hasher     *bfs.Hasher
	verifier   *bfs.Verifier
	cleanup    *bfs.Cleanup
}

// Option configures a Selector.
type Option func(*Selector)

// WithCurrent describes the running launcher. An empty checksum is computed from the file on demand.
func WithCurrent(info domain.BootstrapperInfo) Option {
	return func(s *Selector) {
		s.current = info
	}
}

// WithDownloader sets the downloader used to fetch release archives.
func WithDownloader(d ports.Downloader) Option {
	return func(s *Selector) {
		s.downloader = d
	}
}

// WithChecksums replaces the table of pinned launcher checksums.
func WithChecksums(table map[string]string) Option {
	return func(s *Selector) {
		s.checksums = maps.Clone(table)
	}
}

// WithLogger sets the logger.
func WithLogger(logger ports.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// WithProgress sets the telemetry that reports download progress.
func WithProgress(t ports.Telemetry) Option {
	return func(s *Selector) {
		s.telemetry = t
	}
}

// WithReleaseURL sets the release archive URL template.
func WithReleaseURL(template string) Option {
	return func(s *Selector) {
		s.releaseURL = template
	}
}

// WithCacheDir sets the folder holding download staging directories.
func WithCacheDir(dir string) Option {
	return func(s *Selector) {
		s.cacheDir = dir
	}
}

// WithLauncherPackageID sets the package id that pins the launcher version in a project.
func WithLauncherPackageID(id string) Option {
	return func(s *Selector) {
		s.packageID = id
	}
}

// WithVerifier sets the verifier that checks local launchers against their pins.
func WithVerifier(v *bfs.Verifier) Option {
	return func(s *Selector) {
		s.verifier = v
	}
}

// WithCleanup sets the best effort file operations used for companion files.
func WithCleanup(c *bfs.Cleanup) Option {
	return func(s *Selector) {
		s.cleanup = c
	}
}

// New creates a Selector.
func New(opts ...Option) *Selector {
	hasher := bfs.NewHasher()
	s := &Selector{
		checksums:  KnownChecksums(),
		packageID:  domain.LauncherPackageID,
		releaseURL: domain.DefaultReleaseURL,
		cacheDir:   os.TempDir(),
		telemetry:  telemetry.NewNoop(),
		hasher:     hasher,
		verifier:   bfs.NewVerifier(hasher),
		cleanup:    bfs.NewCleanup(bfs.NewWalker()),
	}
	if path, err := os.Executable(); err == nil {
		s.current = domain.BootstrapperInfo{Path: path, Version: build.Version}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current describes the running launcher. Its checksum is computed on first use and becomes
// the pin for its own version.
func (s *Selector) Current() domain.BootstrapperInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentDone {
		s.currentDone = true
		if s.current.Checksum == "" && s.current.Path != "" {
			if sum, err := s.hasher.ComputeChecksum(s.current.Path); err == nil {
				s.current.Checksum = sum
			}
		}
		if s.current.Version != "" && s.current.Checksum != "" {
			if _, ok := s.checksums[s.current.Version]; !ok {
				s.checksums[s.current.Version] = s.current.Checksum
			}
		}
	}
	return s.current
}

func (s *Selector) checksum(version string) string {
	current := s.Current()

	s.mu.Lock()
	defer s.mu.Unlock()
	if sum, ok := s.checksums[version]; ok {
		return sum
	}
	if version == current.Version {
		return current.Checksum
	}
	return ""
}

// TryGetLocalBootstrapper searches startPath and its ancestors for a project pin file and
// describes the launcher it pins. Without a pin the running launcher is returned with false.
func (s *Selector) TryGetLocalBootstrapper(startPath string) (domain.BootstrapperInfo, bool) {
	if startPath == "" {
		return s.Current(), false
	}

	dir, err := filepath.Abs(startPath)
	if err != nil {
		return s.Current(), false
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		configPath := domain.ProjectConfigurationPath(dir)
		if version, ok := s.pinnedVersion(configPath); ok {
			return domain.BootstrapperInfo{
				Path:     domain.LauncherPathFor(configPath),
				Version:  version,
				Checksum: s.checksum(version),
			}, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return s.Current(), false
		}
		dir = parent
	}
}

// pinnedVersion reads the launcher package version from a pin file. Missing or unreadable
// files yield false.
func (s *Selector) pinnedVersion(configPath string) (string, bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(configPath); err != nil {
		return "", false
	}
	for _, e := range doc.FindElements("./PackageConfiguration/Packages//Package") {
		if e.SelectAttrValue("id", "") != s.packageID {
			continue
		}
		if attr := e.SelectAttr("version"); attr != nil {
			return attr.Value, true
		}
	}
	return "", false
}

// TryInitializeLocalBootstrapper reports whether the launcher described by info is ready to use.
// An existing file must match the pinned checksum. A missing launcher of the running version is
// created by copying the running launcher.
func (s *Selector) TryInitializeLocalBootstrapper(info domain.BootstrapperInfo) (string, bool, error) {
	if err := s.checkSupported(info); err != nil {
		return "", false, err
	}

	exists, valid, err := s.verifier.Verify(info.Path, info.Checksum)
	if err != nil {
		return "", false, err
	}
	if exists {
		if !valid {
			return "", false, zerr.With(domain.ErrInvalidBootstrapperChecksum, "path", info.Path)
		}
		return info.Path, true, nil
	}

	current := s.Current()
	if current.Path == "" || info.Version != current.Version {
		return "", false, nil
	}

	if err := bfs.CopyFileAtomic(current.Path, info.Path, domain.ExecPerm); err != nil {
		return "", false, err
	}
	s.copySourceSettings(filepath.Dir(current.Path), filepath.Dir(info.Path), false)
	return info.Path, true, nil
}

// EnsureBootstrapperExecutable makes sure the launcher described by info exists and matches its
// pinned checksum, downloading it when needed, and returns its path.
func (s *Selector) EnsureBootstrapperExecutable(ctx context.Context, info domain.BootstrapperInfo) (string, error) {
	if err := s.checkSupported(info); err != nil {
		return "", err
	}

	path, ok, err := s.TryInitializeLocalBootstrapper(info)
	if err != nil {
		return "", err
	}
	if ok {
		return path, nil
	}

	if err := s.DownloadBootstrapperExecutable(ctx, info); err != nil {
		return "", err
	}
	return info.Path, nil
}

// checkSupported rejects launchers without a pinned checksum.
func (s *Selector) checkSupported(info domain.BootstrapperInfo) error {
	if info.Supported() {
		return nil
	}
	err := zerr.With(domain.ErrUnsupportedBootstrapperVersion, "version", info.Version)
	err = zerr.With(err, "config", domain.ProjectConfigurationPath(filepath.Dir(filepath.Dir(info.Path))))
	return zerr.With(err, "current_version", s.Current().Version)
}

// DownloadBootstrapperExecutable downloads the release archive of info.Version into a fresh
// staging folder and moves the launcher into info.Path once its checksum matches the pin.
func (s *Selector) DownloadBootstrapperExecutable(ctx context.Context, info domain.BootstrapperInfo) (err error) {
	if err := s.checkSupported(info); err != nil {
		return err
	}
	if s.downloader == nil {
		return zerr.With(domain.ErrDownloadFailed, "reason", "no downloader configured")
	}

	name := fmt.Sprintf("Downloading %s %s", domain.LauncherName, info.Version)
	if s.logger != nil {
		s.logger.Info(name + "...")
	}
	ctx, vertex := s.telemetry.Record(ctx, name)
	defer func() { vertex.Complete(err) }()

	staging := filepath.Join(s.cacheDir, uuid.NewString())
	if err := os.MkdirAll(staging, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", staging)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	launcherName := filepath.Base(info.Path)
	archivePath := filepath.Join(staging, strings.TrimSuffix(launcherName, filepath.Ext(launcherName))+".zip")
	if err := s.download(ctx, ReleaseURL(s.releaseURL, info.Version), archivePath, vertex); err != nil {
		return err
	}

	extracted := filepath.Join(staging, "release")
	if _, err := archive.Extract(archivePath, extracted, nil); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrArchiveExtractFailed.Error()), "path", archivePath)
	}

	launcher := filepath.Join(extracted, launcherName)
	if !bfs.Exists(launcher) {
		return zerr.With(zerr.With(domain.ErrBootstrapperMissingFromPackage, "file", launcherName), "version", info.Version)
	}
	actual, err := s.hasher.ComputeChecksum(launcher)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, info.Checksum) {
		err := zerr.With(domain.ErrInvalidDownloadChecksum, "version", domain.LauncherName+" "+info.Version)
		err = zerr.With(err, "expected", info.Checksum)
		return zerr.With(err, "actual", actual)
	}

	if err := promote(launcher, info.Path); err != nil {
		return err
	}
	s.copySourceSettings(extracted, filepath.Dir(info.Path), true)
	return nil
}

func (s *Selector) download(ctx context.Context, url, path string, vertex ports.Vertex) error {
	f, err := os.Create(path) //nolint:gosec // Path is inside a fresh staging folder
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", path)
	}
	if err := s.downloader.Download(ctx, url, f, vertex.Progress); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", path)
	}
	return nil
}

// promote copies a verified launcher beside target and renames it into place.
func promote(src, target string) error {
	tmp := target + ".tmp"
	if err := bfs.CopyFile(src, tmp, domain.ExecPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", tmp)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", target)
	}
	return nil
}

// copySourceSettings brings the package source settings file along with a launcher. An
// existing file is kept.
func (s *Selector) copySourceSettings(srcDir, dstDir string, move bool) {
	src := filepath.Join(srcDir, domain.PackageSourcesFileName)
	dst := filepath.Join(dstDir, domain.PackageSourcesFileName)
	if bfs.Exists(dst) {
		return
	}
	if move {
		s.cleanup.TryMoveFile(src, dst)
		return
	}
	s.cleanup.TryCopyFile(src, dst)
}
