// Package config persists the package configuration as an XML document.
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/beevik/etree"
	bfs "go.trai.ch/bonsai/internal/adapters/fs"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/packaging"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigStore = (*Store)(nil)

// Store implements ports.ConfigStore on top of a Bonsai.config file.
type Store struct {
	baseDir string
	mu      sync.Mutex
}

// NewStore creates a Store whose default file lives in baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: filepath.Clean(baseDir)}
}

// DefaultPath returns the configuration file used when no path is given.
func (s *Store) DefaultPath() string {
	return domain.DefaultConfigurationPath(s.baseDir)
}

// Root returns the directory relative locations of cfg are resolved against.
func (s *Store) Root(cfg *domain.PackageConfiguration) string {
	return cfg.Root(s.baseDir)
}

// Load reads the configuration at path. A missing or empty file yields an empty configuration.
func (s *Store) Load(path string) (*domain.PackageConfiguration, error) {
	if path == "" {
		path = s.DefaultPath()
	}

	cfg := domain.NewPackageConfiguration()
	cfg.ConfigurationFile = path

	//nolint:gosec // Path is provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigurationReadFailed.Error()), "path", path)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	if err := Decode(data, cfg); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

// Save rewrites the whole configuration file and records the path on cfg.
func (s *Store) Save(cfg *domain.PackageConfiguration, path string) error {
	if path == "" {
		path = cfg.ConfigurationFile
	}
	if path == "" {
		path = s.DefaultPath()
	}

	data, err := Encode(cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := bfs.WriteFileAtomic(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigurationWriteFailed.Error()), "path", path)
	}
	cfg.ConfigurationFile = path
	return nil
}

// Decode parses a configuration document into cfg.
func Decode(data []byte, cfg *domain.PackageConfiguration) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return zerr.Wrap(err, domain.ErrConfigurationParseFailed.Error())
	}

	root := doc.SelectElement(elemRoot)
	if root == nil {
		return zerr.With(domain.ErrConfigurationParseFailed, "missing_element", elemRoot)
	}

	for _, e := range root.FindElements(elemPackages + "/" + elemPackage) {
		ref := domain.PackageReference{
			ID:      e.SelectAttrValue(attrID, ""),
			Version: e.SelectAttrValue(attrVersion, ""),
		}
		if err := cfg.Packages.Add(ref); err != nil {
			return zerr.Wrap(err, domain.ErrConfigurationParseFailed.Error())
		}
	}

	for _, e := range root.FindElements(elemAssemblyReferences + "/" + elemAssemblyReference) {
		ref := domain.AssemblyReference{AssemblyName: e.SelectAttrValue(attrAssemblyName, "")}
		if err := cfg.AssemblyReferences.Add(ref); err != nil {
			return zerr.Wrap(err, domain.ErrConfigurationParseFailed.Error())
		}
	}

	for _, e := range root.FindElements(elemAssemblyLocations + "/" + elemAssemblyLocation) {
		arch, err := domain.ParseProcessorArchitecture(e.SelectAttrValue(attrProcessorArchitecture, domain.ArchNone.String()))
		if err != nil {
			return zerr.Wrap(err, domain.ErrConfigurationParseFailed.Error())
		}
		loc := domain.AssemblyLocation{
			AssemblyName:          e.SelectAttrValue(attrAssemblyName, ""),
			ProcessorArchitecture: arch,
			Location:              packaging.ToSlash(e.SelectAttrValue(attrLocation, "")),
		}
		if err := cfg.AssemblyLocations.Add(loc); err != nil {
			return zerr.Wrap(err, domain.ErrConfigurationParseFailed.Error())
		}
	}

	for _, e := range root.FindElements(elemLibraryFolders + "/" + elemLibraryFolder) {
		folder := domain.LibraryFolder{
			Path:     packaging.ToSlash(e.SelectAttrValue(attrPath, "")),
			Platform: e.SelectAttrValue(attrPlatform, ""),
		}
		if err := cfg.LibraryFolders.Add(folder); err != nil {
			return zerr.Wrap(err, domain.ErrConfigurationParseFailed.Error())
		}
	}

	return nil
}

// Encode renders cfg as an indented configuration document. Entries are written in key
// order so encoding the same configuration always yields the same bytes.
func Encode(cfg *domain.PackageConfiguration) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement(elemRoot)

	packages := root.CreateElement(elemPackages)
	for _, p := range cfg.Packages.All() {
		e := packages.CreateElement(elemPackage)
		e.CreateAttr(attrID, p.ID)
		e.CreateAttr(attrVersion, p.Version)
	}

	references := root.CreateElement(elemAssemblyReferences)
	for _, r := range cfg.AssemblyReferences.All() {
		references.CreateElement(elemAssemblyReference).CreateAttr(attrAssemblyName, r.AssemblyName)
	}

	locations := root.CreateElement(elemAssemblyLocations)
	for _, l := range cfg.AssemblyLocations.All() {
		e := locations.CreateElement(elemAssemblyLocation)
		e.CreateAttr(attrAssemblyName, l.AssemblyName)
		e.CreateAttr(attrProcessorArchitecture, l.ProcessorArchitecture.String())
		e.CreateAttr(attrLocation, l.Location)
	}

	folders := root.CreateElement(elemLibraryFolders)
	for _, f := range cfg.LibraryFolders.All() {
		e := folders.CreateElement(elemLibraryFolder)
		e.CreateAttr(attrPath, f.Path)
		e.CreateAttr(attrPlatform, f.Platform)
	}

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigurationWriteFailed.Error())
	}
	return data, nil
}
