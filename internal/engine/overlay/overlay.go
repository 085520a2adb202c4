// Package overlay inspects packages for pivot companions and the version they are pinned to.
package overlay

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/packaging"
	"go.trai.ch/bonsai/internal/core/ports"
	"go.trai.ch/zerr"
)

const commentPrefix = "#"

var versionFlags = []string{"-version", "--version"}

// FindOverlayVersion returns the version following the version flag of the package overlay
// command, or "" when the package has no command or the command has no version flag.
func FindOverlayVersion(pkg ports.PackageReader) (string, error) {
	name, ok := packaging.FindFile(pkg, domain.OverlayCommandFileName)
	if !ok {
		return "", nil
	}
	data, err := readPackageFile(pkg, name)
	if err != nil {
		return "", err
	}
	return parseVersionFlag(string(data)), nil
}

func parseVersionFlag(command string) string {
	tokens := strings.Fields(command)
	for i, token := range tokens {
		flag, value, hasValue := strings.Cut(token, "=")
		if !isVersionFlag(flag) {
			continue
		}
		if hasValue {
			return unquote(value)
		}
		if i+1 < len(tokens) {
			return unquote(tokens[i+1])
		}
	}
	return ""
}

func isVersionFlag(token string) bool {
	for _, flag := range versionFlags {
		if strings.EqualFold(token, flag) {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	return strings.Trim(s, `"'`)
}

// PivotVersion returns the version pivots of pkg are installed at: the overlay version when
// declared, else the version of pkg itself.
func PivotVersion(pkg ports.PackageReader) (string, error) {
	version, err := FindOverlayVersion(pkg)
	if err != nil {
		return "", err
	}
	if version == "" {
		return pkg.Identity().Version, nil
	}
	return version, nil
}

// FindPivots returns the pivot package ids declared by pkg. The manifest is read from the
// package content, falling back to a manifest in installPath.
func FindPivots(pkg ports.PackageReader, installPath string) ([]string, error) {
	if name, ok := packaging.FindFile(pkg, domain.PivotManifestFileName); ok {
		data, err := readPackageFile(pkg, name)
		if err != nil {
			return nil, err
		}
		return parsePivots(bytes.NewReader(data))
	}

	if installPath == "" {
		return nil, nil
	}
	path := filepath.Join(installPath, domain.PivotManifestFileName)
	f, err := os.Open(path) //nolint:gosec // Path is inside the package install folder
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read pivot manifest"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer
	return parsePivots(f)
}

func parsePivots(r io.Reader) ([]string, error) {
	var pivots []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		pivots = append(pivots, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read pivot manifest")
	}
	return pivots, nil
}

// NewOverlayManager returns the manager that installs pivots into the install folder of
// their parent package.
func NewOverlayManager(manager ports.PackageManager, installPath string) ports.PackageManager {
	return manager.Overlay(installPath)
}

func readPackageFile(pkg ports.PackageReader, name string) ([]byte, error) {
	rc, err := pkg.Open(name)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPackage.Error()), "file", name)
	}
	defer rc.Close() //nolint:errcheck // Best effort close in defer

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPackage.Error()), "file", name)
	}
	return data, nil
}
