package packaging

import (
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/bonsai/internal/core/domain"
	"go.trai.ch/bonsai/internal/core/ports"
)

// Package content folders.
const (
	LibFolder      = "lib"
	BuildFolder    = "build"
	ContentFolder  = "content"
	RuntimesFolder = "runtimes"
)

const (
	binDirectory   = "bin"
	debugDirectory = "debug"
)

// Group is the set of files of a content folder that target one framework.
type Group struct {
	Framework string
	Items     []string
}

// Groups splits the files under folder by framework folder. Files directly under folder
// belong to the framework neutral group "".
func Groups(files []string, folder string) map[string][]string {
	prefix := folder + "/"
	groups := make(map[string][]string)
	for _, f := range files {
		f = ToSlash(f)
		if !strings.HasPrefix(strings.ToLower(f), prefix) {
			continue
		}
		rest := f[len(prefix):]
		tfm := frameworkAnyGroup
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			tfm = rest[:i]
		}
		groups[tfm] = append(groups[tfm], f)
	}
	return groups
}

// NearestGroup returns the group of folder that best matches the target framework.
func NearestGroup(files []string, folder, target string) (Group, bool) {
	groups := Groups(files, folder)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	name, ok := nearestFramework(target, names)
	if !ok {
		return Group{}, false
	}
	items := groups[name]
	slices.Sort(items)
	return Group{Framework: name, Items: items}, true
}

// IsExecutable reports whether the package declares a workflow entry point named after its id
// at the root of its nearest content group.
func IsExecutable(pkg ports.PackageReader, target string) bool {
	group, ok := NearestGroup(pkg.Files(), ContentFolder, target)
	if !ok {
		return false
	}
	entryPoint := ContentFolder + "/" + pkg.Identity().ID + domain.ExecutableExtension
	return slices.Contains(group.Items, entryPoint)
}

// IsLibrary reports whether the package carries the library tag.
func IsLibrary(pkg ports.PackageReader) bool {
	return slices.Contains(pkg.Tags(), domain.LibraryTag)
}

// PathArchitecture resolves the architecture of a build output from its path. The component
// after the framework folder must be "bin" and no component may be "debug".
func PathArchitecture(p string) domain.ProcessorArchitecture {
	components := strings.FieldsFunc(strings.ToLower(ToSlash(p)), func(r rune) bool { return r == '/' })
	if len(components) <= 3 || components[2] != binDirectory || slices.Contains(components, debugDirectory) {
		return domain.ArchNone
	}
	for _, c := range components[3:] {
		if arch := domain.ArchitectureFromAlias(c); arch != domain.ArchNone {
			return arch
		}
	}
	return domain.ArchNone
}

// LibraryFolders returns the native library folders declared by the package, rooted at
// installPath. Folders come from build/native/bin/<arch> and runtimes/win-<platform>.
func LibraryFolders(pkg ports.PackageReader, installPath string) []domain.LibraryFolder {
	var folders []domain.LibraryFolder
	seen := make(map[string]bool)
	add := func(dir, platform string) {
		p := CombinePath(installPath, dir)
		if seen[p] {
			return
		}
		seen[p] = true
		folders = append(folders, domain.LibraryFolder{Path: p, Platform: platform})
	}

	files := pkg.Files()
	build := Groups(files, BuildFolder)
	for _, dir := range directories(build[familyNative]) {
		arch := PathArchitecture(dir)
		if arch == domain.ArchNone {
			continue
		}
		platform := domain.ArchAmd64.Platform()
		if arch == domain.ArchX86 {
			platform = domain.ArchX86.Platform()
		}
		add(dir, platform)
	}

	runtimes := Groups(files, RuntimesFolder)
	rids := make([]string, 0, len(runtimes))
	for rid := range runtimes {
		rids = append(rids, rid)
	}
	slices.Sort(rids)
	for _, rid := range rids {
		platform, ok := strings.CutPrefix(strings.ToLower(rid), windowsRIDPrefix)
		if !ok || strings.TrimSpace(platform) == "" {
			continue
		}
		for _, dir := range directories(runtimes[rid]) {
			add(dir, platform)
		}
	}
	return folders
}

// ArchitectureAssemblies is a set of architecture specific assemblies.
type ArchitectureAssemblies struct {
	Architecture domain.ProcessorArchitecture
	Paths        []string
}

// ArchitectureSpecificAssemblies returns the build assemblies of the nearest build group that
// resolve to a concrete architecture, grouped by architecture.
func ArchitectureSpecificAssemblies(pkg ports.PackageReader, target string) []ArchitectureAssemblies {
	group, ok := NearestGroup(pkg.Files(), BuildFolder, target)
	if !ok {
		return nil
	}

	byArch := make(map[domain.ProcessorArchitecture][]string)
	for _, f := range group.Items {
		if !strings.EqualFold(path.Ext(f), domain.AssemblyExtension) {
			continue
		}
		arch := PathArchitecture(f)
		if arch == domain.ArchNone {
			continue
		}
		byArch[arch] = append(byArch[arch], f)
	}

	out := make([]ArchitectureAssemblies, 0, len(byArch))
	for arch, paths := range byArch {
		out = append(out, ArchitectureAssemblies{Architecture: arch, Paths: paths})
	}
	slices.SortFunc(out, func(a, b ArchitectureAssemblies) int { return int(a.Architecture) - int(b.Architecture) })
	return out
}

// CompatibleReferences returns the reference assemblies of the nearest lib group.
func CompatibleReferences(pkg ports.PackageReader, target string) []string {
	group, ok := NearestGroup(pkg.Files(), LibFolder, target)
	if !ok {
		return nil
	}
	var refs []string
	for _, f := range group.Items {
		if match, _ := doublestar.Match("**/*.{dll,exe,DLL,EXE}", f); match {
			refs = append(refs, f)
		}
	}
	return refs
}

// ContentFiles returns the files the package places under content/<contentPath>.
func ContentFiles(pkg ports.PackageReader, contentPath string) []string {
	pattern := ContentFolder + "/" + contentPath + "/**"
	var files []string
	for _, f := range pkg.Files() {
		if match, _ := doublestar.Match(pattern, ToSlash(f)); match {
			files = append(files, f)
		}
	}
	slices.Sort(files)
	return files
}

// FindFile returns the package file whose base name equals name, ignoring case.
func FindFile(pkg ports.PackageReader, name string) (string, bool) {
	for _, f := range pkg.Files() {
		if strings.EqualFold(path.Base(ToSlash(f)), name) {
			return f, true
		}
	}
	return "", false
}

// AssemblyName returns the module name of an assembly path.
func AssemblyName(p string) string {
	base := path.Base(ToSlash(p))
	return strings.TrimSuffix(base, path.Ext(base))
}

// CombinePath joins two paths with forward slashes.
func CombinePath(a, b string) string {
	return path.Join(ToSlash(a), ToSlash(b))
}

// ToSlash converts backslashes to forward slashes regardless of the host OS.
func ToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// directories returns the distinct parent directories of files, sorted.
func directories(files []string) []string {
	var dirs []string
	for _, f := range files {
		dir := path.Dir(ToSlash(f))
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}
