package ports

//go:generate mockgen -source=module_loader.go -destination=mocks/mock_module_loader.go -package=mocks

// Module is a loaded binary module.
type Module interface {
	// Name returns the module name it was resolved for.
	Name() string
	// Location returns where the module was loaded from.
	Location() string
}

// ModuleLoader loads binary modules for the host process.
type ModuleLoader interface {
	// LoadBytes loads a module from an in-memory image. No file stays locked.
	LoadBytes(name, location string, image []byte) (Module, error)
	// LoadFile loads a module by path. The file stays locked while the module is loaded.
	LoadFile(name, path string) (Module, error)
}

// LibrarySearchPath is the native library search path of the host process.
type LibrarySearchPath interface {
	// Add prepends dir to the search path unless it is already present.
	Add(dir string) error
}
