package config

// Element and attribute names of the package configuration file.
const (
	elemRoot               = "PackageConfiguration"
	elemPackages           = "Packages"
	elemPackage            = "Package"
	elemAssemblyReferences = "AssemblyReferences"
	elemAssemblyReference  = "AssemblyReference"
	elemAssemblyLocations  = "AssemblyLocations"
	elemAssemblyLocation   = "AssemblyLocation"
	elemLibraryFolders     = "LibraryFolders"
	elemLibraryFolder      = "LibraryFolder"

	attrID                    = "id"
	attrVersion               = "version"
	attrAssemblyName          = "assemblyName"
	attrProcessorArchitecture = "processorArchitecture"
	attrLocation              = "location"
	attrPath                  = "path"
	attrPlatform              = "platform"
)
