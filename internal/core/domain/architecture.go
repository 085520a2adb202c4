package domain

import (
	"runtime"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// ProcessorArchitecture identifies the instruction set a binary module targets.
type ProcessorArchitecture int

const (
	// ArchNone is an unspecified architecture.
	ArchNone ProcessorArchitecture = iota
	// ArchMSIL is architecture neutral.
	ArchMSIL
	// ArchX86 is 32-bit Intel.
	ArchX86
	// ArchIA64 is Itanium.
	ArchIA64
	// ArchAmd64 is 64-bit Intel.
	ArchAmd64
	// ArchArm is 32-bit ARM.
	ArchArm
	// ArchArm64 is 64-bit ARM.
	ArchArm64
)

var architectureNames = [...]string{
	ArchNone:  "None",
	ArchMSIL:  "MSIL",
	ArchX86:   "X86",
	ArchIA64:  "IA64",
	ArchAmd64: "Amd64",
	ArchArm:   "Arm",
	ArchArm64: "Arm64",
}

// String returns the name used in the configuration file.
func (a ProcessorArchitecture) String() string {
	if a < 0 || int(a) >= len(architectureNames) {
		return "ProcessorArchitecture(" + strconv.Itoa(int(a)) + ")"
	}
	return architectureNames[a]
}

// ParseProcessorArchitecture parses a configuration file architecture name, ignoring case.
func ParseProcessorArchitecture(s string) (ProcessorArchitecture, error) {
	for i, name := range architectureNames {
		if strings.EqualFold(name, s) {
			return ProcessorArchitecture(i), nil
		}
	}
	return ArchNone, zerr.With(ErrInvalidArchitecture, "name", s)
}

// ArchitectureFromAlias maps a path component used by package authors to an architecture.
// Unknown names map to ArchNone.
func ArchitectureFromAlias(name string) ProcessorArchitecture {
	switch strings.ToLower(name) {
	case "x64", "amd64", "em64t", "intel64", "x86-64", "x86_64":
		return ArchAmd64
	case "win32", "x86", "ia32", "386":
		return ArchX86
	default:
		return ArchNone
	}
}

// Platform returns the short platform tag used for library folders.
func (a ProcessorArchitecture) Platform() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchAmd64:
		return "x64"
	case ArchArm:
		return "arm"
	case ArchArm64:
		return "arm64"
	case ArchIA64:
		return "ia64"
	default:
		return ""
	}
}

// CurrentArchitecture returns the architecture of the running process.
func CurrentArchitecture() ProcessorArchitecture {
	switch runtime.GOARCH {
	case "amd64":
		return ArchAmd64
	case "386":
		return ArchX86
	case "arm64":
		return ArchArm64
	case "arm":
		return ArchArm
	default:
		return ArchNone
	}
}

// CurrentPlatform returns the platform tag of the running process.
func CurrentPlatform() string {
	return CurrentArchitecture().Platform()
}

// Is64BitProcess reports whether the running process uses 64-bit pointers.
func Is64BitProcess() bool {
	return strconv.IntSize == 64
}

// FallbackArchitecture returns the architecture-specific key consulted when no neutral module exists.
func FallbackArchitecture(is64Bit bool) ProcessorArchitecture {
	if is64Bit {
		return ArchAmd64
	}
	return ArchX86
}
