package domain

// Process describes an external program to run.
type Process struct {
	// Path is the executable. A bare name is looked up on the PATH of the resulting environment.
	Path string
	Args []string
	// Dir is the working directory. Empty keeps the current directory.
	Dir string
	// Env overrides variables of the current environment. PATH entries are prepended.
	Env map[string]string
}
