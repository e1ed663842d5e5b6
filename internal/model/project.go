package model

// ProjectType is the advisory label assigned by the project classifier.
// It selects which tools run; an unrecognized tree still scans as generic.
type ProjectType string

const (
	ProjectTypePython  ProjectType = "python"
	ProjectTypeDocker  ProjectType = "docker"
	ProjectTypeGeneric ProjectType = "generic"
)
