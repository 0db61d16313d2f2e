// Package display holds the format-independent views commands hand to the
// renderers.
package display

// ProjectView is the rendered state of one project
type ProjectView struct {
	SourceDir  string       `json:"sourceDir" yaml:"sourceDir"`
	Guarded    bool         `json:"guarded" yaml:"guarded"`
	Sentinel   string       `json:"sentinel,omitempty" yaml:"sentinel,omitempty"`
	StorageDir string       `json:"storageDir,omitempty" yaml:"storageDir,omitempty"`
	Relative   bool         `json:"relative" yaml:"relative"`
	Targets    []TargetView `json:"targets" yaml:"targets"`
}

// TargetView is one configured target of a project
type TargetView struct {
	Path string `json:"path" yaml:"path"`
	// State is a links.LinkState for stored targets, otherwise one of
	// "present", "symlink" or "missing"
	State  string `json:"state" yaml:"state"`
	Stored bool   `json:"stored" yaml:"stored"`
	Dest   string `json:"dest,omitempty" yaml:"dest,omitempty"`
}

// TransactionView reports the outcome of a guard or unguard
type TransactionView struct {
	Command    string   `json:"command" yaml:"command"`
	SourceDir  string   `json:"sourceDir" yaml:"sourceDir"`
	Target     string   `json:"target,omitempty" yaml:"target,omitempty"` // guard-one only
	Sentinel   string   `json:"sentinel,omitempty" yaml:"sentinel,omitempty"`
	Phase      string   `json:"phase" yaml:"phase"`
	Files      []string `json:"files,omitempty" yaml:"files,omitempty"`
	RolledBack bool     `json:"rolledBack" yaml:"rolledBack"`
	Warnings   []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// InfoView describes the installation and its settings
type InfoView struct {
	Version     string               `json:"version" yaml:"version"`
	Commit      string               `json:"commit" yaml:"commit"`
	BuildDate   string               `json:"buildDate" yaml:"buildDate"`
	BaseDir     string               `json:"baseDir" yaml:"baseDir"`
	StorageRoot string               `json:"storageRoot" yaml:"storageRoot"`
	Relative    bool                 `json:"relative" yaml:"relative"`
	ConfigFile  string               `json:"configFile" yaml:"configFile"`
	LogFile     string               `json:"logFile" yaml:"logFile"`
	Sources     []string             `json:"sources" yaml:"sources"`
	Environment []EnvVar             `json:"environment" yaml:"environment"`
	Projects    []GuardedProjectView `json:"projects" yaml:"projects"`
}

// EnvVar is an environment variable confguard reads
type EnvVar struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// GuardedProjectView is one sentinel directory in the storage root
type GuardedProjectView struct {
	Sentinel  string `json:"sentinel" yaml:"sentinel"`
	SourceDir string `json:"sourceDir,omitempty" yaml:"sourceDir,omitempty"`
	// Orphaned is set when the back-link is missing or its project is gone
	Orphaned bool `json:"orphaned" yaml:"orphaned"`
}

// MessageView is a short command outcome with the paths it touched
type MessageView struct {
	Command string   `json:"command" yaml:"command"`
	Message string   `json:"message" yaml:"message"`
	Paths   []string `json:"paths,omitempty" yaml:"paths,omitempty"`
}
