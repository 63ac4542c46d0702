package domain

// Container is a container as reported by the runtime, in any state.
type Container struct {
	ID     string            `json:"id"`
	Names  []string          `json:"names"` // Docker keeps the leading slash, e.g. "/web"
	Image  string            `json:"image"`
	State  string            `json:"state"` // running, exited, created, etc.
	Labels map[string]string `json:"labels,omitempty"`
}

// Image is a locally present image.
type Image struct {
	ID       string   `json:"id"`
	RepoTags []string `json:"repo_tags"`
}

// ContainerSpec describes a container to be created for a compose service.
type ContainerSpec struct {
	Name   string
	Image  string
	Ports  []string // "host:container" or a single port
	Labels map[string]string
}

// Compose labels set on containers created by this system.
const (
	LabelComposeProject = "com.docker.compose.project"
	LabelComposeService = "com.docker.compose.service"
)

// StateRunning is the runtime state of a live container.
const StateRunning = "running"
