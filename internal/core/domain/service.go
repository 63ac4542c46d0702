package domain

// Status is the reconciled state of a compose service.
type Status string

const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
	StatusMissing Status = "missing"
)

// Service is one compose service merged with its live runtime state.
type Service struct {
	Name   string   `json:"name"`
	Image  string   `json:"image"`
	Ports  []string `json:"ports"`
	Status Status   `json:"status"`
}

// Client is a directory of compose definitions and its reconciled services.
type Client struct {
	Name     string    `json:"name"`
	Services []Service `json:"services"`
}

// Action is an operator command against a single service.
type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
	ActionFetch Action = "fetch"
)

// ActionResult is returned once per action invocation.
type ActionResult struct {
	Name    string `json:"name"`
	Action  Action `json:"action"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
