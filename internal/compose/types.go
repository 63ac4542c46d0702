package compose

// FileName is the compose descriptor looked up in each client directory.
const FileName = "docker-compose.yml"

// Project is a decoded compose file.
type Project struct {
	// Services in declaration order.
	Services []Service
	// Skipped lists services that were declared but could not be used.
	Skipped []SkippedService
}

// Service is a single usable service definition.
type Service struct {
	Name  string   `yaml:"-" validate:"required"`
	Image string   `yaml:"image" validate:"required"`
	Ports PortList `yaml:"ports"`
}

// SkippedService records why a declared service was left out.
type SkippedService struct {
	Name   string
	Reason string
}

// Service returns the definition named name.
func (p *Project) Service(name string) (Service, bool) {
	if p == nil {
		return Service{}, false
	}
	for _, s := range p.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}
