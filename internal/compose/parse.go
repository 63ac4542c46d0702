package compose

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrNoServices is returned when the document has no usable services mapping.
var ErrNoServices = errors.New("compose file has no services")

var validate = validator.New()

// Parse decodes a compose document. Malformed documents and documents
// without a services mapping return an error; individual malformed services
// are recorded in Project.Skipped.
func Parse(data []byte) (*Project, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse compose file: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrNoServices
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrNoServices)
	}

	services := lookup(root, "services")
	if services == nil || services.Kind != yaml.MappingNode || len(services.Content) == 0 {
		return nil, ErrNoServices
	}

	project := &Project{}
	seen := make(map[string]struct{}, len(services.Content)/2)
	for i := 0; i+1 < len(services.Content); i += 2 {
		name, body := services.Content[i].Value, services.Content[i+1]
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("line %d: service %q is declared more than once", services.Content[i].Line, name)
		}
		seen[name] = struct{}{}

		svc, err := decodeService(name, body)
		if err != nil {
			project.Skipped = append(project.Skipped, SkippedService{Name: name, Reason: err.Error()})
			continue
		}
		project.Services = append(project.Services, svc)
	}
	return project, nil
}

func decodeService(name string, body *yaml.Node) (Service, error) {
	if body.Kind != yaml.MappingNode {
		return Service{}, errors.New("definition is not a mapping")
	}
	svc := Service{Name: name}
	if err := body.Decode(&svc); err != nil {
		return Service{}, err
	}
	svc.Name = name
	if err := validate.Struct(svc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Image" {
			return Service{}, errors.New("no image specified")
		}
		return Service{}, err
	}
	return svc, nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
