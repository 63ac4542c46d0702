package inventory

import (
	"fmt"
	"strings"

	"github.com/melih/composedeck/internal/core/domain"
	"github.com/melih/composedeck/internal/core/ports"
)

// Matcher kinds accepted by NewMatcher.
const (
	MatcherName  = "name"
	MatcherLabel = "label"
)

// NameMatcher matches a container named "/<service>" or whose name ends with
// "_<service>" (compose v1 project prefixing). The client is ignored, so two
// clients declaring the same service name will see each other's containers.
type NameMatcher struct{}

func (NameMatcher) Matches(c domain.Container, _, service string) bool {
	for _, name := range c.Names {
		if name == "/"+service || strings.HasSuffix(name, "_"+service) {
			return true
		}
	}
	return false
}

// LabelMatcher matches on the compose project and service labels, scoping the
// lookup to the client.
type LabelMatcher struct{}

func (LabelMatcher) Matches(c domain.Container, client, service string) bool {
	return c.Labels[domain.LabelComposeProject] == client &&
		c.Labels[domain.LabelComposeService] == service
}

// NewMatcher returns the matcher registered under kind.
func NewMatcher(kind string) (ports.ContainerMatcher, error) {
	switch kind {
	case MatcherName, "":
		return NameMatcher{}, nil
	case MatcherLabel:
		return LabelMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown container matcher %q", kind)
	}
}

func findContainer(m ports.ContainerMatcher, containers []domain.Container, client, service string) (domain.Container, bool) {
	for _, c := range containers {
		if m.Matches(c, client, service) {
			return c, true
		}
	}
	return domain.Container{}, false
}
