package docker

import (
	"fmt"
	"strings"

	"github.com/docker/go-connections/nat"
)

// portBindings turns "host:container" declarations into the exposed port set
// and host bindings for a container. A lone port publishes the same number
// on the host.
func portBindings(ports []string) (nat.PortSet, nat.PortMap, error) {
	specs := make([]string, 0, len(ports))
	for _, p := range ports {
		specs = append(specs, withHostPort(p))
	}

	exposed, bindings, err := nat.ParsePortSpecs(specs)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid port declaration: %w", err)
	}
	return exposed, bindings, nil
}

func withHostPort(p string) string {
	base, proto, hasProto := strings.Cut(p, "/")
	if strings.Contains(base, ":") {
		return p
	}
	if hasProto {
		return base + ":" + base + "/" + proto
	}
	return base + ":" + base
}
