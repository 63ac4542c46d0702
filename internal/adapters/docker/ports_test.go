package docker

import (
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortBindings(t *testing.T) {
	exposed, bindings, err := portBindings([]string{"8080:80", "3000", "127.0.0.1:5432:5432", "53/udp"})
	require.NoError(t, err)

	assert.Equal(t, nat.PortSet{
		"80/tcp":   {},
		"3000/tcp": {},
		"5432/tcp": {},
		"53/udp":   {},
	}, exposed)
	assert.Equal(t, []nat.PortBinding{{HostPort: "8080"}}, bindings["80/tcp"])
	assert.Equal(t, []nat.PortBinding{{HostPort: "3000"}}, bindings["3000/tcp"])
	assert.Equal(t, []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "5432"}}, bindings["5432/tcp"])
	assert.Equal(t, []nat.PortBinding{{HostPort: "53"}}, bindings["53/udp"])
}

func TestPortBindings_Empty(t *testing.T) {
	exposed, bindings, err := portBindings(nil)
	require.NoError(t, err)
	assert.Empty(t, exposed)
	assert.Empty(t, bindings)
}

func TestPortBindings_Invalid(t *testing.T) {
	_, _, err := portBindings([]string{"web:http"})
	assert.Error(t, err)
}

func TestWithHostPort(t *testing.T) {
	tests := map[string]string{
		"80":          "80:80",
		"80/udp":      "80:80/udp",
		"8080:80":     "8080:80",
		"8080:80/tcp": "8080:80/tcp",
		"0.0.0.0:1:2": "0.0.0.0:1:2",
		"3000-3002":   "3000-3002:3000-3002",
	}
	for in, want := range tests {
		assert.Equal(t, want, withHostPort(in), in)
	}
}
