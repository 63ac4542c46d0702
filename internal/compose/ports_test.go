package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodePorts(t *testing.T, src string) PortList {
	t.Helper()
	var svc struct {
		Ports PortList `yaml:"ports"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(src), &svc))
	return svc.Ports
}

func TestFormatPorts(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"absent", `image: x`, []string{}},
		{"null", `ports: ~`, []string{}},
		{"empty", `ports: []`, []string{}},
		{"short string", `ports: ["8080:80"]`, []string{"8080:80"}},
		{"bare number", `ports: [3000]`, []string{"3000"}},
		{"long form", `ports: [{published: 8080, target: 80}]`, []string{"8080:80"}},
		{"long form quoted", `ports: [{published: "8443", target: 443, protocol: tcp}]`, []string{"8443:443"}},
		{"target only", `ports: [{target: 80}]`, []string{"80"}},
		{"ip and protocol", `ports: ["127.0.0.1:5432:5432/tcp"]`, []string{"127.0.0.1:5432:5432/tcp"}},
		{"not a sequence", `ports: "8080:80"`, []string{}},
		{
			"mixed keeps order",
			"ports:\n  - \"9000:9000\"\n  - published: 9001\n    target: 9001\n  - 9002\n",
			[]string{"9000:9000", "9001:9001", "9002"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPorts(decodePorts(t, tt.src)))
		})
	}
}

func TestFormatPorts_UnknownShapeIsStringified(t *testing.T) {
	got := FormatPorts(decodePorts(t, `ports: [{mode: host}, [1, 2]]`))
	assert.Equal(t, []string{"{mode: host}", "[1, 2]"}, got)
}

func TestFormatPorts_NilInput(t *testing.T) {
	got := FormatPorts(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
