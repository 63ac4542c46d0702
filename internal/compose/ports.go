package compose

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Port is one entry of a service's ports list, in either the short string
// form ("8080:80", 3000) or the long form ({published: 8080, target: 80}).
type Port struct {
	Published string
	Target    string
	// Raw holds the literal text of short-form entries, or the flow-style
	// rendering of any shape that is neither short nor long form.
	Raw string
}

// String renders the port as "host:container", or as the raw text when the
// entry was not in long form.
func (p Port) String() string {
	switch {
	case p.Published != "" && p.Target != "":
		return p.Published + ":" + p.Target
	case p.Target != "":
		return p.Target
	default:
		return p.Raw
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Port) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		p.Raw = value.Value
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			k, v := value.Content[i], value.Content[i+1]
			if v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
				continue
			}
			switch k.Value {
			case "published":
				p.Published = v.Value
			case "target":
				p.Target = v.Value
			}
		}
		if p.Target != "" {
			return nil
		}
		p.Published = ""
	}
	p.Raw = flowString(value)
	return nil
}

// PortList is a service's ports. Anything other than a sequence decodes to
// an empty list.
type PortList []Port

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *PortList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		*l = nil
		return nil
	}
	ports := make([]Port, 0, len(value.Content))
	for _, n := range value.Content {
		var p Port
		if err := p.UnmarshalYAML(n); err != nil {
			return err
		}
		ports = append(ports, p)
	}
	*l = ports
	return nil
}

// FormatPorts normalizes declarations into "host:container" strings,
// preserving order. The result is never nil.
func FormatPorts(ports []Port) []string {
	out := make([]string, 0, len(ports))
	for _, p := range ports {
		out = append(out, p.String())
	}
	return out
}

func flowString(n *yaml.Node) string {
	c := *n
	c.Style = yaml.FlowStyle
	b, err := yaml.Marshal(&c)
	if err != nil {
		return n.Value
	}
	return strings.TrimSpace(string(b))
}
