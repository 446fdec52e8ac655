package node

// Option is one admissible value of an enum field.
type Option struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// FieldSpec describes a single input or output port.
type FieldSpec struct {
	Type         DataType `json:"type"`
	Label        string   `json:"label,omitempty"`
	Default      any      `json:"default,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Options      []Option `json:"options,omitempty"`
	Optional     bool     `json:"optional,omitempty"`
	Configurable bool     `json:"configurable,omitempty"`
	Multiline    bool     `json:"multiline,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// NodeSpec is the full capability descriptor of a node type.
type NodeSpec struct {
	Type        string               `json:"type"`
	Label       string               `json:"label"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	InputSpec   map[string]FieldSpec `json:"input_spec"`
	OutputSpec  map[string]FieldSpec `json:"output_spec"`
}

// SpecOf assembles a NodeSpec from a node implementation's metadata methods.
func SpecOf(n Node) *NodeSpec {
	return &NodeSpec{
		Type:        n.Type(),
		Label:       n.Label(),
		Category:    n.Category(),
		Description: n.Description(),
		InputSpec:   n.InputSpec(),
		OutputSpec:  n.OutputSpec(),
	}
}
