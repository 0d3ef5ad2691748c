// Package rules loads Nika's paradigm matrix and node-type registry: the
// rule tables the validator's Layer 2/4 consult, plus the custom
// `.nika/nodes/*.node.yaml` loader that extends the node-type lookup.
package rules

import "strings"

// ParadigmDef is one paradigm's display/SDK metadata, from paradigm-matrix.yaml.
type ParadigmDef struct {
	Symbol      string `yaml:"symbol"      json:"symbol"`
	Description string `yaml:"description" json:"description"`
	Color       string `yaml:"color"       json:"color"`
	Border      string `yaml:"border"      json:"border"`
	SDKMapping  string `yaml:"sdk_mapping" json:"sdk_mapping"`
	TokenCost   string `yaml:"token_cost"  json:"token_cost"`
}

// ParadigmMatrix is the complete paradigm registry and connection matrix.
type ParadigmMatrix struct {
	Version     string                     `yaml:"version"     json:"version"`
	Description string                     `yaml:"description" json:"description"`
	Paradigms   map[string]ParadigmDef     `yaml:"paradigms"    json:"paradigms"`
	Connections map[string]map[string]bool `yaml:"connections"  json:"connections"`
}

// IsConnectionAllowed reports whether an edge from source to target paradigm
// is permitted. Unknown pairs default to disallowed.
func (m *ParadigmMatrix) IsConnectionAllowed(source, target string) bool {
	targets, ok := m.Connections[source]
	if !ok {
		return false
	}
	return targets[target]
}

// GetSymbol returns the paradigm's display glyph, e.g. "🧠" for context.
func (m *ParadigmMatrix) GetSymbol(paradigm string) (string, bool) {
	p, ok := m.Paradigms[paradigm]
	if !ok {
		return "", false
	}
	return p.Symbol, true
}

// VisualNodeTypes are Studio-only node types: allowed in a workflow but not
// part of the execution standard, and never assigned a paradigm.
var VisualNodeTypes = []string{"startNode", "commentNode", "groupNode"}

// NodeTypes is the node_type -> paradigm lookup table, from node-types.yaml,
// optionally extended at load time with custom `.nika/nodes/*.node.yaml`
// declarations.
type NodeTypes struct {
	Version     string            `yaml:"version"     json:"version"`
	Description string            `yaml:"description" json:"description"`
	Lookup      map[string]string `yaml:"lookup"      json:"lookup"`
}

// GetParadigm returns the paradigm registered for a node type.
func (n *NodeTypes) GetParadigm(nodeType string) (string, bool) {
	p, ok := n.Lookup[nodeType]
	return p, ok
}

// IsValidType reports whether nodeType is a registered execution node.
func (n *NodeTypes) IsValidType(nodeType string) bool {
	_, ok := n.Lookup[nodeType]
	return ok
}

// IsVisualType reports whether nodeType is one of the Studio-only markers.
func (n *NodeTypes) IsVisualType(nodeType string) bool {
	for _, v := range VisualNodeTypes {
		if v == nodeType {
			return true
		}
	}
	return false
}

// IsKnownType reports whether nodeType is either a registered execution node
// or a visual-only marker.
func (n *NodeTypes) IsKnownType(nodeType string) bool {
	return n.IsValidType(nodeType) || n.IsVisualType(nodeType)
}

// FindSimilar returns up to maxResults node types whose name shares a
// substring with nodeType, used for "did you mean?" validation suggestions.
func (n *NodeTypes) FindSimilar(nodeType string, maxResults int) []string {
	lower := strings.ToLower(nodeType)
	var out []string
	for k := range n.Lookup {
		kl := strings.ToLower(k)
		if strings.Contains(kl, lower) || strings.Contains(lower, kl) {
			out = append(out, k)
			if len(out) >= maxResults {
				break
			}
		}
	}
	return out
}

// MergeCustomNodes extends the lookup table with custom node paradigms,
// overwriting any existing entry with the same node type.
func (n *NodeTypes) MergeCustomNodes(custom map[string]string) {
	if n.Lookup == nil {
		n.Lookup = make(map[string]string, len(custom))
	}
	for k, v := range custom {
		n.Lookup[k] = v
	}
}
