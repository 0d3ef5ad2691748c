package rules

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"

	"github.com/supernovae-st/nika/pkg/nikaerr"
)

//go:embed defaults/paradigm-matrix.yaml
var defaultParadigmMatrixYAML []byte

//go:embed defaults/node-types.yaml
var defaultNodeTypesYAML []byte

// LoadParadigmMatrix parses a paradigm matrix document.
func LoadParadigmMatrix(data []byte) (*ParadigmMatrix, error) {
	var m ParadigmMatrix
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, nikaerr.New(nikaerr.CodeYAMLParse, fmt.Sprintf("failed to parse paradigm matrix: %s", err), err)
	}
	return &m, nil
}

// LoadNodeTypes parses a node-type registry document.
func LoadNodeTypes(data []byte) (*NodeTypes, error) {
	var n NodeTypes
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, nikaerr.New(nikaerr.CodeYAMLParse, fmt.Sprintf("failed to parse node types: %s", err), err)
	}
	return &n, nil
}

// DefaultParadigmMatrix returns Nika's built-in paradigm matrix, embedded at
// build time.
func DefaultParadigmMatrix() (*ParadigmMatrix, error) {
	return LoadParadigmMatrix(defaultParadigmMatrixYAML)
}

// DefaultNodeTypes returns Nika's built-in node-type registry, embedded at
// build time.
func DefaultNodeTypes() (*NodeTypes, error) {
	return LoadNodeTypes(defaultNodeTypesYAML)
}

// customNodeDoc is the shape of one `.nika/nodes/*.node.yaml` declaration.
type customNodeDoc struct {
	Name    string `yaml:"name"`
	Extends string `yaml:"extends"`
	Version string `yaml:"version"`
}

var validExtends = map[string]bool{"context": true, "isolated": true, "data": true}

// DiscoverCustomNodes scans root for `.nika/nodes/*.node.yaml` files via
// doublestar globbing and returns a node_type -> paradigm lookup suitable
// for NodeTypes.MergeCustomNodes. Each file's `extends` must be one of
// context|isolated|data; any other value is a validation error.
func DiscoverCustomNodes(fsys FileReader, root string) (map[string]string, error) {
	pattern := filepath.ToSlash(filepath.Join(root, ".nika", "nodes", "*.node.yaml"))
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, nikaerr.New(nikaerr.CodeIOError, fmt.Sprintf("invalid custom node glob %q: %s", pattern, err), err)
	}
	out := make(map[string]string, len(matches))
	for _, path := range matches {
		data, err := fsys.ReadFile(path)
		if err != nil {
			return nil, nikaerr.New(nikaerr.CodeIOError, fmt.Sprintf("failed to read custom node %s: %s", path, err), err)
		}
		var doc customNodeDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, nikaerr.New(nikaerr.CodeYAMLParse, fmt.Sprintf("failed to parse custom node %s: %s", path, err), err)
		}
		if !validExtends[doc.Extends] {
			return nil, nikaerr.New(nikaerr.CodeValidationError,
				fmt.Sprintf("custom node %q in %s has invalid extends %q (must be context|isolated|data)", doc.Name, path, doc.Extends), nil)
		}
		out[doc.Name] = doc.Extends
	}
	return out, nil
}

// FileReader is the minimal filesystem surface DiscoverCustomNodes needs,
// satisfied by OSFileReader and swappable with an in-memory fixture in tests.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// OSFileReader is the real-disk FileReader used outside of tests.
type OSFileReader struct{}

func (OSFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
