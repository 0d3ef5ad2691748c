package workflow

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// Load parses a workflow document from raw YAML bytes. It does not run the
// five-layer validator (see internal/validator) — only structural
// decoding, which is itself Layer-0 in the sense that malformed YAML never
// reaches the validator.
func Load(data []byte) (*Workflow, error) {
	var w Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, nikaerr.New(nikaerr.CodeParseError, fmt.Sprintf("failed to parse workflow: %s", err), err)
	}
	w.Index()
	return &w, nil
}

// LoadFile reads and parses a workflow document from disk.
func LoadFile(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nikaerr.New(nikaerr.CodeWorkflowNotFound, fmt.Sprintf("workflow file not found: %s", path), err)
		}
		return nil, nikaerr.New(nikaerr.CodeIOError, fmt.Sprintf("failed to read workflow file: %s", path), err)
	}
	return Load(data)
}
