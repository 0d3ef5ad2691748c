package binding

import (
	"fmt"
	"strings"

	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// ParseMCPRef splits a "server::tool" reference into its server and tool
// names. Both sides must be non-empty, and exactly one "::" separator is
// allowed — "server::tool::extra" is rejected rather than silently taking
// the first split.
func ParseMCPRef(ref string) (server, tool string, err error) {
	parts := strings.Split(ref, "::")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", nikaerr.New(nikaerr.CodeInvalidToolName,
			fmt.Sprintf("invalid MCP reference %q: expected \"server::tool\"", ref), nil).
			WithSuggestion(`use the form "server::tool", e.g. "search::web_search"`)
	}
	return parts[0], parts[1], nil
}
