package binding

import (
	"fmt"
	"strings"

	"github.com/supernovae-st/nika/pkg/nikaerr"
)

// ResolveTemplate substitutes every `{{use.alias}}` / `{{use.alias.sub.path}}`
// placeholder in tmpl with the matching value from bound, stringified.
// Unlike text/template, the grammar here is deliberately narrow: only the
// `use.` prefix is recognized, and an unbound alias or unresolvable
// sub-path is an error rather than rendering empty.
func ResolveTemplate(tmpl string, bound map[string]any) (string, error) {
	var out strings.Builder
	rest := tmpl
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		end := strings.Index(rest[start:], "}}")
		if end < 0 {
			return "", nikaerr.New(nikaerr.CodeTemplateParse, fmt.Sprintf("unterminated template placeholder in %q", tmpl), nil)
		}
		end += start

		out.WriteString(rest[:start])
		expr := strings.TrimSpace(rest[start+2 : end])
		rendered, err := renderExpr(expr, bound)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)
		rest = rest[end+2:]
	}
}

func renderExpr(expr string, bound map[string]any) (string, error) {
	const prefix = "use."
	if !strings.HasPrefix(expr, prefix) {
		return "", nikaerr.New(nikaerr.CodeTemplateParse,
			fmt.Sprintf("unsupported template expression %q: only use.<alias> is supported", expr), nil)
	}
	rest := expr[len(prefix):]
	if rest == "" {
		return "", nikaerr.New(nikaerr.CodeTemplateParse, "empty use. expression", nil)
	}

	alias := rest
	var subPath string
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		alias = rest[:dot]
		subPath = rest[dot+1:]
	}

	value, ok := bound[alias]
	if !ok {
		return "", nikaerr.New(nikaerr.CodeUnknownAlias, fmt.Sprintf("template references unbound alias %q", alias), nil).
			WithSuggestion(fmt.Sprintf("add %q to this task's use block", alias))
	}

	if subPath != "" {
		segments, err := ParsePath(subPath)
		if err != nil {
			return "", err
		}
		value, err = Walk(value, segments)
		if err != nil {
			return "", err
		}
	}

	if value == nil {
		return "", nikaerr.New(nikaerr.CodeNullValue, fmt.Sprintf("use.%s resolved to null", rest), nil)
	}
	return stringify(value), nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
