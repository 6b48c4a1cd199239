package templating

import (
	"fmt"
	"strings"
)

const frontMatterDelimiter = "---"

// RenderFrontMatter renders props between two delimiter lines, resolving
// every value against ctx. Nil props render as an empty block.
func (e *Engine) RenderFrontMatter(props Properties, ctx Context) (string, error) {
	var builder strings.Builder
	builder.WriteString(frontMatterDelimiter + "\n")

	for _, prop := range props {
		if prop.IsList {
			fmt.Fprintf(&builder, "%s:\n", prop.Key)
			for _, item := range prop.Items {
				resolved, err := e.Resolve(item, ctx)
				if err != nil {
					return "", fmt.Errorf("property %q: %w", prop.Key, err)
				}
				fmt.Fprintf(&builder, "  - %s\n", resolved)
			}
			continue
		}

		resolved, err := e.Resolve(prop.Value, ctx)
		if err != nil {
			return "", fmt.Errorf("property %q: %w", prop.Key, err)
		}
		fmt.Fprintf(&builder, "%s: %s\n", prop.Key, resolved)
	}

	builder.WriteString(frontMatterDelimiter + "\n")
	return builder.String(), nil
}
