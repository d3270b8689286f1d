package vibesort

import (
	_ "embed"
	"strings"
)

//go:embed prompt_sort.md
var sortPromptTemplate string

// BuildPrompt renders the sort instruction sent to the model. Every item is
// written on its own "- " line in input order. Items are not escaped, so an
// item containing a newline breaks the one-item-per-line layout.
func BuildPrompt(items []string, criteria string) string {
	var list strings.Builder
	for _, item := range items {
		list.WriteString("- ")
		list.WriteString(item)
		list.WriteString("\n")
	}
	replacer := strings.NewReplacer(
		"{{criteria}}", criteria,
		"{{items}}", list.String(),
	)
	return replacer.Replace(strings.TrimSpace(sortPromptTemplate))
}
