package main

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// snippetFrontMatter is the optional YAML header of a markdown snippet file.
type snippetFrontMatter struct {
	Name string `yaml:"name"`
}

func parseMarkdown(input string) (snippetFrontMatter, string, error) {
	var frontMatter snippetFrontMatter
	content := input

	lines := strings.Split(input, "\n")
	if len(lines) >= 3 && strings.TrimSpace(lines[0]) == "---" {
		end := -1
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				end = i
				break
			}
		}
		if end == -1 {
			return frontMatter, "", fmt.Errorf("front matter not closed")
		}
		frontText := strings.Join(lines[1:end], "\n")
		if err := yaml.Unmarshal([]byte(frontText), &frontMatter); err != nil {
			return frontMatter, "", fmt.Errorf("parse front matter: %w", err)
		}
		content = strings.Join(lines[end+1:], "\n")
	}

	return frontMatter, strings.TrimLeft(content, "\n"), nil
}

// firstHeading returns the text of the first "# " heading, if any.
func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return ""
}
