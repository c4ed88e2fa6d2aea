package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StarterConfig holds the values seeded into a fresh config.yaml by
// `taxgen init`.
type StarterConfig struct {
	Endpoint  string
	OutputDir string
	Package   string
}

// WriteStarterConfig writes an annotated .taxgen/config.yaml. Comments
// on each key survive later `taxgen config set` edits, which update
// values in place.
func WriteStarterConfig(path string, cfg StarterConfig) error {
	root := yaml.Node{
		Kind: yaml.DocumentNode,
		Content: []*yaml.Node{
			buildStarterNode(cfg),
		},
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config.yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}

	if err := os.WriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config.yaml: %w", err)
	}

	return nil
}

// buildStarterNode creates the mapping node for the starter config,
// with a comment above each key and the optional keys listed in a
// trailing comment block.
func buildStarterNode(cfg StarterConfig) *yaml.Node {
	node := &yaml.Node{
		Kind:        yaml.MappingNode,
		HeadComment: "taxgen project configuration.\nValues here are overridden by TAXGEN_* environment variables and flags.",
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.example.com/graphql"
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "options"
	}
	pkg := cfg.Package
	if pkg == "" {
		pkg = "options"
	}

	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "endpoint", HeadComment: "GraphQL endpoint serving the taxonomy query."},
		&yaml.Node{Kind: yaml.ScalarNode, Value: endpoint, Style: yaml.DoubleQuotedStyle},
	)

	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "output-dir", HeadComment: "Directory that receives the generated option modules."},
		&yaml.Node{Kind: yaml.ScalarNode, Value: outputDir, Style: yaml.DoubleQuotedStyle},
	)

	node.Content = append(node.Content,
		&yaml.Node{
			Kind:        yaml.ScalarNode,
			Value:       "package",
			HeadComment: "Package name for the generated files.",
			FootComment: strings.Join([]string{
				"Optional overrides:",
				"query-file: .taxgen/query.graphql",
				"timeout: 30s",
				"requirements-file: requirement_options.go",
				"conditions-file: condition_options.go",
				"requirements-const: RequirementOptions",
				"conditions-const: ConditionOptions",
			}, "\n"),
		},
		&yaml.Node{Kind: yaml.ScalarNode, Value: pkg, Style: yaml.DoubleQuotedStyle},
	)

	return node
}
