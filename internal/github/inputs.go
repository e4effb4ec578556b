package github

import (
	"encoding/base64"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// WorkflowInputs fetches a workflow file from the given branch and returns
// its workflow_dispatch inputs in declaration order. A workflow without a
// workflow_dispatch trigger yields no fields.
func (c *Client) WorkflowInputs(repo, branch, file string) ([]InputField, error) {
	path := fmt.Sprintf("repos/%s/contents/%s/%s", repo, workflowsDir, file)
	if branch != "" {
		path += "?ref=" + branch
	}
	out, err := c.runner.Run("api", path, "--jq", ".content")
	if err != nil {
		return nil, err
	}
	content, err := decodeContent(out)
	if err != nil {
		return nil, err
	}
	fields, err := parseWorkflowInputs(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return fields, nil
}

// decodeContent unpacks the contents API payload, which is base64 broken
// across multiple lines.
func decodeContent(encoded string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' {
			return -1
		}
		return r
	}, encoded)
	data, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("decode workflow content: %w", err)
	}
	return data, nil
}

type inputSpec struct {
	Description string   `yaml:"description"`
	Required    bool     `yaml:"required"`
	Default     string   `yaml:"default"`
	Type        string   `yaml:"type"`
	Options     []string `yaml:"options"`
}

// parseWorkflowInputs walks the document as raw nodes rather than decoding
// into a struct: the top-level "on" key resolves as a YAML 1.1 boolean, and
// node traversal sidesteps that while preserving input declaration order.
func parseWorkflowInputs(content []byte) ([]InputField, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse workflow file: %w", err)
	}
	root := documentRoot(&doc)
	inputs := mappingValue(mappingValue(mappingValue(root, "on"), "workflow_dispatch"), "inputs")
	if inputs == nil || inputs.Kind != yaml.MappingNode {
		return nil, nil
	}
	var fields []InputField
	for i := 0; i+1 < len(inputs.Content); i += 2 {
		name := inputs.Content[i].Value
		var spec inputSpec
		if err := inputs.Content[i+1].Decode(&spec); err != nil {
			return nil, fmt.Errorf("input %q: %w", name, err)
		}
		fields = append(fields, InputField{
			Name:        name,
			Description: spec.Description,
			Type:        ParseInputType(spec.Type),
			Required:    spec.Required,
			Default:     spec.Default,
			Options:     spec.Options,
			Value:       spec.Default,
		})
	}
	return fields, nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
