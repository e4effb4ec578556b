package github

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/homelab-core/dispatchrr/internal/testutil"
)

const deployWorkflow = `name: Deploy
on:
  workflow_dispatch:
    inputs:
      environment:
        description: Target environment
        type: choice
        required: true
        default: staging
        options:
          - staging
          - production
      version:
        description: Version tag
        required: true
      dry-run:
        type: boolean
        default: false
      replicas:
        type: number
        default: 3
      cluster:
        type: environment
  push:
    branches: [main]
`

func TestParseWorkflowInputs(t *testing.T) {
	fields, err := parseWorkflowInputs([]byte(deployWorkflow))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 5 {
		t.Fatalf("expected 5 inputs, got %d", len(fields))
	}

	names := []string{"environment", "version", "dry-run", "replicas", "cluster"}
	for i, want := range names {
		if fields[i].Name != want {
			t.Fatalf("expected declaration order %v, got %q at %d", names, fields[i].Name, i)
		}
	}

	env := fields[0]
	if env.Type != TypeChoice || !env.Required || env.Default != "staging" {
		t.Fatalf("unexpected environment field: %+v", env)
	}
	if env.Description != "Target environment" {
		t.Fatalf("unexpected description: %q", env.Description)
	}
	if len(env.Options) != 2 || env.Options[0] != "staging" || env.Options[1] != "production" {
		t.Fatalf("unexpected options: %v", env.Options)
	}
	if env.Value != env.Default {
		t.Fatalf("expected value seeded from default, got %q", env.Value)
	}

	if fields[1].Type != TypeString || !fields[1].Required || fields[1].Value != "" {
		t.Fatalf("unexpected version field: %+v", fields[1])
	}
	if fields[2].Type != TypeBoolean || fields[2].Value != "false" {
		t.Fatalf("unexpected dry-run field: %+v", fields[2])
	}
	if fields[3].Type != TypeNumber || fields[3].Value != "3" {
		t.Fatalf("unexpected replicas field: %+v", fields[3])
	}
	if fields[4].Type != TypeEnvironment || fields[4].Required {
		t.Fatalf("unexpected cluster field: %+v", fields[4])
	}
}

func TestParseWorkflowInputsWithoutDispatchTrigger(t *testing.T) {
	for _, doc := range []string{
		"name: CI\non:\n  push:\n    branches: [main]\n",
		"name: CI\non: [push, pull_request]\n",
		"name: Manual\non:\n  workflow_dispatch:\n",
	} {
		fields, err := parseWorkflowInputs([]byte(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fields != nil {
			t.Fatalf("expected no inputs, got %v", fields)
		}
	}
}

func TestParseWorkflowInputsRejectsBadYAML(t *testing.T) {
	_, err := parseWorkflowInputs([]byte("on: [unclosed"))
	if err == nil || !strings.Contains(err.Error(), "parse workflow file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseInputType(t *testing.T) {
	cases := map[string]InputType{
		"number":      TypeNumber,
		"boolean":     TypeBoolean,
		"choice":      TypeChoice,
		"environment": TypeEnvironment,
		"string":      TypeString,
		"":            TypeString,
		"shoesize":    TypeString,
	}
	for tag, want := range cases {
		if got := ParseInputType(tag); got != want {
			t.Fatalf("tag %q: expected %v, got %v", tag, want, got)
		}
	}
	if TypeChoice.String() != "choice" || TypeString.String() != "string" {
		t.Fatalf("unexpected type names: %v %v", TypeChoice, TypeString)
	}
}

func TestWorkflowInputsFetch(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(deployWorkflow))
	var chunks []string
	for len(encoded) > 60 {
		chunks = append(chunks, encoded[:60])
		encoded = encoded[60:]
	}
	chunks = append(chunks, encoded)

	script := testutil.NewScript(t)
	script.Stub(strings.Join(chunks, "\n"),
		"api repos/octo/hello/contents/.github/workflows/deploy.yml?ref=release")

	fields, err := newTestClient(script).WorkflowInputs("octo/hello", "release", "deploy.yml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fields) != 5 || fields[0].Name != "environment" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestDecodeContent(t *testing.T) {
	data, err := decodeContent("aGVs\r\nbG8=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content: %q", data)
	}

	if _, err := decodeContent("!!!not base64!!!"); err == nil {
		t.Fatalf("expected decode error")
	} else if !strings.Contains(err.Error(), "decode workflow content") {
		t.Fatalf("unexpected error: %v", err)
	}
}
