// Package github talks to GitHub through the gh CLI: repository metadata via
// the GraphQL API, workflow files via the contents API, and workflow runs via
// the run subcommands. Authentication is whatever gh itself is logged in
// with.
package github

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	branchPageSize    = 100
	workflowsDir      = ".github/workflows"
	runLookupAttempts = 5
	runLookupInterval = 2 * time.Second
)

// Client issues gh commands through a Runner.
type Client struct {
	runner Runner
	poll   *throttle
}

// NewClient wraps the given runner. A nil runner uses the gh binary on PATH.
func NewClient(runner Runner) *Client {
	if runner == nil {
		runner = NewRunner()
	}
	return &Client{
		runner: runner,
		poll:   newThrottle(runLookupInterval),
	}
}

// SplitRepo breaks an owner/name slug into its parts.
func SplitRepo(repo string) (string, string, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be owner/name (got %q)", repo)
	}
	return parts[0], parts[1], nil
}

const repoDetailsQuery = `query($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    refs(refPrefix: "refs/heads/", first: 100) {
      nodes { name }
    }
    object(expression: "HEAD:.github/workflows/") {
      ... on Tree {
        entries { name }
      }
    }
  }
}`

const branchWorkflowsQuery = `query($owner: String!, $name: String!, $expr: String!) {
  repository(owner: $owner, name: $name) {
    object(expression: $expr) {
      ... on Tree {
        entries { name }
      }
    }
  }
}`

type graphqlResponse struct {
	Data struct {
		Repository *struct {
			Refs struct {
				Nodes []struct {
					Name string `json:"name"`
				} `json:"nodes"`
			} `json:"refs"`
			Object *struct {
				Entries []struct {
					Name string `json:"name"`
				} `json:"entries"`
			} `json:"object"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// RepoDetails fetches a repository's branch names and the workflow files on
// its default branch in a single GraphQL round trip.
func (c *Client) RepoDetails(repo string) ([]string, []string, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, nil, err
	}
	out, err := c.runner.Run(
		"api", "graphql",
		"-f", "query="+repoDetailsQuery,
		"-F", "owner="+owner,
		"-F", "name="+name,
	)
	if err != nil {
		return nil, nil, err
	}
	var resp graphqlResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return nil, nil, fmt.Errorf("parse repository details: %w", err)
	}
	if resp.Data.Repository == nil {
		return nil, nil, fmt.Errorf("GitHub API error: %s", graphqlErrors(resp))
	}
	var branches []string
	for _, node := range resp.Data.Repository.Refs.Nodes {
		branches = append(branches, node.Name)
	}
	return branches, treeWorkflows(resp), nil
}

// BranchWorkflows fetches the workflow files present on one branch.
func (c *Client) BranchWorkflows(repo, branch string) ([]string, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return nil, err
	}
	out, err := c.runner.Run(
		"api", "graphql",
		"-f", "query="+branchWorkflowsQuery,
		"-F", "owner="+owner,
		"-F", "name="+name,
		"-F", "expr="+branch+":"+workflowsDir+"/",
	)
	if err != nil {
		return nil, err
	}
	var resp graphqlResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return nil, fmt.Errorf("parse branch workflows: %w", err)
	}
	if resp.Data.Repository == nil {
		return nil, fmt.Errorf("GitHub API error: %s", graphqlErrors(resp))
	}
	return treeWorkflows(resp), nil
}

func treeWorkflows(resp graphqlResponse) []string {
	repo := resp.Data.Repository
	if repo == nil || repo.Object == nil {
		return nil
	}
	var files []string
	for _, entry := range repo.Object.Entries {
		if isWorkflowFile(entry.Name) {
			files = append(files, entry.Name)
		}
	}
	return files
}

func isWorkflowFile(name string) bool {
	return strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")
}

func graphqlErrors(resp graphqlResponse) string {
	if len(resp.Errors) == 0 {
		return "repository not found"
	}
	messages := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}
