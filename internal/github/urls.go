package github

import "fmt"

const baseURL = "https://github.com"

// RepoURL is the repository's home page.
func RepoURL(repo string) string {
	return fmt.Sprintf("%s/%s", baseURL, repo)
}

// BranchURL is the source tree at a branch.
func BranchURL(repo, branch string) string {
	return fmt.Sprintf("%s/%s/tree/%s", baseURL, repo, branch)
}

// WorkflowURL is the workflow file blob on a branch.
func WorkflowURL(repo, branch, file string) string {
	return fmt.Sprintf("%s/%s/blob/%s/%s/%s", baseURL, repo, branch, workflowsDir, file)
}

// ActionsURL is the repository's workflow-runs page.
func ActionsURL(repo string) string {
	return fmt.Sprintf("%s/%s/actions", baseURL, repo)
}

// RunURL is one workflow run's page.
func RunURL(repo string, runID int64) string {
	return fmt.Sprintf("%s/%s/actions/runs/%d", baseURL, repo, runID)
}
