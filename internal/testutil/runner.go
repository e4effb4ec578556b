// Package testutil fakes the gh CLI for tests: invocations are matched
// against scripted responses instead of reaching a real binary or the
// network.
package testutil

import (
	"strings"
	"testing"
)

// Script stands in for a gh invocation runner. Responses are declared up
// front; each invocation is answered by the first stub whose fragments all
// appear in the space-joined argument list, so more specific stubs should be
// declared before broader ones. Unmatched invocations fail the test.
type Script struct {
	t     *testing.T
	rules []rule
	calls [][]string
}

type rule struct {
	fragments []string
	out       string
	err       error
}

// NewScript creates an empty script bound to t.
func NewScript(t *testing.T) *Script {
	t.Helper()
	return &Script{t: t}
}

// Stub answers invocations matching all fragments with the given stdout.
func (s *Script) Stub(out string, fragments ...string) *Script {
	s.rules = append(s.rules, rule{fragments: fragments, out: out})
	return s
}

// Fail answers invocations matching all fragments with the given error.
func (s *Script) Fail(err error, fragments ...string) *Script {
	s.rules = append(s.rules, rule{fragments: fragments, err: err})
	return s
}

// Run records the invocation and plays back the scripted response.
func (s *Script) Run(args ...string) (string, error) {
	s.calls = append(s.calls, append([]string(nil), args...))
	joined := strings.Join(args, " ")
	for _, r := range s.rules {
		if matches(joined, r.fragments) {
			return r.out, r.err
		}
	}
	s.t.Fatalf("unscripted gh invocation: gh %s", joined)
	return "", nil
}

func matches(joined string, fragments []string) bool {
	for _, f := range fragments {
		if !strings.Contains(joined, f) {
			return false
		}
	}
	return true
}

// Calls returns every recorded invocation in order.
func (s *Script) Calls() [][]string {
	return s.calls
}

// CallCount reports how many recorded invocations match all fragments.
func (s *Script) CallCount(fragments ...string) int {
	n := 0
	for _, call := range s.calls {
		if matches(strings.Join(call, " "), fragments) {
			n++
		}
	}
	return n
}
