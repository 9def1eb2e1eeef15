package svcmgr

import (
	"context"
	"strings"
	"sync"
)

// MockResponse is a canned answer for one native tool invocation
type MockResponse struct {
	Result ExecResult
	Err    error
}

// MockRunner is a scripted Runner for testing backends without the native
// supervisor tools installed. Responses are keyed by the space-joined
// argument list (excluding the program name); unmatched invocations get
// Default. Every call is recorded.
type MockRunner struct {
	mu sync.Mutex

	// Responses maps a space-joined argument list to its canned answer
	Responses map[string]MockResponse
	// Default is returned for invocations with no matching response
	Default MockResponse
	// Calls records every invocation as program name followed by arguments
	Calls [][]string
}

// NewMockRunner creates an empty MockRunner whose default answer is exit 0
func NewMockRunner() *MockRunner {
	return &MockRunner{Responses: make(map[string]MockResponse)}
}

// On registers a canned result for the given argument list
func (m *MockRunner) On(args string, res ExecResult) *MockRunner {
	m.Responses[args] = MockResponse{Result: res}
	return m
}

// OnErr registers a canned error for the given argument list
func (m *MockRunner) OnErr(args string, err error) *MockRunner {
	m.Responses[args] = MockResponse{Err: err}
	return m
}

// Run returns the scripted response for the invocation and records the call
func (m *MockRunner) Run(_ context.Context, name string, args ...string) (ExecResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, append([]string{name}, args...))

	if resp, ok := m.Responses[strings.Join(args, " ")]; ok {
		return resp.Result, resp.Err
	}
	return m.Default.Result, m.Default.Err
}

// CallCount returns the number of recorded invocations
func (m *MockRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Called reports whether any recorded invocation's arguments start with the
// given space-joined prefix.
func (m *MockRunner) Called(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.Calls {
		if strings.HasPrefix(strings.Join(call[1:], " "), prefix) {
			return true
		}
	}
	return false
}
