package publisher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kanze89/adscraper/internal/config"
)

// stubRun records invocations and replays scripted outcomes.
type stubRun struct {
	calls [][]string
	dirs  []string

	exitCodes map[string]int
	errs      map[string]error
}

func (s *stubRun) run(_ context.Context, dir string, args ...string) (int, []byte, error) {
	s.calls = append(s.calls, args)
	s.dirs = append(s.dirs, dir)
	sub := args[0]
	return s.exitCodes[sub], []byte("output of git " + sub), s.errs[sub]
}

func newTestPublisher(stub *stubRun) *Publisher {
	p := New(config.GitConfig{RemoteName: "origin", Branch: "main"}, nil)
	p.run = stub.run
	return p
}

func TestPublishRunsAllStepsInOrder(t *testing.T) {
	stub := &stubRun{}
	p := newTestPublisher(stub)

	results := p.Publish(context.Background(), "/repo", "update banners 2025-09-19")

	require.Len(t, results, 3)
	assert.Equal(t, [][]string{
		{"add", "-A"},
		{"commit", "-m", "update banners 2025-09-19"},
		{"push", "origin", "main"},
	}, stub.calls)
	assert.Equal(t, []string{"/repo", "/repo", "/repo"}, stub.dirs)
	for _, r := range results {
		assert.True(t, r.OK(), r.Step)
	}
}

func TestPublishContinuesWhenCommitFails(t *testing.T) {
	// "nothing to commit" exits 1; the push must still be attempted.
	stub := &stubRun{exitCodes: map[string]int{"commit": 1}}
	p := newTestPublisher(stub)

	results := p.Publish(context.Background(), "/repo", "msg")

	require.Len(t, results, 3)
	assert.Len(t, stub.calls, 3)
	assert.Equal(t, "push", stub.calls[2][0])

	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	assert.Equal(t, 1, results[1].ExitCode)
	assert.True(t, results[2].OK())
}

func TestPublishSurfacesUnrunnableCommand(t *testing.T) {
	stub := &stubRun{errs: map[string]error{
		"add":    context.DeadlineExceeded,
		"commit": context.DeadlineExceeded,
		"push":   context.DeadlineExceeded,
	}}
	p := newTestPublisher(stub)

	results := p.Publish(context.Background(), "/repo", "msg")

	require.Len(t, results, 3)
	for _, r := range results {
		assert.False(t, r.OK())
		assert.Error(t, r.Err)
	}
}

func TestPublishRecordsStepOutput(t *testing.T) {
	stub := &stubRun{exitCodes: map[string]int{"push": 128}}
	p := newTestPublisher(stub)

	results := p.Publish(context.Background(), "/repo", "msg")

	assert.Equal(t, "git push", results[2].Step)
	assert.Equal(t, 128, results[2].ExitCode)
	assert.Equal(t, "output of git push", results[2].Output)
}

func TestNewDefaultsRemoteAndBranch(t *testing.T) {
	p := New(config.GitConfig{}, nil)
	assert.Equal(t, "origin", p.remote)
	assert.Equal(t, "main", p.branch)
}
