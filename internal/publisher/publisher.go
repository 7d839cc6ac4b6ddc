package publisher

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/Kanze89/adscraper/internal/config"
)

// StepResult records the outcome of one git step. The publisher never
// escalates a failed step; callers inspect the results for
// observability.
type StepResult struct {
	Step     string
	ExitCode int
	Output   string
	Err      error
}

// OK reports whether the step ran and exited zero.
func (r StepResult) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// runFunc executes a git subcommand in dir and returns the exit code
// and combined output. Err is only set when the command could not run
// at all (e.g. git not installed).
type runFunc func(ctx context.Context, dir string, args ...string) (int, []byte, error)

// Publisher stages, commits and pushes the repository working tree.
// Synchronization is advisory: every step is attempted regardless of
// earlier failures ("commit" with a clean tree is normal, not an
// error).
type Publisher struct {
	remote string
	branch string
	logger *slog.Logger
	run    runFunc
}

// New creates a publisher for the configured remote/branch pair.
func New(cfg config.GitConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	remote := cfg.RemoteName
	if remote == "" {
		remote = "origin"
	}
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}
	return &Publisher{
		remote: remote,
		branch: branch,
		logger: logger,
		run:    runGit,
	}
}

// Publish runs git add -A, git commit -m message, and git push, in
// that order, and returns one result per step. It never returns an
// error: non-zero exits and unrunnable commands are captured in the
// results and logged.
func (p *Publisher) Publish(ctx context.Context, repoDir, message string) []StepResult {
	steps := [][]string{
		{"add", "-A"},
		{"commit", "-m", message},
		{"push", p.remote, p.branch},
	}

	results := make([]StepResult, 0, len(steps))
	for _, args := range steps {
		exitCode, out, err := p.run(ctx, repoDir, args...)
		res := StepResult{
			Step:     "git " + args[0],
			ExitCode: exitCode,
			Output:   strings.TrimSpace(string(out)),
			Err:      err,
		}
		results = append(results, res)

		switch {
		case res.Err != nil:
			p.logger.Warn("git step could not run",
				slog.String("step", res.Step),
				slog.String("error", res.Err.Error()))
		case res.ExitCode != 0:
			p.logger.Warn("git step exited non-zero",
				slog.String("step", res.Step),
				slog.Int("exit_code", res.ExitCode),
				slog.String("output", res.Output))
		default:
			p.logger.Debug("git step completed",
				slog.String("step", res.Step))
		}
	}

	p.logger.Info("push attempted",
		slog.String("remote", p.remote),
		slog.String("branch", p.branch),
		slog.String("repo", repoDir))
	return results
}

// runGit shells out to the git binary on PATH. The repository must
// already have its remote and credentials configured.
func runGit(ctx context.Context, dir string, args ...string) (int, []byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), out, nil
	}
	return 0, out, err
}
