// Package config holds the settings of a report run, assembled from command
// line flags and the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/naka-gawa/github-org-stats/internal/gateway"
	"github.com/naka-gawa/github-org-stats/internal/report"
	"github.com/naka-gawa/github-org-stats/internal/usecase"
)

// Config holds the settings of one report run.
type Config struct {
	Token       string
	LatestN     int
	OutPath     string
	FullStats   bool
	API         string
	Concurrency int
	Verbose     bool
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		OutPath:     report.DefaultCSVPath,
		API:         string(gateway.APIREST),
		Concurrency: 4,
	}
}

// Validate rejects settings no run can use.
func (c *Config) Validate() error {
	if c.LatestN < 0 {
		return fmt.Errorf("--latest-n must be zero (all repositories) or positive, got %d", c.LatestN)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", c.Concurrency)
	}
	if strings.TrimSpace(c.OutPath) == "" {
		return errors.New("--out must not be empty")
	}
	switch gateway.API(c.API) {
	case gateway.APIREST, gateway.APIGraphQL:
	default:
		return fmt.Errorf("--api must be %q or %q, got %q", gateway.APIREST, gateway.APIGraphQL, c.API)
	}
	return nil
}

// Limit converts LatestN into a repository selection limit.
func (c *Config) Limit() int {
	if c.LatestN == 0 {
		return usecase.NoLimit
	}
	return c.LatestN
}

// Options returns the use case options of this run.
func (c *Config) Options() usecase.Options {
	return usecase.Options{
		Limit:       c.Limit(),
		FullStats:   c.FullStats,
		Concurrency: c.Concurrency,
	}
}

// LoadEnv reads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func LoadEnv() {
	_ = godotenv.Load(".env")
}

// ResolveToken resolves a GitHub access token.
//
// Precedence:
//  1. GITHUB_TOKEN env var
//  2. GitHub CLI: `gh auth token -h github.com`
//
// An empty token with a nil error means none is configured.
func ResolveToken(ctx context.Context) (string, error) {
	if env := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); env != "" {
		return env, nil
	}
	return tokenFromGitHubCLI(ctx)
}

func tokenFromGitHubCLI(ctx context.Context) (string, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return "", nil
	}

	// Keep this bounded so a broken gh config or credential helper doesn't hang the run.
	cmdCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "gh", "auth", "token", "-h", "github.com")
	cmd.Env = append(os.Environ(), "GH_PAGER=cat")
	out, err := cmd.Output()
	if err != nil {
		if cmdCtx.Err() != nil {
			return "", cmdCtx.Err()
		}
		// gh is installed but not logged in.
		return "", nil
	}

	tok := strings.TrimSpace(string(out))
	if strings.ContainsAny(tok, " \t\n\r") {
		return "", errors.New("invalid token returned by gh: contains whitespace")
	}
	return tok, nil
}
