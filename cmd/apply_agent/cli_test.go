package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// getBinaryPath returns the path to the apply_agent binary for CLI tests.
func getBinaryPath(t *testing.T) string {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "apply_agent")
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/apply_agent ./cmd/apply_agent'", binaryPath)
	}

	return binaryPath
}

// filteredEnv returns the current environment minus the named variables.
func filteredEnv(drop ...string) []string {
	var env []string
	for _, e := range os.Environ() {
		keep := true
		for _, name := range drop {
			if strings.HasPrefix(e, name+"=") {
				keep = false
				break
			}
		}
		if keep {
			env = append(env, e)
		}
	}
	return env
}

const testProfileYAML = `identity:
  name: Mathieu Laurent
  title: Data Engineer
  email: mathieu@example.com
  phone: "+33 6 12 34 56 78"
summary_templates:
  - tag: data_engineer
    text:
      fr: "Ingénieur data avec cinq ans d'expérience."
      en: "Data engineer with five years of experience."
    tags: [python, sql]
skills:
  - label:
      fr: "Langages"
      en: "Languages"
    items: [Python, SQL]
    tags: [python, sql]
`

func writeTestProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAnalyzeCommand_MissingURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "analyze")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "accepts 1 arg")
}

func TestGenerateCommand_MissingAPIKey(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "generate", "https://example.com/job")
	cmd.Env = filteredEnv("GEMINI_API_KEY")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "GEMINI_API_KEY environment variable is required")
}

func TestGenerateCommand_MissingDatabaseURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "generate", "https://example.com/job")
	cmd.Env = append(filteredEnv("DATABASE_URL", "GEMINI_API_KEY"), "GEMINI_API_KEY=dummy-key")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL environment variable is required")
}

func TestServeCommand_MissingDatabaseURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "serve")
	cmd.Env = filteredEnv("DATABASE_URL")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL environment variable is required")
}

func TestListCommand_UnknownStatus(t *testing.T) {
	binaryPath := getBinaryPath(t)

	// Status validation happens before any connection attempt, so a
	// placeholder URL is enough.
	cmd := exec.Command(binaryPath, "list", "--status", "ghosted")
	cmd.Env = append(filteredEnv("DATABASE_URL"), "DATABASE_URL=postgres://localhost:5432/placeholder")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "unknown status")
	assert.Contains(t, string(output), "interview_scheduled")
}

func TestHashPasswordCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "hash-password", "s3cret-pw")
	cmd.Env = append(filteredEnv("BCRYPT_COST"), "BCRYPT_COST=10")
	stdout, err := cmd.Output()
	require.NoError(t, err)

	hash := strings.TrimSpace(string(stdout))
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pw")))
}

func TestHashPasswordCommand_Stdin(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "hash-password")
	cmd.Env = append(filteredEnv("BCRYPT_COST"), "BCRYPT_COST=10")
	cmd.Stdin = strings.NewReader("piped-pw\n")
	stdout, err := cmd.Output()
	require.NoError(t, err)

	hash := strings.TrimSpace(string(stdout))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("piped-pw")))
}

func TestHashPasswordCommand_EmptyPassword(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "hash-password", "")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "password cannot be empty")
}

func TestProfileCheckCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	profilePath := writeTestProfile(t, testProfileYAML)
	cmd := exec.Command(binaryPath, "profile", "check", "--profile", profilePath)
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, string(output), "Profile OK: Mathieu Laurent")
	assert.Contains(t, string(output), "skill groups:      1")
}

func TestProfileCheckCommand_InvalidProfile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	// Strip the skills section so validation fails.
	broken := strings.Split(testProfileYAML, "skills:")[0]
	profilePath := writeTestProfile(t, broken)

	cmd := exec.Command(binaryPath, "profile", "check", "--profile", profilePath)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "at least one skill group is required")
}

func TestProfileCheckCommand_MissingFile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "profile", "check", "--profile", filepath.Join(t.TempDir(), "nope.yaml"))
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to read profile")
}
