// Package compiler shells out to an installed LaTeX engine to turn rendered
// documents into PDFs. Engines are tried in preference order, tectonic then
// pdflatex, both in nonstop mode with the output directory pinned.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// CompilationTimeout bounds a single engine run.
	CompilationTimeout = 30 * time.Second

	logTailLines = 40
)

// ErrNoEngine is returned when neither tectonic nor pdflatex is installed.
var ErrNoEngine = errors.New("no LaTeX engine found in PATH (install tectonic or pdflatex)")

// enginePreference is the lookup order for installed engines.
var enginePreference = []string{"tectonic", "pdflatex"}

// Compiler runs an installed LaTeX engine with a per-document timeout.
type Compiler struct {
	engines []string
	timeout time.Duration
}

// New resolves the installed engines and returns a ready Compiler.
func New() (*Compiler, error) {
	var found []string
	for _, engine := range enginePreference {
		if _, err := exec.LookPath(engine); err == nil {
			found = append(found, engine)
		}
	}
	if len(found) == 0 {
		return nil, ErrNoEngine
	}
	return &Compiler{engines: found, timeout: CompilationTimeout}, nil
}

// Document is one LaTeX source ready for compilation.
type Document struct {
	Name   string // base filename without extension
	Source string
}

// Compile writes the document source into dir and compiles it there,
// returning the produced PDF path. Each installed engine is tried in
// preference order; the last failure is returned when none succeeds.
func (c *Compiler) Compile(ctx context.Context, doc Document, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create compile directory: %w", err)
	}

	texPath := filepath.Join(dir, doc.Name+".tex")
	if err := os.WriteFile(texPath, []byte(doc.Source), 0o644); err != nil {
		return "", fmt.Errorf("failed to write LaTeX source: %w", err)
	}

	var lastErr error
	for _, engine := range c.engines {
		pdfPath, err := c.runEngine(ctx, engine, texPath, dir)
		if err == nil {
			return pdfPath, nil
		}
		lastErr = err
		log.Warn().
			Str("engine", engine).
			Str("document", doc.Name).
			Err(err).
			Msg("LaTeX engine run failed")
	}
	return "", lastErr
}

func (c *Compiler) runEngine(ctx context.Context, engine, texPath, dir string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, engine, engineArgs(engine, texPath, dir)...)
	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()
	if runErr != nil {
		return "", &CompilationError{
			Message:   fmt.Sprintf("%s failed for %s", engine, filepath.Base(texPath)),
			LogOutput: logTail(output.String(), logTailLines),
			Cause:     runErr,
		}
	}

	pdfPath := strings.TrimSuffix(texPath, ".tex") + ".pdf"
	if _, err := os.Stat(pdfPath); err != nil {
		return "", &CompilationError{
			Message:   fmt.Sprintf("%s produced no PDF for %s", engine, filepath.Base(texPath)),
			LogOutput: logTail(output.String(), logTailLines),
			Cause:     err,
		}
	}
	return pdfPath, nil
}

// engineArgs builds the invocation for each supported engine.
func engineArgs(engine, texPath, dir string) []string {
	if engine == "tectonic" {
		return []string{"-o", dir, texPath}
	}
	return []string{"-interaction=nonstopmode", "-output-directory", dir, texPath}
}

// logTail keeps the last n lines of engine output.
func logTail(output string, n int) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
