package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// CompilePair compiles the CV and cover letter together. Both documents are
// built in a scratch directory and installed into outputDir only once both
// succeed, so a cover letter failure never clobbers a previously good CV.
func (c *Compiler) CompilePair(ctx context.Context, cv, cover Document, outputDir string) (cvPath, coverPath string, err error) {
	scratch, err := os.MkdirTemp("", "latex-pair-*")
	if err != nil {
		return "", "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	var cvScratch, coverScratch string
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path, err := c.Compile(gCtx, cv, scratch)
		if err != nil {
			return err
		}
		cvScratch = path
		return nil
	})
	g.Go(func() error {
		path, err := c.Compile(gCtx, cover, scratch)
		if err != nil {
			return err
		}
		coverScratch = path
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory: %w", err)
	}

	cvPath = filepath.Join(outputDir, filepath.Base(cvScratch))
	coverPath = filepath.Join(outputDir, filepath.Base(coverScratch))
	if err := installPair(cvScratch, cvPath, coverScratch, coverPath); err != nil {
		return "", "", err
	}
	return cvPath, coverPath, nil
}

type stagedFile struct {
	src, dst, tmp string
}

// installPair stages both PDFs next to their destinations before renaming
// either, so existing documents are replaced only when the whole pair is
// ready.
func installPair(cvSrc, cvDst, coverSrc, coverDst string) error {
	pairs := []stagedFile{
		{src: cvSrc, dst: cvDst, tmp: cvDst + ".tmp"},
		{src: coverSrc, dst: coverDst, tmp: coverDst + ".tmp"},
	}

	for i, p := range pairs {
		data, err := os.ReadFile(p.src)
		if err != nil {
			removeStaged(pairs[:i])
			return fmt.Errorf("failed to read compiled PDF: %w", err)
		}
		if err := os.WriteFile(p.tmp, data, 0o644); err != nil {
			removeStaged(pairs[:i])
			return fmt.Errorf("failed to stage PDF: %w", err)
		}
	}
	for _, p := range pairs {
		if err := os.Rename(p.tmp, p.dst); err != nil {
			removeStaged(pairs)
			return fmt.Errorf("failed to install PDF: %w", err)
		}
	}
	return nil
}

func removeStaged(pairs []stagedFile) {
	for _, p := range pairs {
		_ = os.Remove(p.tmp)
	}
}
