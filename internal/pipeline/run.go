// Package pipeline provides the high-level orchestration for the application
// workflow: analyzing a posting into staged drafts, finalizing them into a
// tracked application with compiled documents, and regenerating documents
// after edits.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mathieu/apply-pilot/internal/compiler"
	"github.com/mathieu/apply-pilot/internal/compose"
	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/fetch"
	"github.com/mathieu/apply-pilot/internal/ingestion"
	"github.com/mathieu/apply-pilot/internal/llm"
	"github.com/mathieu/apply-pilot/internal/matching"
	"github.com/mathieu/apply-pilot/internal/notify"
	"github.com/mathieu/apply-pilot/internal/parsing"
	"github.com/mathieu/apply-pilot/internal/staging"
	"github.com/mathieu/apply-pilot/internal/types"
)

// ErrNoDrafts is returned when a regenerate action finds neither request
// drafts nor stored ones to re-render.
var ErrNoDrafts = errors.New("application has no stored drafts")

// Options holds the collaborators a Pipeline orchestrates.
type Options struct {
	Profile    *types.Profile
	Client     llm.Client // nil runs extraction and composition without a model
	Fetcher    *fetch.CachedFetcher
	Store      ApplicationStore
	Staging    staging.Store
	Compiler   DocumentCompiler // may be nil when only Analyze is used
	Notifier   *notify.Notifier
	OutputDir  string
	UseBrowser bool
}

// ApplicationStore is the slice of the database layer the pipeline writes
// through. *db.DB satisfies it.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, app *db.Application) (*db.Application, error)
	GetApplication(ctx context.Context, id string) (*db.Application, error)
	UpdateDrafts(ctx context.Context, id string, cv *types.CVDraft, cover *types.CoverDraft) (*db.Application, error)
	UpdateDocumentPaths(ctx context.Context, id, cvPath, coverPath string) (*db.Application, error)
	DeleteApplication(ctx context.Context, id string) (bool, error)
}

// DocumentCompiler turns a rendered CV/cover pair into installed PDFs,
// both or neither. *compiler.Compiler satisfies it.
type DocumentCompiler interface {
	CompilePair(ctx context.Context, cv, cover compiler.Document, outputDir string) (cvPath, coverPath string, err error)
}

// Pipeline runs the analyze, finalize and regenerate units of work. One
// instance is shared across requests; every method call is one unit of work.
type Pipeline struct {
	profile    *types.Profile
	llm        llm.Client
	fetcher    *fetch.CachedFetcher
	store      ApplicationStore
	staging    staging.Store
	compiler   DocumentCompiler
	notifier   *notify.Notifier
	outputDir  string
	useBrowser bool
}

// New creates a Pipeline over the given collaborators.
func New(opts Options) *Pipeline {
	return &Pipeline{
		profile:    opts.Profile,
		llm:        opts.Client,
		fetcher:    opts.Fetcher,
		store:      opts.Store,
		staging:    opts.Staging,
		compiler:   opts.Compiler,
		notifier:   opts.Notifier,
		outputDir:  opts.OutputDir,
		useBrowser: opts.UseBrowser,
	}
}

// AnalyzeResult is what one analyze unit of work produces: the staged
// drafts under a fresh application id, ready for preview and finalize.
type AnalyzeResult struct {
	ID      string             `json:"id"`
	Posting *types.JobPosting  `json:"posting"`
	Match   *types.MatchResult `json:"match"`
	CV      *types.CVDraft     `json:"cv"`
	Cover   *types.CoverDraft  `json:"cover"`
	LogoURL string             `json:"logo_url,omitempty"`
}

// Analyze fetches a posting page, extracts and matches it, composes both
// drafts and stages everything under a new application id. Nothing is
// persisted to the application store until finalize.
func (p *Pipeline) Analyze(ctx context.Context, url string) (*AnalyzeResult, error) {
	content, err := ingestion.IngestFromURL(ctx, p.fetcher, url, p.useBrowser)
	if err != nil {
		return nil, fmt.Errorf("job ingestion failed: %w", err)
	}

	posting, err := parsing.ExtractPosting(ctx, p.llm, content, url)
	if err != nil {
		return nil, fmt.Errorf("posting extraction failed: %w", err)
	}

	match := matching.Match(p.profile, posting)
	cv, cover := compose.BuildDrafts(p.profile, posting, match)
	p.enrichCover(ctx, posting, match, &cv, &cover)

	rec := &staging.Record{
		ID:        db.NewApplicationID(),
		Posting:   posting,
		Match:     match,
		CV:        &cv,
		Cover:     &cover,
		CreatedAt: time.Now(),
	}
	if content.Meta != nil {
		rec.LogoURL = content.Meta.LogoURL
	}
	if err := p.staging.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("staging analysis failed: %w", err)
	}

	log.Info().
		Str("id", rec.ID).
		Str("company", posting.Company).
		Str("title", posting.Title).
		Int("score", match.Score).
		Msg("posting analyzed")

	return &AnalyzeResult{
		ID:      rec.ID,
		Posting: posting,
		Match:   match,
		CV:      &cv,
		Cover:   &cover,
		LogoURL: rec.LogoURL,
	}, nil
}

// Preview returns the staged analysis for id, or nil when it expired or
// never existed.
func (p *Pipeline) Preview(ctx context.Context, id string) (*staging.Record, error) {
	return p.staging.Get(ctx, id)
}
