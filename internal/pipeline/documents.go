package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mathieu/apply-pilot/internal/compiler"
	"github.com/mathieu/apply-pilot/internal/compose"
	"github.com/mathieu/apply-pilot/internal/db"
	"github.com/mathieu/apply-pilot/internal/matching"
	"github.com/mathieu/apply-pilot/internal/parsing"
	"github.com/mathieu/apply-pilot/internal/rendering"
	"github.com/mathieu/apply-pilot/internal/types"
)

// Finalize compiles the staged drafts into PDFs and persists the
// application. Edited drafts passed by the caller replace the staged ones;
// nil keeps what analysis produced. Returns (nil, nil) when no staged
// record exists for id.
func (p *Pipeline) Finalize(ctx context.Context, id string, cv *types.CVDraft, cover *types.CoverDraft) (*db.Application, error) {
	rec, err := p.staging.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading staged analysis failed: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	if cv == nil {
		cv = rec.CV
	}
	if cover == nil {
		cover = rec.Cover
	}
	if cv == nil || cover == nil {
		return nil, ErrNoDrafts
	}

	cvPath, coverPath, err := p.renderAndCompile(ctx, rec.Posting, cv, cover)
	if err != nil {
		return nil, err
	}

	app := &db.Application{
		ID:           rec.ID,
		Company:      rec.Posting.Company,
		Position:     rec.Posting.Title,
		Location:     rec.Posting.Location,
		Salary:       rec.Posting.Salary,
		ContractType: rec.Posting.ContractType,
		Description:  rec.Posting.Description,
		URL:          rec.Posting.URL,
		CVPath:       cvPath,
		CoverPath:    coverPath,
		LogoURL:      rec.LogoURL,
		Language:     rec.Posting.Language,
		CVData:       cv,
		CoverData:    cover,
	}
	if rec.Match != nil {
		app.MatchScore = rec.Match.Score
	}

	created, err := p.store.CreateApplication(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("persisting application failed: %w", err)
	}

	if err := p.staging.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("failed to clear staged analysis")
	}
	if err := p.notifier.ApplicationCreated(created); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("failed to send creation notification")
	}

	log.Info().
		Str("id", created.ID).
		Str("company", created.Company).
		Str("cv", created.CVPath).
		Msg("application finalized")
	return created, nil
}

// Regenerate recompiles an existing application's documents. Edited drafts
// replace the stored ones; nil falls back to what finalize stored. The
// matcher is never re-invoked: the drafts are re-rendered verbatim.
// Concurrent regenerates are last-write-wins. Returns (nil, nil) for an
// unknown id.
func (p *Pipeline) Regenerate(ctx context.Context, id string, cv *types.CVDraft, cover *types.CoverDraft) (*db.Application, error) {
	app, err := p.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, nil
	}

	if cv == nil {
		cv = app.CVData
	}
	if cover == nil {
		cover = app.CoverData
	}
	if cv == nil || cover == nil {
		return nil, ErrNoDrafts
	}

	cvPath, coverPath, err := p.renderAndCompile(ctx, postingFromApplication(app), cv, cover)
	if err != nil {
		return nil, err
	}

	if _, err := p.store.UpdateDrafts(ctx, id, cv, cover); err != nil {
		return nil, fmt.Errorf("storing drafts failed: %w", err)
	}
	updated, err := p.store.UpdateDocumentPaths(ctx, id, cvPath, coverPath)
	if err != nil {
		return nil, fmt.Errorf("storing document paths failed: %w", err)
	}

	log.Info().Str("id", id).Str("cv", cvPath).Msg("application regenerated")
	return updated, nil
}

// DraftsForEdit returns the drafts to load into the editor: the stored
// edited drafts when present, otherwise defaults composed from the stored
// posting fields. Returns (nil, nil, nil) for an unknown id.
func (p *Pipeline) DraftsForEdit(ctx context.Context, id string) (*types.CVDraft, *types.CoverDraft, error) {
	app, err := p.store.GetApplication(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if app == nil {
		return nil, nil, nil
	}

	if app.CVData != nil && app.CoverData != nil {
		return app.CVData, app.CoverData, nil
	}

	posting := postingFromApplication(app)
	match := matching.Match(p.profile, posting)
	cv, cover := compose.BuildDrafts(p.profile, posting, match)
	if app.CVData != nil {
		cv = *app.CVData
	}
	if app.CoverData != nil {
		cover = *app.CoverData
	}
	return &cv, &cover, nil
}

// Delete removes the application row and both compiled PDFs. The bool
// reports whether a row existed.
func (p *Pipeline) Delete(ctx context.Context, id string) (bool, error) {
	app, err := p.store.GetApplication(ctx, id)
	if err != nil {
		return false, err
	}
	if app == nil {
		return false, nil
	}

	deleted, err := p.store.DeleteApplication(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	removeDocument(app.CVPath)
	removeDocument(app.CoverPath)

	log.Info().Str("id", id).Str("company", app.Company).Msg("application deleted")
	return true, nil
}

// renderAndCompile renders both documents and compiles them as a pair, so
// a cover failure never installs a partial CV.
func (p *Pipeline) renderAndCompile(ctx context.Context, posting *types.JobPosting, cv *types.CVDraft, cover *types.CoverDraft) (cvPath, coverPath string, err error) {
	cvTex, err := rendering.RenderCV(p.profile.Identity, cv)
	if err != nil {
		return "", "", fmt.Errorf("rendering CV failed: %w", err)
	}
	coverTex, err := rendering.RenderCover(p.profile.Identity, posting, cover)
	if err != nil {
		return "", "", fmt.Errorf("rendering cover letter failed: %w", err)
	}

	cvName, coverName := rendering.DocumentNames(p.profile.Identity.Name, posting.Company, posting.Language)
	return p.compiler.CompilePair(ctx,
		compiler.Document{Name: cvName, Source: cvTex},
		compiler.Document{Name: coverName, Source: coverTex},
		p.outputDir)
}

// postingFromApplication rebuilds the posting view of a stored application
// for re-rendering. Keywords are recovered from the stored text.
func postingFromApplication(app *db.Application) *types.JobPosting {
	return &types.JobPosting{
		URL:          app.URL,
		Title:        app.Position,
		Company:      app.Company,
		Location:     app.Location,
		Salary:       app.Salary,
		ContractType: app.ContractType,
		Description:  app.Description,
		Language:     app.Language,
		Keywords:     parsing.ExtractKeywords(app.Position + "\n" + app.Description),
	}
}

func removeDocument(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove compiled document")
	}
}
