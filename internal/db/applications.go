package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mathieu/apply-pilot/internal/types"
)

// -----------------------------------------------------------------------------
// Application Methods
// -----------------------------------------------------------------------------

// CreateApplication inserts a new application record and returns it with the
// database-assigned timestamps. A missing ID, status or language is filled
// with its default before insert.
func (db *DB) CreateApplication(ctx context.Context, app *Application) (*Application, error) {
	if app.ID == "" {
		app.ID = NewApplicationID()
	}
	if app.Status == "" {
		app.Status = "submitted"
	}
	if app.Language == "" {
		app.Language = "fr"
	}

	var cvDataJSON, coverDataJSON []byte
	var err error
	if app.CVData != nil {
		cvDataJSON, err = json.Marshal(app.CVData)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cv draft: %w", err)
		}
	}
	if app.CoverData != nil {
		coverDataJSON, err = json.Marshal(app.CoverData)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cover draft: %w", err)
		}
	}

	var created Application
	err = db.pool.QueryRow(ctx,
		`INSERT INTO applications (id, company, position, location, salary, contract_type,
		                           status, match_score, description, url, cv_path, cover_path,
		                           logo_url, language, cv_data, cover_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, company, position, location, salary, contract_type, status,
		           applied_date, match_score, description, url, cv_path, cover_path,
		           logo_url, language, cv_data, cover_data, created_at, updated_at`,
		app.ID, app.Company, app.Position, app.Location, app.Salary, app.ContractType,
		app.Status, app.MatchScore, app.Description, app.URL, app.CVPath, app.CoverPath,
		app.LogoURL, app.Language, cvDataJSON, coverDataJSON,
	).Scan(&created.ID, &created.Company, &created.Position, &created.Location, &created.Salary,
		&created.ContractType, &created.Status, &created.AppliedDate, &created.MatchScore,
		&created.Description, &created.URL, &created.CVPath, &created.CoverPath,
		&created.LogoURL, &created.Language, &cvDataJSON, &coverDataJSON,
		&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	if cvDataJSON != nil {
		_ = json.Unmarshal(cvDataJSON, &created.CVData)
	}
	if coverDataJSON != nil {
		_ = json.Unmarshal(coverDataJSON, &created.CoverData)
	}

	return &created, nil
}

// GetApplication retrieves one application by ID, or nil if it does not exist
func (db *DB) GetApplication(ctx context.Context, id string) (*Application, error) {
	var a Application
	var cvDataJSON, coverDataJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, company, position, location, salary, contract_type, status,
		        applied_date, match_score, description, url, cv_path, cover_path,
		        logo_url, language, cv_data, cover_data, created_at, updated_at
		 FROM applications WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Company, &a.Position, &a.Location, &a.Salary, &a.ContractType,
		&a.Status, &a.AppliedDate, &a.MatchScore, &a.Description, &a.URL, &a.CVPath,
		&a.CoverPath, &a.LogoURL, &a.Language, &cvDataJSON, &coverDataJSON,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if cvDataJSON != nil {
		_ = json.Unmarshal(cvDataJSON, &a.CVData)
	}
	if coverDataJSON != nil {
		_ = json.Unmarshal(coverDataJSON, &a.CoverData)
	}

	return &a, nil
}

// ListApplications retrieves applications newest first, optionally narrowed
// by an exact status and a case-insensitive search over company, position
// and location.
func (db *DB) ListApplications(ctx context.Context, filter ListFilter) ([]Application, error) {
	query := `SELECT id, company, position, location, salary, contract_type, status,
	                 applied_date, match_score, description, url, cv_path, cover_path,
	                 logo_url, language, cv_data, cover_data, created_at, updated_at
	          FROM applications WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filter.Status)
		argNum++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (company ILIKE $%d OR position ILIKE $%d OR location ILIKE $%d)",
			argNum, argNum, argNum)
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	query += " ORDER BY created_at DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var a Application
		var cvDataJSON, coverDataJSON []byte
		if err := rows.Scan(&a.ID, &a.Company, &a.Position, &a.Location, &a.Salary,
			&a.ContractType, &a.Status, &a.AppliedDate, &a.MatchScore, &a.Description,
			&a.URL, &a.CVPath, &a.CoverPath, &a.LogoURL, &a.Language,
			&cvDataJSON, &coverDataJSON, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		if cvDataJSON != nil {
			_ = json.Unmarshal(cvDataJSON, &a.CVData)
		}
		if coverDataJSON != nil {
			_ = json.Unmarshal(coverDataJSON, &a.CoverData)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}

	return apps, nil
}

// UpdateStatus sets a new status on an application and returns the updated
// record, or nil if the ID does not exist. Status validation happens in the
// caller; the store accepts whatever it is given.
func (db *DB) UpdateStatus(ctx context.Context, id, status string) (*Application, error) {
	var a Application
	var cvDataJSON, coverDataJSON []byte

	err := db.pool.QueryRow(ctx,
		`UPDATE applications SET status = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, company, position, location, salary, contract_type, status,
		           applied_date, match_score, description, url, cv_path, cover_path,
		           logo_url, language, cv_data, cover_data, created_at, updated_at`,
		id, status,
	).Scan(&a.ID, &a.Company, &a.Position, &a.Location, &a.Salary, &a.ContractType,
		&a.Status, &a.AppliedDate, &a.MatchScore, &a.Description, &a.URL, &a.CVPath,
		&a.CoverPath, &a.LogoURL, &a.Language, &cvDataJSON, &coverDataJSON,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	if cvDataJSON != nil {
		_ = json.Unmarshal(cvDataJSON, &a.CVData)
	}
	if coverDataJSON != nil {
		_ = json.Unmarshal(coverDataJSON, &a.CoverData)
	}

	return &a, nil
}

// UpdateDocumentPaths points an application at freshly compiled PDFs and
// returns the updated record, or nil if the ID does not exist.
func (db *DB) UpdateDocumentPaths(ctx context.Context, id, cvPath, coverPath string) (*Application, error) {
	var a Application
	var cvDataJSON, coverDataJSON []byte

	err := db.pool.QueryRow(ctx,
		`UPDATE applications SET cv_path = $2, cover_path = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, company, position, location, salary, contract_type, status,
		           applied_date, match_score, description, url, cv_path, cover_path,
		           logo_url, language, cv_data, cover_data, created_at, updated_at`,
		id, cvPath, coverPath,
	).Scan(&a.ID, &a.Company, &a.Position, &a.Location, &a.Salary, &a.ContractType,
		&a.Status, &a.AppliedDate, &a.MatchScore, &a.Description, &a.URL, &a.CVPath,
		&a.CoverPath, &a.LogoURL, &a.Language, &cvDataJSON, &coverDataJSON,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update document paths: %w", err)
	}

	if cvDataJSON != nil {
		_ = json.Unmarshal(cvDataJSON, &a.CVData)
	}
	if coverDataJSON != nil {
		_ = json.Unmarshal(coverDataJSON, &a.CoverData)
	}

	return &a, nil
}

// UpdateDrafts stores edited draft payloads so a later regeneration renders
// them instead of the originals. Returns the updated record, or nil if the
// ID does not exist.
func (db *DB) UpdateDrafts(ctx context.Context, id string, cv *types.CVDraft, cover *types.CoverDraft) (*Application, error) {
	var cvDataJSON, coverDataJSON []byte
	var err error
	if cv != nil {
		cvDataJSON, err = json.Marshal(cv)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cv draft: %w", err)
		}
	}
	if cover != nil {
		coverDataJSON, err = json.Marshal(cover)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cover draft: %w", err)
		}
	}

	var a Application
	err = db.pool.QueryRow(ctx,
		`UPDATE applications SET cv_data = $2, cover_data = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, company, position, location, salary, contract_type, status,
		           applied_date, match_score, description, url, cv_path, cover_path,
		           logo_url, language, cv_data, cover_data, created_at, updated_at`,
		id, cvDataJSON, coverDataJSON,
	).Scan(&a.ID, &a.Company, &a.Position, &a.Location, &a.Salary, &a.ContractType,
		&a.Status, &a.AppliedDate, &a.MatchScore, &a.Description, &a.URL, &a.CVPath,
		&a.CoverPath, &a.LogoURL, &a.Language, &cvDataJSON, &coverDataJSON,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update drafts: %w", err)
	}

	if cvDataJSON != nil {
		_ = json.Unmarshal(cvDataJSON, &a.CVData)
	}
	if coverDataJSON != nil {
		_ = json.Unmarshal(coverDataJSON, &a.CoverData)
	}

	return &a, nil
}

// DeleteApplication removes an application record. The boolean reports
// whether a row existed. Generated files on disk are the caller's problem.
func (db *DB) DeleteApplication(ctx context.Context, id string) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
