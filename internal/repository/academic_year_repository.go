package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dasschool/das-verify/internal/model"
)

// AcademicYearRepository handles academic year data access.
type AcademicYearRepository struct {
	db *sql.DB
}

// NewAcademicYearRepository creates a new AcademicYearRepository.
func NewAcademicYearRepository(db *sql.DB) *AcademicYearRepository {
	return &AcademicYearRepository{db: db}
}

// List retrieves all academic years, newest first.
func (r *AcademicYearRepository) List(ctx context.Context) ([]model.AcademicYear, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, year_name, COALESCE(description, ''), is_active, created_at
		FROM academic_years
		ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query academic years: %w", err)
	}
	defer rows.Close()

	var years []model.AcademicYear
	for rows.Next() {
		var y model.AcademicYear
		if err := rows.Scan(&y.ID, &y.YearName, &y.Description, &y.IsActive, &y.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan academic year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// Active retrieves the academic year marked active. Returns sql.ErrNoRows
// via the wrapped error when none exists.
func (r *AcademicYearRepository) Active(ctx context.Context) (*model.AcademicYear, error) {
	var y model.AcademicYear
	err := r.db.QueryRowContext(ctx, `
		SELECT id, year_name, COALESCE(description, ''), is_active, created_at
		FROM academic_years
		WHERE is_active = 1
		LIMIT 1`,
	).Scan(&y.ID, &y.YearName, &y.Description, &y.IsActive, &y.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("query active academic year: %w", err)
	}
	return &y, nil
}

// Create inserts a new academic year and returns its id.
func (r *AcademicYearRepository) Create(ctx context.Context, year *model.AcademicYear) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO academic_years (year_name, description, is_active)
		VALUES (?, ?, ?)`,
		year.YearName, year.Description, year.IsActive,
	)
	if err != nil {
		return fmt.Errorf("insert academic year: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("academic year id: %w", err)
	}
	year.ID = int(id)
	return nil
}
