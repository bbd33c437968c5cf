package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

var reportColumns = []string{
	"id", "report_type", "title", "period_start", "period_end",
	"generated_by", "summary", "file_path", "file_format", "created_at",
}

// ReportRepository handles generated reports
type ReportRepository struct {
	db *db.Provider
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(provider *db.Provider) *ReportRepository {
	return &ReportRepository{db: provider}
}

func scanReport(s db.Scanner) (*models.Report, error) {
	var (
		rp                                  models.Report
		reportType                          string
		generatedBy, summary, path, format sql.NullString
	)
	if err := s.Scan(&rp.ID, &reportType, &rp.Title, &rp.PeriodStart, &rp.PeriodEnd,
		&generatedBy, &summary, &path, &format, &rp.CreatedAt); err != nil {
		return nil, err
	}
	rp.Type = models.ReportType(reportType)
	rp.GeneratedBy = helpers.StringPtr(generatedBy)
	rp.Summary = helpers.StringPtr(summary)
	rp.FilePath = helpers.StringPtr(path)
	rp.FileFormat = helpers.StringPtr(format)
	return &rp, nil
}

// GetByID retrieves a report by ID
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report *models.Report
	err := r.db.QueryOne(ctx, r.db.Builder().Select(reportColumns...).From("reports").
		Where(squirrel.Eq{"id": id}),
		func(s db.Scanner) (err error) {
			report, err = scanReport(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving report: %w", err)
	}
	return report, nil
}

// GetAll retrieves reports, newest first, optionally of one type
func (r *ReportRepository) GetAll(ctx context.Context, reportType models.ReportType) ([]*models.Report, error) {
	q := r.db.Builder().Select(reportColumns...).From("reports").OrderBy("created_at DESC")
	if reportType != "" {
		q = q.Where(squirrel.Eq{"report_type": string(reportType)})
	}

	var reports []*models.Report
	err := r.db.QueryAll(ctx, q, func(s db.Scanner) error {
		rp, err := scanReport(s)
		if err != nil {
			return err
		}
		reports = append(reports, rp)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	return reports, nil
}

// Insert stores a new report and assigns its ID
func (r *ReportRepository) Insert(ctx context.Context, rp *models.Report) error {
	if rp.ID == "" {
		rp.ID = uuid.NewString()
	}
	if rp.CreatedAt.IsZero() {
		rp.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, r.db.Builder().Insert("reports").
		Columns(reportColumns...).
		Values(rp.ID, string(rp.Type), rp.Title, rp.PeriodStart, rp.PeriodEnd,
			helpers.GetNullString(rp.GeneratedBy), helpers.GetNullString(rp.Summary),
			helpers.GetNullString(rp.FilePath), helpers.GetNullString(rp.FileFormat), rp.CreatedAt))
	if err != nil {
		return fmt.Errorf("error creating report: %w", err)
	}
	return nil
}

// Delete removes a report row
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Delete("reports").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting report: %w", err)
	}
	if n == 0 {
		return apperrors.ErrReportNotFound
	}
	return nil
}
