package services

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/export"
	"github.com/edumanage/educenter/internal/pkg/filestorage"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

const reportsDir = "reports"

var reportTitles = map[models.ReportType]string{
	models.ReportTeachingHours: "Báo cáo giờ dạy",
	models.ReportAttendance:    "Báo cáo điểm danh",
	models.ReportSessions:      "Danh sách buổi học",
}

var sessionStatusNames = map[models.SessionStatus]string{
	models.SessionScheduled: "Đã lên lịch",
	models.SessionCompleted: "Đã dạy",
	models.SessionCancelled: "Đã hủy",
}

// ReportService builds reports and exports them to Excel or PDF
type ReportService struct {
	reportRepo  *repositories.ReportRepository
	sessionRepo *repositories.ClassSessionRepository
	stats       *StatisticsService
	storage     filestorage.FileStorage
	pdf         *export.PDFWriter
	logger      zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(repos *repositories.Repositories, stats *StatisticsService, storage filestorage.FileStorage,
	pdf *export.PDFWriter, logger zerolog.Logger) *ReportService {
	return &ReportService{
		reportRepo:  repos.ReportRepository,
		sessionRepo: repos.ClassSessionRepository,
		stats:       stats,
		storage:     storage,
		pdf:         pdf,
		logger:      logger,
	}
}

// GetByID returns a report
func (s *ReportService) GetByID(ctx context.Context, id string) (*models.Report, error) {
	return s.reportRepo.GetByID(ctx, id)
}

// GetAll lists reports, newest first
func (s *ReportService) GetAll(ctx context.Context, reportType string) ([]*models.Report, error) {
	return s.reportRepo.GetAll(ctx, models.ReportType(reportType))
}

// Generate builds a report, exports its file and stores the report row
func (s *ReportService) Generate(ctx context.Context, userID string, req *dto.GenerateReportRequest) (*models.Report, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		return nil, err
	}
	reportType := models.ReportType(req.Type)

	table, summary, err := s.buildTable(ctx, reportType, req)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(req.Title); t != "" {
		table.Title = t
	}
	table.Subtitle = fmt.Sprintf("Từ %s đến %s", from.Format("02/01/2006"), to.Format("02/01/2006"))
	table.GeneratedAt = time.Now()

	info, err := s.storage.Save(reportsDir, "."+req.Format, func(w io.Writer) error {
		if req.Format == models.FormatPDF {
			return s.pdf.Write(w, table)
		}
		return export.WriteExcel(w, table)
	})
	if err != nil {
		return nil, fmt.Errorf("error exporting report: %w", err)
	}

	report := &models.Report{
		Type:        reportType,
		Title:       table.Title,
		PeriodStart: from,
		PeriodEnd:   to,
		Summary:     &summary,
		FilePath:    &info.Path,
		FileFormat:  helpers.Ptr(req.Format),
	}
	if userID != "" {
		report.GeneratedBy = &userID
	}
	if err := s.reportRepo.Insert(ctx, report); err != nil {
		if delErr := s.storage.DeleteFile(info.Path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", info.Path).Msg("Failed to remove orphaned export")
		}
		return nil, err
	}

	s.logger.Info().
		Str("reportID", report.ID).
		Str("type", req.Type).
		Str("format", req.Format).
		Int64("size", info.FileSize).
		Msg("Report generated")
	return report, nil
}

// Delete removes a report and its exported file
func (s *ReportService) Delete(ctx context.Context, id string) error {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return err
	}
	if report.FilePath != nil {
		if err := s.storage.DeleteFile(*report.FilePath); err != nil {
			s.logger.Warn().Err(err).Str("reportID", id).Msg("Failed to delete report file")
		}
	}
	return nil
}

// FilePath returns where the exported file of a report lives on disk
func (s *ReportService) FilePath(ctx context.Context, id string) (string, *models.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if report.FilePath == nil {
		return "", report, nil
	}
	return s.storage.GetFullPath(*report.FilePath), report, nil
}

func (s *ReportService) buildTable(ctx context.Context, reportType models.ReportType, req *dto.GenerateReportRequest) (*export.Table, string, error) {
	period := &dto.PeriodQuery{From: req.From, To: req.To}
	switch reportType {
	case models.ReportTeachingHours:
		hours, err := s.stats.TeachingHours(ctx, period, "")
		if err != nil {
			return nil, "", err
		}
		table, summary := teachingHoursTable(hours)
		return table, summary, nil
	case models.ReportAttendance:
		summaries, err := s.stats.AttendanceSummary(ctx, period)
		if err != nil {
			return nil, "", err
		}
		table, summary := attendanceTable(summaries)
		return table, summary, nil
	default:
		from, to, err := parsePeriod(req.From, req.To)
		if err != nil {
			return nil, "", err
		}
		sessions, err := s.sessionRepo.GetByDateRange(ctx, from, to)
		if err != nil {
			return nil, "", err
		}
		table, summary := sessionsTable(sessions)
		return table, summary, nil
	}
}

func teachingHoursTable(hours []*models.TeachingHours) (*export.Table, string) {
	t := &export.Table{
		Title:   reportTitles[models.ReportTeachingHours],
		Headers: []string{"Mã GV", "Giáo viên", "Số buổi", "Số giờ", "Đơn giá/giờ", "Thành tiền"},
	}
	var (
		minutes int
		salary  int64
	)
	for _, h := range hours {
		t.Rows = append(t.Rows, []string{
			h.TeacherID, h.TeacherName, strconv.Itoa(h.SessionCount), formatHours(h.Minutes),
			formatMoney(h.HourlyRate), formatMoney(h.Salary),
		})
		minutes += h.Minutes
		salary += h.Salary
	}
	summary := fmt.Sprintf("%d giáo viên, %s giờ, tổng lương %s", len(hours), formatHours(minutes), formatMoney(salary))
	t.Footer = "Tổng: " + summary
	return t, summary
}

func attendanceTable(summaries []*models.AttendanceSummary) (*export.Table, string) {
	t := &export.Table{
		Title:   reportTitles[models.ReportAttendance],
		Headers: []string{"Lớp", "Số buổi", "Lượt điểm danh", "Có mặt", "Vắng", "Vắng có phép", "Tỉ lệ"},
	}
	var records, present int
	for _, s := range summaries {
		t.Rows = append(t.Rows, []string{
			s.ClassName, strconv.Itoa(s.Sessions), strconv.Itoa(s.Records), strconv.Itoa(s.Present),
			strconv.Itoa(s.Absent), strconv.Itoa(s.Excused), formatRate(s.Rate),
		})
		records += s.Records
		present += s.Present
	}
	rate := 0.0
	if records > 0 {
		rate = float64(present) / float64(records)
	}
	summary := fmt.Sprintf("%d lớp, %d lượt điểm danh, tỉ lệ có mặt %s", len(summaries), records, formatRate(rate))
	t.Footer = "Tổng: " + summary
	return t, summary
}

func sessionsTable(sessions []*models.ClassSession) (*export.Table, string) {
	t := &export.Table{
		Title:   reportTitles[models.ReportSessions],
		Headers: []string{"Ngày", "Giờ", "Lớp", "Giáo viên", "Phòng", "Chủ đề", "Trạng thái"},
	}
	counts := map[models.SessionStatus]int{}
	for _, cs := range sessions {
		t.Rows = append(t.Rows, []string{
			cs.Date.Format("02/01/2006"), cs.StartTime + " - " + cs.EndTime, cs.ClassName,
			cs.TeacherName, cs.RoomName, helpers.Deref(cs.Topic), sessionStatusNames[cs.Status],
		})
		counts[cs.Status]++
	}
	summary := fmt.Sprintf("%d buổi: %d đã dạy, %d đã lên lịch, %d đã hủy", len(sessions),
		counts[models.SessionCompleted], counts[models.SessionScheduled], counts[models.SessionCancelled])
	t.Footer = "Tổng: " + summary
	return t, summary
}

func formatHours(minutes int) string {
	return strconv.FormatFloat(math.Round(float64(minutes)/60*100)/100, 'f', -1, 64)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 1, 64) + "%"
}

// formatMoney groups thousands with dots, as written in Vietnam
func formatMoney(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + b.String() + " đ"
}
