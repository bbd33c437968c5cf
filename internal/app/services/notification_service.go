package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/pkg/email"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/websocket"
)

// defaultNotificationLimit caps a listing when the caller gives no limit
const defaultNotificationLimit = 50

// sweepLookbackDays makes a scheduled sweep also cover sessions of the previous
// days, whose attendance may have been taken after that day's run.
const sweepLookbackDays = 1

// NotificationStore persists notifications
type NotificationStore interface {
	GetByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit uint64) ([]*models.Notification, error)
	Insert(ctx context.Context, n *models.Notification) error
	MarkRead(ctx context.Context, id, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// AbsenceSource lists absences waiting for a parent call
type AbsenceSource interface {
	GetUnnotifiedAbsences(ctx context.Context, since time.Time) ([]*models.AbsenceNotice, error)
	MarkCalled(ctx context.Context, id string, called bool) error
}

// Pusher delivers a message to the open connections of a user
type Pusher interface {
	SendToUser(message *websocket.Message) int
}

// SweepResult reports one absence sweep
type SweepResult struct {
	Absences      int `json:"absences"`
	Emailed       int `json:"emailed"`
	TeacherAlerts int `json:"teacherAlerts"`
	Failed        int `json:"failed"`
}

// NotificationService stores notifications, pushes them to connected users and
// tells parents about absences.
type NotificationService struct {
	store    NotificationStore
	absences AbsenceSource
	pusher   Pusher
	mailer   email.Mailer
	logger   zerolog.Logger
	now      func() time.Time

	cronMu sync.Mutex
	cron   *cron.Cron
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(store NotificationStore, absences AbsenceSource, pusher Pusher, mailer email.Mailer, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		store:    store,
		absences: absences,
		pusher:   pusher,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// Create stores a notification and pushes it to the recipient if online
func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	if err := s.store.Insert(ctx, n); err != nil {
		return err
	}
	sent := s.pusher.SendToUser(&websocket.Message{
		Type:           websocket.TypeNotification,
		RecipientID:    n.RecipientID,
		NotificationID: n.ID,
		Title:          n.Title,
		Content:        n.Message,
		Timestamp:      n.CreatedAt,
	})
	s.logger.Debug().Str("notificationID", n.ID).Str("recipientID", n.RecipientID).Int("pushed", sent).Msg("Notification created")
	return nil
}

// List returns a user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, limit uint64) ([]*models.Notification, error) {
	if limit == 0 {
		limit = defaultNotificationLimit
	}
	return s.store.GetByRecipient(ctx, userID, unreadOnly, limit)
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.store.MarkRead(ctx, id, userID)
}

// CountUnread returns the unread badge count
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

// SweepAbsences e-mails the parent of every absence since the given day that
// was not handled yet, and alerts the session's teacher. An absence is marked
// called only once its e-mail went out; the rest stay for a phone call.
func (s *NotificationService) SweepAbsences(ctx context.Context, since time.Time) (*SweepResult, error) {
	notices, err := s.absences.GetUnnotifiedAbsences(ctx, since)
	if err != nil {
		return nil, err
	}

	today := helpers.TruncateDay(s.now())
	result := &SweepResult{}
	byTeacher := map[string][]*models.AbsenceNotice{}

	for _, notice := range notices {
		if notice.SessionDate.After(today) {
			continue
		}
		result.Absences++

		if notice.TeacherID != nil {
			byTeacher[*notice.TeacherID] = append(byTeacher[*notice.TeacherID], notice)
		}

		mail := strings.TrimSpace(helpers.Deref(notice.ParentEmail))
		if mail == "" {
			continue
		}
		if !s.mailer.Enabled() {
			s.logger.Info().
				Str("attendanceID", notice.AttendanceID).
				Str("toEmail", mail).
				Str("student", notice.StudentName).
				Msg("Mailer not configured, absence notice not sent")
			continue
		}
		if err := s.mailer.SendAbsenceNotice(mail, helpers.Deref(notice.ParentName), notice); err != nil {
			result.Failed++
			s.logger.Warn().Err(err).Str("attendanceID", notice.AttendanceID).Msg("Absence e-mail not sent")
			continue
		}
		if err := s.absences.MarkCalled(ctx, notice.AttendanceID, true); err != nil {
			result.Failed++
			s.logger.Error().Err(err).Str("attendanceID", notice.AttendanceID).Msg("Failed to mark absence as notified")
			continue
		}
		result.Emailed++
	}

	for teacherID, list := range byTeacher {
		n := &models.Notification{
			RecipientID: teacherID,
			Title:       "Học viên vắng mặt",
			Message:     absenceSummary(list),
		}
		if len(list) == 1 {
			n.RelatedStudentID = &list[0].StudentID
			n.RelatedSessionID = &list[0].SessionID
		}
		if err := s.Create(ctx, n); err != nil {
			result.Failed++
			s.logger.Error().Err(err).Str("teacherID", teacherID).Msg("Failed to alert teacher about absences")
			continue
		}
		result.TeacherAlerts++
	}

	s.logger.Info().
		Int("absences", result.Absences).
		Int("emailed", result.Emailed).
		Int("teacherAlerts", result.TeacherAlerts).
		Int("failed", result.Failed).
		Msg("Absence sweep finished")
	return result, nil
}

func absenceSummary(list []*models.AbsenceNotice) string {
	lines := make([]string, 0, len(list))
	for _, n := range list {
		lines = append(lines, fmt.Sprintf("%s vắng buổi %s %s lớp %s",
			n.StudentName, n.SessionDate.Format("02/01/2006"), n.StartTime, n.ClassName))
	}
	return strings.Join(lines, "\n")
}

// StartAbsenceSweep runs scheduledSweep on spec, a standard five-field cron
// expression.
func (s *NotificationService) StartAbsenceSweep(ctx context.Context, spec string) error {
	s.cronMu.Lock()
	defer s.cronMu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("absence sweep already started")
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() { s.scheduledSweep(ctx) })
	if err != nil {
		return fmt.Errorf("invalid absence sweep schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info().Str("schedule", spec).Msg("Absence sweep scheduled")
	return nil
}

// sweepSince is the first session day a scheduled sweep looks at
func (s *NotificationService) sweepSince() time.Time {
	return helpers.TruncateDay(s.now()).AddDate(0, 0, -sweepLookbackDays)
}

func (s *NotificationService) scheduledSweep(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	if _, err := s.SweepAbsences(runCtx, s.sweepSince()); err != nil {
		s.logger.Error().Err(err).Msg("Absence sweep failed")
	}
}

// StopAbsenceSweep stops the scheduler and waits for a running sweep
func (s *NotificationService) StopAbsenceSweep() {
	s.cronMu.Lock()
	c := s.cron
	s.cron = nil
	s.cronMu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}
