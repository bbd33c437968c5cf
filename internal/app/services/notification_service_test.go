package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/websocket"
)

type fakeNotificationStore struct {
	mu    sync.Mutex
	saved []*models.Notification
}

func (f *fakeNotificationStore) GetByRecipient(_ context.Context, recipientID string, unreadOnly bool, limit uint64) ([]*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Notification
	for _, n := range f.saved {
		if n.RecipientID == recipientID && (!unreadOnly || !n.IsRead) && uint64(len(out)) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) Insert(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = "n" + string(rune('0'+len(f.saved)))
	f.saved = append(f.saved, n)
	return nil
}

func (f *fakeNotificationStore) MarkRead(context.Context, string, string) error { return nil }

func (f *fakeNotificationStore) CountUnread(_ context.Context, recipientID string) (int64, error) {
	list, _ := f.GetByRecipient(context.Background(), recipientID, true, 1000)
	return int64(len(list)), nil
}

type fakeAbsences struct {
	notices []*models.AbsenceNotice
	called  map[string]bool
	since   time.Time
}

func (f *fakeAbsences) GetUnnotifiedAbsences(_ context.Context, since time.Time) ([]*models.AbsenceNotice, error) {
	f.since = since
	var out []*models.AbsenceNotice
	for _, n := range f.notices {
		if !n.SessionDate.Before(since) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeAbsences) MarkCalled(_ context.Context, id string, called bool) error {
	f.called[id] = called
	return nil
}

type fakePusher struct {
	messages []*websocket.Message
}

func (f *fakePusher) SendToUser(m *websocket.Message) int {
	f.messages = append(f.messages, m)
	return 1
}

type fakeMailer struct {
	enabled bool
	fail    map[string]bool
	sent    []string
}

func (f *fakeMailer) Enabled() bool { return f.enabled }

func (f *fakeMailer) SendAbsenceNotice(toEmail, _ string, _ *models.AbsenceNotice) error {
	if f.fail[toEmail] {
		return errors.New("smtp: mailbox unavailable")
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func sweepFixture(enabled bool) (*NotificationService, *fakeNotificationStore, *fakeAbsences, *fakePusher, *fakeMailer) {
	teacherA, teacherB := "104823", "100001"
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	absences := &fakeAbsences{
		called: map[string]bool{},
		notices: []*models.AbsenceNotice{
			{AttendanceID: "a1", StudentID: "s1", StudentName: "Lê Minh", SessionID: "cs1", SessionDate: today, StartTime: "18:00",
				ClassName: "IELTS", TeacherID: &teacherA, ParentEmail: helpers.Ptr("me.minh@example.com")},
			{AttendanceID: "a2", StudentID: "s2", StudentName: "Phạm Hoa", SessionID: "cs1", SessionDate: today, StartTime: "18:00",
				ClassName: "IELTS", TeacherID: &teacherA},
			{AttendanceID: "a3", StudentID: "s3", StudentName: "Võ Nam", SessionID: "cs2", SessionDate: today, StartTime: "08:00",
				ClassName: "TOEIC", TeacherID: &teacherB, ParentEmail: helpers.Ptr("broken@example.com")},
			// Not held yet
			{AttendanceID: "a4", StudentID: "s4", StudentName: "Future", SessionID: "cs3", SessionDate: today.AddDate(0, 0, 1),
				TeacherID: &teacherB, ParentEmail: helpers.Ptr("future@example.com")},
		},
	}
	store, pusher := &fakeNotificationStore{}, &fakePusher{}
	mailer := &fakeMailer{enabled: enabled, fail: map[string]bool{"broken@example.com": true}}

	svc := NewNotificationService(store, absences, pusher, mailer, zerolog.Nop())
	svc.now = func() time.Time { return today.Add(19 * time.Hour) }
	return svc, store, absences, pusher, mailer
}

func TestSweepAbsences(t *testing.T) {
	svc, store, absences, pusher, mailer := sweepFixture(true)

	result, err := svc.SweepAbsences(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Absences)
	assert.Equal(t, 1, result.Emailed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.TeacherAlerts)

	assert.Equal(t, []string{"me.minh@example.com"}, mailer.sent)
	assert.Equal(t, map[string]bool{"a1": true}, absences.called)

	require.Len(t, store.saved, 2)
	byTeacher := map[string]*models.Notification{}
	for _, n := range store.saved {
		byTeacher[n.RecipientID] = n
	}
	grouped := byTeacher["104823"]
	require.NotNil(t, grouped)
	assert.Len(t, strings.Split(grouped.Message, "\n"), 2)
	assert.Contains(t, grouped.Message, "Phạm Hoa vắng buổi 10/03/2026 18:00 lớp IELTS")
	assert.Nil(t, grouped.RelatedStudentID)

	single := byTeacher["100001"]
	require.NotNil(t, single)
	assert.Equal(t, "s3", helpers.Deref(single.RelatedStudentID))
	assert.Equal(t, "cs2", helpers.Deref(single.RelatedSessionID))

	assert.Len(t, pusher.messages, 2)
	for _, m := range pusher.messages {
		assert.Equal(t, websocket.TypeNotification, m.Type)
	}
}

func TestSweepAbsences_WithoutMailerOnlyAlertsTeachers(t *testing.T) {
	svc, _, absences, _, mailer := sweepFixture(false)
	var logs bytes.Buffer
	svc.logger = zerolog.New(&logs)

	result, err := svc.SweepAbsences(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Absences)
	assert.Zero(t, result.Emailed)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 2, result.TeacherAlerts)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, absences.called)
	assert.Contains(t, logs.String(), "Mailer not configured, absence notice not sent")
	assert.Contains(t, logs.String(), "me.minh@example.com")
}

func TestScheduledSweep_CoversPreviousDay(t *testing.T) {
	svc, _, absences, _, mailer := sweepFixture(true)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	// Taken after yesterday's run
	absences.notices = append(absences.notices, &models.AbsenceNotice{
		AttendanceID: "a5", StudentID: "s5", StudentName: "Đỗ Lan", SessionID: "cs0",
		SessionDate: today.AddDate(0, 0, -1), StartTime: "18:00", ClassName: "IELTS",
		ParentEmail: helpers.Ptr("lan@example.com"),
	})
	// Handled by earlier runs
	absences.notices = append(absences.notices, &models.AbsenceNotice{
		AttendanceID: "a6", StudentID: "s6", SessionID: "cs-old", SessionDate: today.AddDate(0, 0, -5),
		ParentEmail: helpers.Ptr("old@example.com"),
	})

	svc.scheduledSweep(context.Background())

	assert.Equal(t, today.AddDate(0, 0, -1), absences.since)
	assert.Contains(t, mailer.sent, "lan@example.com")
	assert.NotContains(t, mailer.sent, "old@example.com")
	assert.True(t, absences.called["a5"])
}

func TestNotificationService_CreateAndList(t *testing.T) {
	svc, store, _, pusher, _ := sweepFixture(false)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Notification{RecipientID: "104823", Title: "Lịch mới", Message: "Lớp IELTS có buổi mới"}))
	require.Len(t, store.saved, 1)
	require.Len(t, pusher.messages, 1)
	assert.Equal(t, "104823", pusher.messages[0].RecipientID)
	assert.Equal(t, store.saved[0].ID, pusher.messages[0].NotificationID)

	list, err := svc.List(ctx, "104823", false, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := svc.CountUnread(ctx, "104823")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStartAbsenceSweep(t *testing.T) {
	svc, _, _, _, _ := sweepFixture(false)
	ctx := context.Background()

	assert.Error(t, svc.StartAbsenceSweep(ctx, "not a cron spec"))

	require.NoError(t, svc.StartAbsenceSweep(ctx, "0 18 * * *"))
	assert.Error(t, svc.StartAbsenceSweep(ctx, "0 18 * * *"))
	svc.StopAbsenceSweep()
	// Stopping twice is fine
	svc.StopAbsenceSweep()
}
