package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

const (
	upcomingID  = "7c8b9a0f-1e2d-4c3b-8a4f-6e7d8c9b0a1f"
	pastID      = "8d9c0b1a-2f3e-4d4c-9b5a-7f8e9d0c1b2a"
	cancelledID = "9e0d1c2b-3a4f-4e5d-8c6b-8a9f0e1d2c3b"
	recordedID  = "af1e2d3c-4b5a-4f6e-9d7c-9b0a1f2e3d4c"
)

func expectEnrollLookups(mock sqlmock.Sqlmock, maxStudents int) {
	today := helpers.TruncateDay(time.Now())

	mock.ExpectPrepare(`FROM classes c WHERE c\.id = \?`).
		ExpectQuery().WithArgs(testClassID).
		WillReturnRows(classRows("open", maxStudents))
	mock.ExpectPrepare(`FROM students s WHERE s\.id = \?`).
		ExpectQuery().WithArgs(studentAn).
		WillReturnRows(studentRows(studentValues(studentAn, "Nguyễn An")))

	sessions := sqlmock.NewRows(sessionCols)
	for _, s := range []struct {
		id     string
		date   time.Time
		status string
	}{
		{pastID, today.AddDate(0, 0, -7), "scheduled"},
		{upcomingID, today.AddDate(0, 0, 7), "scheduled"},
		{cancelledID, today.AddDate(0, 0, 9), "cancelled"},
		{recordedID, today.AddDate(0, 0, 14), "scheduled"},
	} {
		sessions.AddRow(s.id, testClassID, "100001", testRoomID, s.date,
			"18:00", "19:30", nil, s.status, nil, "IELTS K12", "Cô Hoa", "P.201")
	}
	mock.ExpectPrepare(`FROM class_sessions s JOIN classes c .* WHERE s\.class_id = \?`).
		ExpectQuery().WithArgs(testClassID).
		WillReturnRows(sessions)

	mock.ExpectPrepare(`FROM attendance a JOIN class_sessions s .* WHERE a\.student_id = \?`).
		ExpectQuery().WithArgs(studentAn).
		WillReturnRows(sqlmock.NewRows(attendanceCols).
			AddRow(attendanceAn, recordedID, studentAn, false, false, false, nil, today))
}

func expectCapacityCheck(mock sqlmock.Sqlmock, enrolled int) {
	mock.ExpectQuery(`SELECT id FROM classes WHERE id = \? FOR UPDATE`).
		WithArgs(testClassID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(testClassID))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM class_students WHERE class_id = \?`).
		WithArgs(testClassID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(enrolled))
}

func TestEnroll_SeedsOnlyUpcomingUnrecordedSessions(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewClassService(provider, repos)

	expectEnrollLookups(mock, 20)
	mock.ExpectBegin()
	expectCapacityCheck(mock, 5)
	mock.ExpectExec(`INSERT INTO class_students \(class_id,student_id,enrolled_at\)`).
		WithArgs(testClassID, studentAn, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO attendance`).
		WithArgs(sqlmock.AnyArg(), upcomingID, studentAn, true, false, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.Enroll(context.Background(), testClassID, &dto.EnrollRequest{StudentID: studentAn})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_FullClassCountedUnderLock(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewClassService(provider, repos)

	expectEnrollLookups(mock, 2)
	mock.ExpectBegin()
	expectCapacityCheck(mock, 2)
	mock.ExpectRollback()

	err := svc.Enroll(context.Background(), testClassID, &dto.EnrollRequest{StudentID: studentAn})
	assert.ErrorIs(t, err, apperrors.ErrClassFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_ClosedClass(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewClassService(provider, repos)

	mock.ExpectPrepare(`FROM classes c WHERE c\.id = \?`).
		ExpectQuery().WithArgs(testClassID).
		WillReturnRows(classRows("closed", 20))

	err := svc.Enroll(context.Background(), testClassID, &dto.EnrollRequest{StudentID: studentAn})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
