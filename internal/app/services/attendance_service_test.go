package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
)

func TestAttendanceStatus(t *testing.T) {
	records := []*models.Attendance{
		{StudentID: "a", Present: true},
		{StudentID: "b", Present: false, Called: true},
		{StudentID: "c", Present: false, Excused: true},
	}

	status := attendanceStatus("session-1", records)
	assert.Equal(t, "session-1", status.SessionID)
	assert.Equal(t, 3, status.Total)
	assert.Equal(t, 2, status.Absent)
	assert.Equal(t, 1, status.Unnotified)
	assert.False(t, status.AllAbsencesNotified)

	records[2].Called = true
	assert.True(t, attendanceStatus("session-1", records).AllAbsencesNotified)
}

func TestAttendanceStatus_NobodyAbsent(t *testing.T) {
	status := attendanceStatus("session-1", []*models.Attendance{{Present: true}, {Present: true}})
	assert.Zero(t, status.Absent)
	assert.True(t, status.AllAbsencesNotified)

	assert.True(t, attendanceStatus("session-1", nil).AllAbsencesNotified)
}

func expectSession(mock sqlmock.Sqlmock, date time.Time, status string) {
	mock.ExpectPrepare(`FROM class_sessions s JOIN classes c .* WHERE s\.id = \?`).
		ExpectQuery().WithArgs(testSessionID).
		WillReturnRows(sessionRows(testSessionID, date, status))
}

func expectEnrolled(mock sqlmock.Sqlmock, students ...[]interface{}) {
	mock.ExpectPrepare(`FROM students s JOIN class_students cs .* WHERE cs\.class_id = \? ORDER BY s\.full_name`).
		ExpectQuery().WithArgs(testClassID).
		WillReturnRows(studentRows(students...))
}

func expectSessionAttendance(mock sqlmock.Sqlmock, records ...[]interface{}) {
	mock.ExpectPrepare(`FROM attendance a JOIN students s .* WHERE a\.session_id = \?`).
		ExpectQuery().WithArgs(testSessionID).
		WillReturnRows(sessionAttendanceRows(records...))
}

func TestTake_UpdatesExistingAndInsertsMissingInOneTransaction(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewAttendanceService(provider, repos)
	note := "ốm"

	expectSession(mock, day(2026, 10, 1), "scheduled")
	expectEnrolled(mock, studentValues(studentAn, "Nguyễn An"), studentValues(studentBinh, "Trần Bình"))
	expectSessionAttendance(mock, attendanceRecord(attendanceAn, studentAn, "Nguyễn An", true))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE attendance SET present = \?, excused = \?, called = \?, note = \?, recorded_at = \? WHERE id = \?`).
		WithArgs(false, true, false, note, sqlmock.AnyArg(), attendanceAn).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO attendance \(id,session_id,student_id,present,excused,called,note,recorded_at\)`).
		WithArgs(sqlmock.AnyArg(), testSessionID, studentBinh, true, false, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectSession(mock, day(2026, 10, 1), "scheduled")
	expectSessionAttendance(mock,
		attendanceRecord(attendanceAn, studentAn, "Nguyễn An", false),
		attendanceRecord("6b7a8f9e-0d1c-4b2a-9f3e-5d6c7b8a9f0e", studentBinh, "Trần Bình", true))

	records, err := svc.Take(context.Background(), testSessionID, &dto.TakeAttendanceRequest{
		Entries: []dto.AttendanceEntry{
			{StudentID: studentAn, Present: false, Excused: true, Note: &note},
			{StudentID: studentBinh, Present: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, testSessionID, records[0].Session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTake_FailedWriteRollsBackEveryMark(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewAttendanceService(provider, repos)

	expectSession(mock, day(2026, 10, 1), "scheduled")
	expectEnrolled(mock, studentValues(studentAn, "Nguyễn An"), studentValues(studentBinh, "Trần Bình"))
	expectSessionAttendance(mock)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO attendance`).
		WithArgs(sqlmock.AnyArg(), testSessionID, studentAn, true, false, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO attendance`).
		WithArgs(sqlmock.AnyArg(), testSessionID, studentBinh, false, false, false, nil, sqlmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Take(context.Background(), testSessionID, &dto.TakeAttendanceRequest{
		Entries: []dto.AttendanceEntry{
			{StudentID: studentAn, Present: true},
			{StudentID: studentBinh, Present: false},
		},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTake_StudentOutsideClassWritesNothing(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewAttendanceService(provider, repos)

	expectSession(mock, day(2026, 10, 1), "scheduled")
	expectEnrolled(mock, studentValues(studentAn, "Nguyễn An"))
	expectSessionAttendance(mock)

	_, err := svc.Take(context.Background(), testSessionID, &dto.TakeAttendanceRequest{
		Entries: []dto.AttendanceEntry{
			{StudentID: studentAn, Present: true},
			{StudentID: studentBinh, Present: false},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTake_CancelledSession(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewAttendanceService(provider, repos)

	expectSession(mock, day(2026, 10, 1), "cancelled")

	_, err := svc.Take(context.Background(), testSessionID, &dto.TakeAttendanceRequest{
		Entries: []dto.AttendanceEntry{{StudentID: studentAn, Present: true}},
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTake_DuplicateStudentRejectedBeforeAnyQuery(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewAttendanceService(provider, repos)

	_, err := svc.Take(context.Background(), testSessionID, &dto.TakeAttendanceRequest{
		Entries: []dto.AttendanceEntry{
			{StudentID: studentAn, Present: true},
			{StudentID: studentAn, Present: false},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_OnlyStudentsWithoutRecord(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewAttendanceService(provider, repos)

	expectSession(mock, day(2026, 10, 1), "scheduled")
	expectEnrolled(mock, studentValues(studentAn, "Nguyễn An"), studentValues(studentBinh, "Trần Bình"))
	expectSessionAttendance(mock, attendanceRecord(attendanceAn, studentAn, "Nguyễn An", false))
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO attendance`).
		WithArgs(sqlmock.AnyArg(), testSessionID, studentBinh, true, false, false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := svc.Seed(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
