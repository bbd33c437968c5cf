package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
)

func newSessionRequest() *dto.SessionRequest {
	return &dto.SessionRequest{ClassID: testClassID, Date: "2026-10-20", StartTime: "18:00", EndTime: "19:30"}
}

func expectSessionClass(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare(`FROM classes c WHERE c\.id = \?`).
		ExpectQuery().WithArgs(testClassID).
		WillReturnRows(classRows("open", 20))
}

func expectHoliday(mock sqlmock.Sqlmock, holiday bool) {
	rows := sqlmock.NewRows([]string{"1"})
	if holiday {
		rows.AddRow(1)
	}
	mock.ExpectPrepare(`SELECT 1 FROM holidays WHERE start_date <= \? AND end_date >= \? LIMIT 1`).
		ExpectQuery().WithArgs(day(2026, 10, 20), day(2026, 10, 20)).
		WillReturnRows(rows)
}

func expectRoomTaken(mock sqlmock.Sqlmock, taken bool) {
	rows := sqlmock.NewRows([]string{"1"})
	if taken {
		rows.AddRow(1)
	}
	mock.ExpectPrepare(`SELECT 1 FROM class_sessions WHERE .*classroom_id = \?.* LIMIT 1`).
		ExpectQuery().WithArgs(testRoomID, day(2026, 10, 20), "cancelled", "19:30", "18:00").
		WillReturnRows(rows)
}

func expectTeacherDay(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectPrepare(`FROM class_sessions s JOIN classes c .* WHERE s\.teacher_id = \? AND s\.session_date >= \? AND s\.session_date <= \?`).
		ExpectQuery().WithArgs("100001", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)
}

func TestCreateSession_OnHoliday(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewSessionService(provider, repos)

	expectSessionClass(mock)
	expectHoliday(mock, true)

	_, err := svc.Create(context.Background(), newSessionRequest())
	assert.ErrorIs(t, err, apperrors.ErrHolidayDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSession_RoomAlreadyBooked(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewSessionService(provider, repos)

	expectSessionClass(mock)
	expectHoliday(mock, false)
	expectRoomTaken(mock, true)

	_, err := svc.Create(context.Background(), newSessionRequest())
	assert.ErrorIs(t, err, apperrors.ErrRoomConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSession_TeacherBusy(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewSessionService(provider, repos)

	expectSessionClass(mock)
	expectHoliday(mock, false)
	expectRoomTaken(mock, false)
	expectTeacherDay(mock, sqlmock.NewRows(sessionCols).
		AddRow("other-session", "other-class", "100001", nil, day(2026, 10, 20),
			"19:00", "20:30", nil, "scheduled", nil, "TOEIC K3", "Cô Hoa", ""))

	_, err := svc.Create(context.Background(), newSessionRequest())
	assert.ErrorIs(t, err, apperrors.ErrTeacherBusy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSession_IgnoresCancelledAndAdjacentSessions(t *testing.T) {
	provider, repos, mock := newMockProvider(t)
	svc := NewSessionService(provider, repos)

	expectSessionClass(mock)
	expectHoliday(mock, false)
	expectRoomTaken(mock, false)
	expectTeacherDay(mock, sqlmock.NewRows(sessionCols).
		AddRow("cancelled-session", "other-class", "100001", nil, day(2026, 10, 20),
			"18:30", "20:00", nil, "cancelled", nil, "TOEIC K3", "Cô Hoa", "").
		AddRow("adjacent-session", "other-class", "100001", nil, day(2026, 10, 20),
			"19:30", "21:00", nil, "scheduled", nil, "TOEIC K4", "Cô Hoa", ""))
	mock.ExpectPrepare(`INSERT INTO class_sessions`).ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 1))

	cs, err := svc.Create(context.Background(), newSessionRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, cs.ID)
	assert.Equal(t, "IELTS K12", cs.ClassName)
	require.NotNil(t, cs.ClassroomID)
	assert.Equal(t, testRoomID, *cs.ClassroomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
