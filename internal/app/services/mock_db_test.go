package services

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/db"
)

const (
	testClassID   = "0b9a4d5e-6f1c-4a55-8f21-3c1d2e4f5a60"
	testSessionID = "1c2b3a4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	testRoomID    = "2d3c4b5a-6f7e-4d8c-9b0a-1f2e3d4c5b6a"
	studentAn     = "3e4d5c6b-7a8f-4e9d-8c0b-2a3f4e5d6c7b"
	studentBinh   = "4f5e6d7c-8b9a-4f0e-9d1c-3b4a5f6e7d8c"
	attendanceAn  = "5a6f7e8d-9c0b-4a1f-8e2d-4c5b6a7f8e9d"
)

func newMockProvider(t *testing.T) (*db.Provider, *repositories.Repositories, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	provider := db.NewProviderFromDB(sqlDB, db.DialectMySQL)
	return provider, repositories.NewRepositories(provider), mock
}

var (
	sessionCols = []string{"id", "class_id", "teacher_id", "classroom_id", "session_date",
		"start_time", "end_time", "topic", "status", "notes", "class_name", "teacher_name", "room_name"}
	classCols = []string{"id", "name", "subject", "teacher_id", "classroom_id", "start_date",
		"end_date", "max_students", "status", "created_at", "student_count"}
	studentCols = []string{"id", "full_name", "date_of_birth", "gender", "phone", "email",
		"address", "parent_id", "status", "enrolled_at", "notes"}
	attendanceCols = []string{"a_id", "session_id", "student_id", "present", "excused",
		"called", "note", "recorded_at"}
)

func sessionRows(id string, date time.Time, status string) *sqlmock.Rows {
	return sqlmock.NewRows(sessionCols).AddRow(id, testClassID, "100001", testRoomID, date,
		"18:00", "19:30", nil, status, nil, "IELTS K12", "Cô Hoa", "P.201")
}

func classRows(status string, maxStudents int) *sqlmock.Rows {
	return sqlmock.NewRows(classCols).AddRow(testClassID, "IELTS K12", "English", "100001",
		testRoomID, day(2026, 9, 1), nil, maxStudents, status, day(2026, 8, 20), 0)
}

func studentValues(id, name string) []interface{} {
	return []interface{}{id, name, nil, "female", nil, nil, nil, nil, "active", day(2026, 9, 1), nil}
}

func studentRows(students ...[]interface{}) *sqlmock.Rows {
	rows := sqlmock.NewRows(studentCols)
	for _, st := range students {
		rows.AddRow(toDriverValues(st)...)
	}
	return rows
}

// sessionAttendanceRows builds rows of the student and attendance join used by
// the per-session listing.
func sessionAttendanceRows(records ...[]interface{}) *sqlmock.Rows {
	cols := append(append([]string{}, studentCols...), attendanceCols...)
	rows := sqlmock.NewRows(cols)
	for _, r := range records {
		rows.AddRow(toDriverValues(r)...)
	}
	return rows
}

func attendanceRecord(id, studentID, name string, present bool) []interface{} {
	return append(studentValues(studentID, name),
		id, testSessionID, studentID, present, false, false, nil, day(2026, 10, 1))
}

func toDriverValues(values []interface{}) []driver.Value {
	out := make([]driver.Value, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
