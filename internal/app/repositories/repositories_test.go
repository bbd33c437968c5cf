package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
)

func newMockRepos(t *testing.T) (*Repositories, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewRepositories(db.NewProviderFromDB(sqlDB, db.DialectMySQL)), mock
}

func duplicate(key string) error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'users." + key + "'"}
}

func TestNewRepositories_AllFieldsSet(t *testing.T) {
	repos, _ := newMockRepos(t)
	assert.NotNil(t, repos.UserRepository)
	assert.NotNil(t, repos.TeacherRepository)
	assert.NotNil(t, repos.StudentRepository)
	assert.NotNil(t, repos.ParentRepository)
	assert.NotNil(t, repos.ClassRepository)
	assert.NotNil(t, repos.ClassSessionRepository)
	assert.NotNil(t, repos.AttendanceRepository)
	assert.NotNil(t, repos.ClassroomRepository)
	assert.NotNil(t, repos.HolidayRepository)
	assert.NotNil(t, repos.ScheduleRepository)
	assert.NotNil(t, repos.ReportRepository)
	assert.NotNil(t, repos.NotificationRepository)
	assert.NotNil(t, repos.StatisticsRepository)
	assert.IsType(t, &PreferenceRepository{}, repos.PreferenceStore)
}

func TestUserRepository_ExistenceChecks(t *testing.T) {
	repos, mock := newMockRepos(t)
	ctx := context.Background()

	mock.ExpectPrepare(`SELECT 1 FROM users WHERE username = \? LIMIT 1`).
		ExpectQuery().WithArgs("nguyenvan").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectPrepare(`SELECT 1 FROM users WHERE email = \? LIMIT 1`).
		ExpectQuery().WithArgs("khong@co.vn").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectPrepare(`SELECT 1 FROM users WHERE role = \? LIMIT 1`).
		ExpectQuery().WithArgs("0").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	found, err := repos.UserRepository.IsUsernameExists(ctx, "nguyenvan")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repos.UserRepository.IsEmailExists(ctx, "khong@co.vn")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repos.UserRepository.IsAdminExists(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_InsertMapsConstraints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"single admin", duplicate("uq_users_single_admin"), apperrors.ErrAdminAlreadyExists},
		{"username", duplicate("uq_users_username"), apperrors.ErrUsernameExists},
		{"email", duplicate("uq_users_email"), apperrors.ErrEmailAlreadyExists},
		{"primary key", duplicate("PRIMARY"), apperrors.ErrUserIDTaken},
		{"postgres username", &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_username"}, apperrors.ErrUsernameExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos, mock := newMockRepos(t)
			mock.ExpectPrepare(`INSERT INTO users`).ExpectExec().WillReturnError(tt.err)

			err := repos.UserRepository.Insert(context.Background(), &models.User{
				ID: "000001", Username: "admin", Role: models.RoleAdmin,
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	repos, mock := newMockRepos(t)
	mock.ExpectPrepare(`SELECT (.+) FROM users WHERE id = \?`).
		ExpectQuery().WithArgs("199999").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repos.UserRepository.GetByID(context.Background(), "199999")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_GetByUsernameMapsRow(t *testing.T) {
	repos, mock := newMockRepos(t)
	dob := time.Date(1995, 4, 12, 0, 0, 0, 0, time.Local)
	created := time.Now()

	mock.ExpectPrepare(`SELECT (.+) FROM users WHERE username = \?`).
		ExpectQuery().WithArgs("nguyenvan").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			"104823", "nguyenvan", "$2a$hash", "1", "Nguyễn Văn An", "an@educenter.vn",
			"0912345678", dob, "male", created, nil))

	u, err := repos.UserRepository.GetByUsername(context.Background(), "nguyenvan")
	require.NoError(t, err)
	assert.Equal(t, "104823", u.ID)
	assert.Equal(t, models.RoleTeacher, u.Role)
	assert.Equal(t, dob, u.DateOfBirth)
	assert.Nil(t, u.LastLoginAt)
}

func TestUserRepository_UpdatePasswordMissing(t *testing.T) {
	repos, mock := newMockRepos(t)
	mock.ExpectPrepare(`UPDATE users SET password_hash = \? WHERE id = \?`).
		ExpectExec().WithArgs("hash", "100000").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repos.UserRepository.UpdatePassword(context.Background(), "100000", "hash")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestAttendanceRepository_DuplicateRecord(t *testing.T) {
	repos, mock := newMockRepos(t)
	mock.ExpectPrepare(`INSERT INTO attendance`).ExpectExec().
		WillReturnError(&mysql.MySQLError{Number: 1062,
			Message: "Duplicate entry 's1-st1' for key 'attendance.uq_attendance_session_student'"})

	a := &models.Attendance{SessionID: "s1", StudentID: "st1"}
	err := repos.AttendanceRepository.Insert(context.Background(), a)
	assert.ErrorIs(t, err, apperrors.ErrAttendanceExists)
	assert.NotEmpty(t, a.ID)
}

func TestAttendanceRepository_GetBySessionIDJoinsStudent(t *testing.T) {
	repos, mock := newMockRepos(t)
	enrolled := time.Date(2024, 1, 8, 0, 0, 0, 0, time.Local)
	recorded := time.Now()

	cols := append(append([]string{}, studentColumns...), attendanceColumns...)
	mock.ExpectPrepare(`SELECT (.+) FROM attendance a JOIN students s ON s.id = a.student_id WHERE a.session_id = \?`).
		ExpectQuery().WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"st1", "Trần Thị Bình", nil, "female", "0987654321", nil, nil, "p1", "active", enrolled, nil,
			"a1", "s1", "st1", false, false, true, "Ốm", recorded))

	records, err := repos.AttendanceRepository.GetBySessionID(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	a := records[0]
	assert.Equal(t, "a1", a.ID)
	assert.False(t, a.Present)
	assert.True(t, a.Called)
	require.NotNil(t, a.Note)
	assert.Equal(t, "Ốm", *a.Note)
	require.NotNil(t, a.Student)
	assert.Equal(t, "Trần Thị Bình", a.Student.FullName)
	require.NotNil(t, a.Student.ParentID)
	assert.Equal(t, "p1", *a.Student.ParentID)
}

func TestClassroomRepository_DuplicateName(t *testing.T) {
	repos, mock := newMockRepos(t)
	mock.ExpectPrepare(`INSERT INTO classrooms`).ExpectExec().
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'P.101' for key 'classrooms.uq_classrooms_name'"})

	err := repos.ClassroomRepository.Insert(context.Background(), &models.Classroom{Name: "P.101", Capacity: 20})
	assert.ErrorIs(t, err, apperrors.ErrClassroomExists)
}

func TestClassSessionRepository_HasRoomConflict(t *testing.T) {
	repos, mock := newMockRepos(t)
	date := time.Date(2024, 5, 6, 15, 0, 0, 0, time.Local)

	mock.ExpectPrepare(`SELECT 1 FROM class_sessions WHERE classroom_id = \? AND session_date = \? AND status <> \? AND start_time < \? AND end_time > \? AND id <> \? LIMIT 1`).
		ExpectQuery().
		WithArgs("r1", time.Date(2024, 5, 6, 0, 0, 0, 0, time.Local), "cancelled", "19:30", "18:00", "self").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	conflict, err := repos.ClassSessionRepository.HasRoomConflict(context.Background(), "r1", date, "18:00", "19:30", "self")
	require.NoError(t, err)
	assert.True(t, conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepository_EnrollTwice(t *testing.T) {
	repos, mock := newMockRepos(t)
	mock.ExpectPrepare(`INSERT INTO class_students`).ExpectExec().
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'c1-st1' for key 'class_students.PRIMARY'"})

	err := repos.ClassRepository.EnrollStudent(context.Background(), "c1", "st1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestHolidayRepository_IsHoliday(t *testing.T) {
	repos, mock := newMockRepos(t)
	mock.ExpectPrepare(`SELECT 1 FROM holidays WHERE start_date <= \? AND end_date >= \? LIMIT 1`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	found, err := repos.HolidayRepository.IsHoliday(context.Background(), time.Now())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPreferenceRepository_SetReplacesInTransaction(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_preferences WHERE pref_key = \? AND user_id = \?`).
		WithArgs("theme", "104823").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_preferences \(user_id,pref_key,pref_value\) VALUES \(\?,\?,\?\)`).
		WithArgs("104823", "theme", "dark").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repos.PreferenceStore.Set(context.Background(), "104823", "theme", "dark"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceRepository_SetRollsBackOnFailure(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_preferences`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_preferences`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repos.PreferenceStore.Set(context.Background(), "104823", "theme", "dark")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPreferenceRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repos, _ := newMockRepos(t)
	WithRedisPreferences(client)(repos)
	store := repos.PreferenceStore
	require.IsType(t, &RedisPreferenceRepository{}, store)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "104823", "theme")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "104823", "theme", "dark"))
	require.NoError(t, store.Set(ctx, "104823", "language", "vi"))

	value, found, err := store.Get(ctx, "104823", "theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "dark", value)

	all, err := store.GetAll(ctx, "104823")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark", "language": "vi"}, all)

	other, err := store.GetAll(ctx, "100001")
	require.NoError(t, err)
	assert.Empty(t, other)
}
