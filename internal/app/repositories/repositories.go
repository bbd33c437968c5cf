package repositories

import (
	"github.com/go-redis/redis/v8"

	"github.com/edumanage/educenter/internal/db"
)

// Repositories holds one instance of every repository. It is built once at
// startup and passed to the services that need it.
type Repositories struct {
	UserRepository         *UserRepository
	TeacherRepository      *TeacherRepository
	StudentRepository      *StudentRepository
	ParentRepository       *ParentRepository
	ClassRepository        *ClassRepository
	ClassSessionRepository *ClassSessionRepository
	AttendanceRepository   *AttendanceRepository
	ClassroomRepository    *ClassroomRepository
	HolidayRepository      *HolidayRepository
	ScheduleRepository     *ScheduleRepository
	ReportRepository       *ReportRepository
	NotificationRepository *NotificationRepository
	StatisticsRepository   *StatisticsRepository
	PreferenceStore        PreferenceStore
}

// Option customizes NewRepositories
type Option func(*Repositories)

// WithRedisPreferences keeps preferences in Redis instead of the database
func WithRedisPreferences(client *redis.Client) Option {
	return func(r *Repositories) {
		if client != nil {
			r.PreferenceStore = NewRedisPreferenceRepository(client)
		}
	}
}

// NewRepositories initializes all repositories
func NewRepositories(provider *db.Provider, opts ...Option) *Repositories {
	r := &Repositories{
		UserRepository:         NewUserRepository(provider),
		TeacherRepository:      NewTeacherRepository(provider),
		StudentRepository:      NewStudentRepository(provider),
		ParentRepository:       NewParentRepository(provider),
		ClassRepository:        NewClassRepository(provider),
		ClassSessionRepository: NewClassSessionRepository(provider),
		AttendanceRepository:   NewAttendanceRepository(provider),
		ClassroomRepository:    NewClassroomRepository(provider),
		HolidayRepository:      NewHolidayRepository(provider),
		ScheduleRepository:     NewScheduleRepository(provider),
		ReportRepository:       NewReportRepository(provider),
		NotificationRepository: NewNotificationRepository(provider),
		StatisticsRepository:   NewStatisticsRepository(provider),
		PreferenceStore:        NewPreferenceRepository(provider),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
