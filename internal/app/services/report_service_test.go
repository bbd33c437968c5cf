package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0 đ", formatMoney(0))
	assert.Equal(t, "950 đ", formatMoney(950))
	assert.Equal(t, "1.500 đ", formatMoney(1500))
	assert.Equal(t, "1.234.567 đ", formatMoney(1234567))
	assert.Equal(t, "-250.000 đ", formatMoney(-250000))
}

func TestFormatHoursAndRate(t *testing.T) {
	assert.Equal(t, "1.5", formatHours(90))
	assert.Equal(t, "0.33", formatHours(20))
	assert.Equal(t, "2", formatHours(120))
	assert.Equal(t, "87.5%", formatRate(0.875))
	assert.Equal(t, "0.0%", formatRate(0))
}

func TestTeachingHoursTable(t *testing.T) {
	table, summary := teachingHoursTable([]*models.TeachingHours{
		{TeacherID: "100001", TeacherName: "Nguyễn An", SessionCount: 1, Minutes: 45, HourlyRate: 150000, Salary: 112500},
		{TeacherID: "104823", TeacherName: "Trần Bình", SessionCount: 2, Minutes: 150, HourlyRate: 200000, Salary: 500000},
	})

	require.Len(t, table.Rows, 2)
	assert.Len(t, table.Headers, len(table.Rows[0]))
	assert.Equal(t, []string{"104823", "Trần Bình", "2", "2.5", "200.000 đ", "500.000 đ"}, table.Rows[1])
	assert.Equal(t, "2 giáo viên, 3.25 giờ, tổng lương 612.500 đ", summary)
	assert.Equal(t, "Tổng: "+summary, table.Footer)
}

func TestAttendanceTable(t *testing.T) {
	table, summary := attendanceTable([]*models.AttendanceSummary{
		{ClassName: "IELTS", Sessions: 2, Records: 6, Present: 5, Absent: 1, Rate: 5.0 / 6},
		{ClassName: "TOEIC", Sessions: 1, Records: 2, Present: 1, Absent: 1, Excused: 1, Rate: 0.5},
	})
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "83.3%", table.Rows[0][6])
	assert.Equal(t, "2 lớp, 8 lượt điểm danh, tỉ lệ có mặt 75.0%", summary)
}

func TestSessionsTable(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	table, summary := sessionsTable([]*models.ClassSession{
		{Date: date, StartTime: "18:00", EndTime: "19:30", ClassName: "IELTS", Topic: helpers.Ptr("Speaking"), Status: models.SessionCompleted},
		{Date: date, StartTime: "08:00", EndTime: "09:30", ClassName: "TOEIC", Status: models.SessionCancelled},
	})
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"02/03/2026", "18:00 - 19:30", "IELTS", "", "", "Speaking", "Đã dạy"}, table.Rows[0])
	assert.Equal(t, "2 buổi: 1 đã dạy, 0 đã lên lịch, 1 đã hủy", summary)
}
