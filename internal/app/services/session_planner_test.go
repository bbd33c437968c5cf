package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestPlanSessions(t *testing.T) {
	roomA, roomB := "room-a", "room-b"
	teacher := "104823"

	classes := map[string]*models.Class{
		"ielts":  {ID: "ielts", Name: "IELTS 6.5", Status: models.StatusOpen, TeacherID: &teacher, ClassroomID: &roomA, StartDate: day(2026, 1, 5)},
		"toeic":  {ID: "toeic", Name: "TOEIC 550", Status: models.StatusOpen, ClassroomID: &roomB, StartDate: day(2026, 1, 5), EndDate: helpers.Ptr(day(2026, 3, 5))},
		"closed": {ID: "closed", Name: "Old", Status: models.StatusClosed, StartDate: day(2025, 1, 1)},
	}
	schedules := []*models.Schedule{
		{ClassID: "ielts", DayOfWeek: 1, StartTime: "18:00", EndTime: "19:30", EffectiveFrom: day(2026, 1, 1)},
		{ClassID: "ielts", DayOfWeek: 3, StartTime: "18:00", EndTime: "19:30", EffectiveFrom: day(2026, 1, 1)},
		{ClassID: "toeic", DayOfWeek: 1, StartTime: "08:00", EndTime: "09:30", EffectiveFrom: day(2026, 1, 1)},
		{ClassID: "closed", DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", EffectiveFrom: day(2025, 1, 1)},
	}
	holidays := []*models.Holiday{{Name: "Nghỉ", StartDate: day(2026, 3, 11), EndDate: day(2026, 3, 11)}}
	existing := []*models.ClassSession{
		// Already generated
		{ClassID: "ielts", Date: day(2026, 3, 9), StartTime: "18:00", EndTime: "19:30", Status: models.SessionScheduled},
		// Another class holds room A on Wednesday 4th
		{ClassID: "other", ClassroomID: &roomA, Date: day(2026, 3, 4), StartTime: "18:30", EndTime: "20:00", Status: models.SessionScheduled},
		// Cancelled sessions free their room
		{ClassID: "other", ClassroomID: &roomB, Date: day(2026, 3, 2), StartTime: "08:00", EndTime: "09:00", Status: models.SessionCancelled},
	}

	planned, result := planSessions(day(2026, 3, 2), day(2026, 3, 15), schedules, classes, holidays, existing)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.SkippedHolidays)
	assert.Equal(t, 1, result.SkippedExisting)
	assert.Equal(t, 1, result.SkippedConflict)
	require.Len(t, planned, 2)

	byClass := map[string]*models.ClassSession{}
	for _, cs := range planned {
		byClass[cs.ClassID] = cs
		assert.Equal(t, models.SessionScheduled, cs.Status)
	}

	ielts := byClass["ielts"]
	require.NotNil(t, ielts)
	assert.True(t, ielts.Date.Equal(day(2026, 3, 2)))
	assert.Equal(t, teacher, helpers.Deref(ielts.TeacherID))
	assert.Equal(t, roomA, helpers.Deref(ielts.ClassroomID))
	assert.Equal(t, "IELTS 6.5", ielts.ClassName)

	// TOEIC ends on the 5th, so only the 2nd is planned
	toeic := byClass["toeic"]
	require.NotNil(t, toeic)
	assert.True(t, toeic.Date.Equal(day(2026, 3, 2)))
	assert.Nil(t, toeic.TeacherID)
}

func TestPlanSessions_SameRunDoesNotDoubleBookRoom(t *testing.T) {
	room := "room-a"
	classes := map[string]*models.Class{
		"a": {ID: "a", Status: models.StatusOpen, ClassroomID: &room, StartDate: day(2026, 1, 1)},
		"b": {ID: "b", Status: models.StatusOpen, ClassroomID: &room, StartDate: day(2026, 1, 1)},
	}
	schedules := []*models.Schedule{
		{ClassID: "a", DayOfWeek: 1, StartTime: "18:00", EndTime: "19:30", EffectiveFrom: day(2026, 1, 1)},
		{ClassID: "b", DayOfWeek: 1, StartTime: "19:00", EndTime: "20:00", EffectiveFrom: day(2026, 1, 1)},
	}

	planned, result := planSessions(day(2026, 3, 2), day(2026, 3, 2), schedules, classes, nil, nil)
	require.Len(t, planned, 1)
	assert.Equal(t, "a", planned[0].ClassID)
	assert.Equal(t, 1, result.SkippedConflict)
}

func TestFilterSessions(t *testing.T) {
	teacher := "104823"
	sessions := []*models.ClassSession{
		{ID: "1", Date: day(2026, 3, 2), ClassName: "IELTS 6.5", TeacherID: &teacher, Topic: helpers.Ptr("Writing task 1")},
		{ID: "2", Date: day(2026, 3, 4), ClassName: "TOEIC 550", RoomName: "P.201"},
		{ID: "3", Date: day(2026, 3, 9), ClassName: "IELTS 6.5", TeacherName: "Nguyễn Văn An"},
	}

	ids := func(list []*models.ClassSession) []string {
		out := []string{}
		for _, cs := range list {
			out = append(out, cs.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(filterSessions(sessions, "", 0, "", nil, nil)))
	assert.Equal(t, []string{"1", "3"}, ids(filterSessions(sessions, "ielts", 0, "", nil, nil)))
	assert.Equal(t, []string{"1"}, ids(filterSessions(sessions, "WRITING", 0, "", nil, nil)))
	assert.Equal(t, []string{"2"}, ids(filterSessions(sessions, "p.201", 0, "", nil, nil)))
	assert.Equal(t, []string{"2"}, ids(filterSessions(sessions, "", 3, "", nil, nil)))
	assert.Equal(t, []string{"1"}, ids(filterSessions(sessions, "", 0, teacher, nil, nil)))

	from, to := day(2026, 3, 3), day(2026, 3, 9)
	assert.Equal(t, []string{"2", "3"}, ids(filterSessions(sessions, "", 0, "", &from, &to)))
}
