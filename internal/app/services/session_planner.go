package services

import (
	"time"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

// filterSessions narrows sessions in memory. keyword matches topic, class,
// teacher and room names ignoring case; dayOfWeek 0 and empty teacherID match
// everything.
func filterSessions(sessions []*models.ClassSession, keyword string, dayOfWeek int, teacherID string, from, to *time.Time) []*models.ClassSession {
	return helpers.Filter(sessions, func(cs *models.ClassSession) bool {
		if dayOfWeek != 0 && models.IsoWeekday(cs.Date) != dayOfWeek {
			return false
		}
		if teacherID != "" && helpers.Deref(cs.TeacherID) != teacherID {
			return false
		}
		if !helpers.InDateRange(cs.Date, from, to) {
			return false
		}
		return helpers.ContainsFold(keyword, helpers.Deref(cs.Topic), cs.ClassName, cs.TeacherName, cs.RoomName)
	})
}

// dayBook indexes sessions by calendar day
type dayBook map[string][]*models.ClassSession

func dayKey(t time.Time) string {
	return t.Format(helpers.DateLayout)
}

func (b dayBook) add(cs *models.ClassSession) {
	k := dayKey(cs.Date)
	b[k] = append(b[k], cs)
}

func (b dayBook) hasClassAt(classID string, day time.Time, start string) bool {
	for _, cs := range b[dayKey(day)] {
		if cs.ClassID == classID && cs.StartTime == start {
			return true
		}
	}
	return false
}

func (b dayBook) roomTaken(roomID string, day time.Time, start, end string) bool {
	for _, cs := range b[dayKey(day)] {
		if cs.Status == models.SessionCancelled || helpers.Deref(cs.ClassroomID) != roomID {
			continue
		}
		if helpers.ClockRangesOverlap(cs.StartTime, cs.EndTime, start, end) {
			return true
		}
	}
	return false
}

// planSessions expands weekly schedules into the sessions to create over
// [from, to]. Days covered by a holiday, slots the class already holds and
// slots whose room is taken are skipped and counted. Closed classes and days
// outside a class's running period produce nothing. Teacher and room fall back
// to the class defaults when a slot leaves them empty.
func planSessions(from, to time.Time, schedules []*models.Schedule, classes map[string]*models.Class,
	holidays []*models.Holiday, existing []*models.ClassSession) ([]*models.ClassSession, dto.GenerateSessionsResponse) {

	book := dayBook{}
	for _, cs := range existing {
		book.add(cs)
	}

	var (
		planned []*models.ClassSession
		result  dto.GenerateSessionsResponse
	)
	helpers.EachDay(from, to, func(day time.Time) {
		holiday := false
		for _, h := range holidays {
			if h.Covers(day) {
				holiday = true
				break
			}
		}

		for _, sc := range schedules {
			class, ok := classes[sc.ClassID]
			if !ok || class.Status == models.StatusClosed || !sc.ActiveOn(day) {
				continue
			}
			if day.Before(helpers.TruncateDay(class.StartDate)) ||
				(class.EndDate != nil && day.After(helpers.TruncateDay(*class.EndDate))) {
				continue
			}
			if holiday {
				result.SkippedHolidays++
				continue
			}
			if book.hasClassAt(sc.ClassID, day, sc.StartTime) {
				result.SkippedExisting++
				continue
			}

			room := sc.ClassroomID
			if room == nil {
				room = class.ClassroomID
			}
			if room != nil && book.roomTaken(*room, day, sc.StartTime, sc.EndTime) {
				result.SkippedConflict++
				continue
			}
			teacher := sc.TeacherID
			if teacher == nil {
				teacher = class.TeacherID
			}

			cs := &models.ClassSession{
				ClassID:     sc.ClassID,
				TeacherID:   teacher,
				ClassroomID: room,
				Date:        day,
				StartTime:   sc.StartTime,
				EndTime:     sc.EndTime,
				Status:      models.SessionScheduled,
				ClassName:   class.Name,
			}
			book.add(cs)
			planned = append(planned, cs)
		}
	})

	result.Created = len(planned)
	return planned, result
}
