package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

var notificationColumns = []string{
	"id", "recipient_id", "title", "message", "is_read",
	"related_student_id", "related_session_id", "created_at",
}

// NotificationRepository handles user notifications
type NotificationRepository struct {
	db *db.Provider
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(provider *db.Provider) *NotificationRepository {
	return &NotificationRepository{db: provider}
}

// GetByRecipient lists a user's notifications, newest first
func (r *NotificationRepository) GetByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit uint64) ([]*models.Notification, error) {
	q := r.db.Builder().Select(notificationColumns...).From("notifications").
		Where(squirrel.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC")
	if unreadOnly {
		q = q.Where(squirrel.Eq{"is_read": false})
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var notifications []*models.Notification
	err := r.db.QueryAll(ctx, q, func(s db.Scanner) error {
		var (
			n                 models.Notification
			student, session sql.NullString
		)
		if err := s.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.IsRead,
			&student, &session, &n.CreatedAt); err != nil {
			return err
		}
		n.RelatedStudentID = helpers.StringPtr(student)
		n.RelatedSessionID = helpers.StringPtr(session)
		notifications = append(notifications, &n)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}
	return notifications, nil
}

// Insert stores a new notification and assigns its ID
func (r *NotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, r.db.Builder().Insert("notifications").
		Columns(notificationColumns...).
		Values(n.ID, n.RecipientID, n.Title, n.Message, n.IsRead,
			helpers.GetNullString(n.RelatedStudentID), helpers.GetNullString(n.RelatedSessionID), n.CreatedAt))
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

// MarkRead marks a notification of recipientID as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id, "recipient_id": recipientID}))
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// CountUnread returns the number of unread notifications of a user
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	n, err := r.db.Count(ctx, r.db.Builder().Select("COUNT(*)").From("notifications").
		Where(squirrel.Eq{"recipient_id": recipientID, "is_read": false}))
	if err != nil {
		return 0, fmt.Errorf("error counting notifications: %w", err)
	}
	return n, nil
}
