package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UlisseMini/communitybot/database"
	"github.com/UlisseMini/communitybot/models"
)

// ReminderRepository implements the service.ReminderRepository interface
type ReminderRepository struct {
	q queryable
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{q: db.Pool}
}

// Create persists a pending reminder and fills in its ID and creation time
func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	query := `
		INSERT INTO reminders (guild_id, user_id, channel_id, message_link, message_preview, remind_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, completed, created_at
	`

	err := r.q.QueryRow(ctx, query,
		reminder.GuildID,
		reminder.UserID,
		reminder.ChannelID,
		reminder.MessageLink,
		reminder.MessagePreview,
		reminder.RemindAt,
	).Scan(&reminder.ID, &reminder.Completed, &reminder.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create reminder for user %d: %w", reminder.UserID, err)
	}

	return nil
}

// GetDue returns all pending reminders whose fire time has passed.
// Completed reminders are never selected, which is what makes marking
// completed the redelivery guard.
func (r *ReminderRepository) GetDue(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	query := `
		SELECT id, guild_id, user_id, channel_id, message_link, message_preview, remind_at, completed, created_at
		FROM reminders
		WHERE NOT completed AND remind_at <= $1
		ORDER BY remind_at
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*models.Reminder
	for rows.Next() {
		var rem models.Reminder
		err := rows.Scan(
			&rem.ID,
			&rem.GuildID,
			&rem.UserID,
			&rem.ChannelID,
			&rem.MessageLink,
			&rem.MessagePreview,
			&rem.RemindAt,
			&rem.Completed,
			&rem.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, &rem)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

// MarkCompleted transitions a reminder to completed. Rows are retained for
// history; they are never deleted.
func (r *ReminderRepository) MarkCompleted(ctx context.Context, id int64) error {
	query := `
		UPDATE reminders
		SET completed = TRUE
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder %d completed: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reminder %d not found", id)
	}

	return nil
}
