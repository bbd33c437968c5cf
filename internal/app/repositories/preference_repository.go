package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/go-redis/redis/v8"

	"github.com/edumanage/educenter/internal/db"
)

// PreferenceStore persists per-user UI preferences as key-value pairs
type PreferenceStore interface {
	// Get returns the stored value and whether the key was set
	Get(ctx context.Context, userID, key string) (string, bool, error)
	GetAll(ctx context.Context, userID string) (map[string]string, error)
	Set(ctx context.Context, userID, key, value string) error
}

// PreferenceRepository keeps preferences in the user_preferences table
type PreferenceRepository struct {
	db *db.Provider
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(provider *db.Provider) *PreferenceRepository {
	return &PreferenceRepository{db: provider}
}

// Get returns one preference
func (r *PreferenceRepository) Get(ctx context.Context, userID, key string) (string, bool, error) {
	var value string
	err := r.db.QueryOne(ctx, r.db.Builder().Select("pref_value").From("user_preferences").
		Where(squirrel.Eq{"user_id": userID, "pref_key": key}),
		func(s db.Scanner) error { return s.Scan(&value) })
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error retrieving preference: %w", err)
	}
	return value, true, nil
}

// GetAll returns every preference of a user
func (r *PreferenceRepository) GetAll(ctx context.Context, userID string) (map[string]string, error) {
	prefs := make(map[string]string)
	err := r.db.QueryAll(ctx, r.db.Builder().Select("pref_key", "pref_value").From("user_preferences").
		Where(squirrel.Eq{"user_id": userID}),
		func(s db.Scanner) error {
			var k, v string
			if err := s.Scan(&k, &v); err != nil {
				return err
			}
			prefs[k] = v
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("error listing preferences: %w", err)
	}
	return prefs, nil
}

// Set replaces one preference atomically
func (r *PreferenceRepository) Set(ctx context.Context, userID, key, value string) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := db.ExecTx(ctx, tx, r.db.Builder().Delete("user_preferences").
			Where(squirrel.Eq{"user_id": userID, "pref_key": key})); err != nil {
			return fmt.Errorf("error clearing preference: %w", err)
		}
		if _, err := db.ExecTx(ctx, tx, r.db.Builder().Insert("user_preferences").
			Columns("user_id", "pref_key", "pref_value").
			Values(userID, key, value)); err != nil {
			return fmt.Errorf("error storing preference: %w", err)
		}
		return nil
	})
}

// RedisPreferenceRepository keeps preferences in one Redis hash per user
type RedisPreferenceRepository struct {
	client *redis.Client
}

// NewRedisPreferenceRepository creates a new RedisPreferenceRepository
func NewRedisPreferenceRepository(client *redis.Client) *RedisPreferenceRepository {
	return &RedisPreferenceRepository{client: client}
}

func preferenceKey(userID string) string {
	return "educenter:prefs:" + userID
}

// Get returns one preference
func (r *RedisPreferenceRepository) Get(ctx context.Context, userID, key string) (string, bool, error) {
	value, err := r.client.HGet(ctx, preferenceKey(userID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading preference from redis: %w", err)
	}
	return value, true, nil
}

// GetAll returns every preference of a user
func (r *RedisPreferenceRepository) GetAll(ctx context.Context, userID string) (map[string]string, error) {
	prefs, err := r.client.HGetAll(ctx, preferenceKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading preferences from redis: %w", err)
	}
	return prefs, nil
}

// Set stores one preference
func (r *RedisPreferenceRepository) Set(ctx context.Context, userID, key, value string) error {
	if err := r.client.HSet(ctx, preferenceKey(userID), key, value).Err(); err != nil {
		return fmt.Errorf("error writing preference to redis: %w", err)
	}
	return nil
}
