package repository

import (
	"context"
	"errors"

	"optinet-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingRepository handles database operations for the singleton settings row
type SettingRepository struct {
	db *pgxpool.Pool
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetOrCreate fetches the settings row, creating it with defaults when the
// table is empty.
func (r *SettingRepository) GetOrCreate(ctx context.Context) (*models.Setting, error) {
	setting := &models.Setting{}
	query := `
		SELECT id, site_title, admin_email, notifications_enabled, language, updated_at
		FROM settings LIMIT 1`

	err := r.db.QueryRow(ctx, query).Scan(
		&setting.ID,
		&setting.SiteTitle,
		&setting.AdminEmail,
		&setting.NotificationsEnabled,
		&setting.Language,
		&setting.UpdatedAt,
	)
	if err == nil {
		return setting, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	setting = models.DefaultSetting()
	insert := `
		INSERT INTO settings (site_title, admin_email, notifications_enabled, language)
		VALUES ($1, $2, $3, $4)
		RETURNING id, updated_at`

	err = r.db.QueryRow(
		ctx, insert,
		setting.SiteTitle,
		setting.AdminEmail,
		setting.NotificationsEnabled,
		setting.Language,
	).Scan(&setting.ID, &setting.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return setting, nil
}

// Update replaces the settings values
func (r *SettingRepository) Update(ctx context.Context, setting *models.Setting) error {
	query := `
		UPDATE settings SET
			site_title = $2,
			admin_email = $3,
			notifications_enabled = $4,
			language = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		setting.ID,
		setting.SiteTitle,
		setting.AdminEmail,
		setting.NotificationsEnabled,
		setting.Language,
	).Scan(&setting.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
