package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ballotbox/contexts/identity-access/session-resolver/domain/entities"
	domainerrors "ballotbox/contexts/identity-access/session-resolver/domain/errors"

	"gorm.io/gorm"
)

// Repository serves role assignments and voter profiles from PostgreSQL.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type roleAssignmentModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	IdentityID string    `gorm:"column:identity_id;index"`
	RoleLabel  string    `gorm:"column:role_label"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (roleAssignmentModel) TableName() string {
	return "role_assignments"
}

type profileModel struct {
	IdentityID         string    `gorm:"column:identity_id;primaryKey"`
	Email              string    `gorm:"column:email"`
	Name               string    `gorm:"column:name"`
	Department         string    `gorm:"column:department"`
	RegistrationNumber string    `gorm:"column:registration_number"`
	PhoneNumber        string    `gorm:"column:phone_number"`
	CreatedAt          time.Time `gorm:"column:created_at"`
}

func (profileModel) TableName() string {
	return "profiles"
}

func (r *Repository) ListRoleAssignments(ctx context.Context, identityID string) ([]string, error) {
	var rows []roleAssignmentModel
	err := r.db.WithContext(ctx).
		Where("identity_id = ?", strings.TrimSpace(identityID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		r.logger.Error("role assignment query failed",
			"event", "session_repo_role_query_failed",
			"module", "identity-access/session-resolver",
			"layer", "adapter",
			"identity_id", identityID,
			"error", err.Error(),
		)
		return nil, err
	}
	labels := make([]string, 0, len(rows))
	for _, row := range rows {
		labels = append(labels, row.RoleLabel)
	}
	return labels, nil
}

func (r *Repository) CreateProfile(ctx context.Context, profile entities.Profile) error {
	row := profileModel{
		IdentityID:         strings.TrimSpace(profile.IdentityID),
		Email:              strings.TrimSpace(profile.Email),
		Name:               strings.TrimSpace(profile.Name),
		Department:         strings.TrimSpace(profile.Department),
		RegistrationNumber: strings.TrimSpace(profile.RegistrationNumber),
		PhoneNumber:        strings.TrimSpace(profile.PhoneNumber),
		CreatedAt:          profile.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		r.logger.Error("profile insert failed",
			"event", "session_repo_profile_insert_failed",
			"module", "identity-access/session-resolver",
			"layer", "adapter",
			"identity_id", row.IdentityID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, identityID string) (entities.Profile, error) {
	var row profileModel
	err := r.db.WithContext(ctx).
		Where("identity_id = ?", strings.TrimSpace(identityID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Profile{}, domainerrors.ErrProfileNotFound
		}
		return entities.Profile{}, err
	}
	return entities.Profile{
		IdentityID:         row.IdentityID,
		Email:              row.Email,
		Name:               row.Name,
		Department:         row.Department,
		RegistrationNumber: row.RegistrationNumber,
		PhoneNumber:        row.PhoneNumber,
		CreatedAt:          row.CreatedAt,
	}, nil
}
