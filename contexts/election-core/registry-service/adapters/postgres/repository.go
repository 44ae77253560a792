package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ballotbox/contexts/election-core/registry-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/registry-service/domain/errors"

	"gorm.io/gorm"
)

// Repository owns the positions and candidates tables in PostgreSQL. The
// ballot module reads the same tables as projections.
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

type positionModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Title        string    `gorm:"column:title"`
	Description  string    `gorm:"column:description"`
	DisplayOrder int       `gorm:"column:display_order"`
	Active       bool      `gorm:"column:active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (positionModel) TableName() string {
	return "positions"
}

type candidateModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	PositionID string    `gorm:"column:position_id;index"`
	Name       string    `gorm:"column:name"`
	Manifesto  string    `gorm:"column:manifesto"`
	ImageRef   string    `gorm:"column:image_ref"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func (r *Repository) CreatePosition(ctx context.Context, position entities.Position) error {
	row := positionModel{
		ID:           position.PositionID,
		Title:        position.Title,
		Description:  position.Description,
		DisplayOrder: position.DisplayOrder,
		Active:       position.Active,
		CreatedAt:    position.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetPosition(ctx context.Context, positionID string) (entities.Position, error) {
	var row positionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(positionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Position{}, domainerrors.ErrPositionNotFound
		}
		return entities.Position{}, err
	}
	return positionFromModel(row), nil
}

func (r *Repository) ListPositions(ctx context.Context) ([]entities.Position, error) {
	var rows []positionModel
	err := r.db.WithContext(ctx).
		Order("display_order ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Position, 0, len(rows))
	for _, row := range rows {
		items = append(items, positionFromModel(row))
	}
	return items, nil
}

func (r *Repository) CountPositions(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&positionModel{}).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) UpdatePositionActive(ctx context.Context, positionID string, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&positionModel{}).
		Where("id = ?", strings.TrimSpace(positionID)).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrPositionNotFound
	}
	return nil
}

func (r *Repository) DeletePosition(ctx context.Context, positionID string) error {
	positionID = strings.TrimSpace(positionID)
	// Candidates cascade in the same transaction; ballot rows are covered by
	// the database foreign key.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("position_id = ?", positionID).Delete(&candidateModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", positionID).Delete(&positionModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPositionNotFound
		}
		return nil
	})
}

func (r *Repository) CreateCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModel{
		ID:         candidate.CandidateID,
		PositionID: candidate.PositionID,
		Name:       candidate.Name,
		Manifesto:  candidate.Manifesto,
		ImageRef:   candidate.ImageRef,
		CreatedAt:  candidate.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, err
	}
	return candidateFromModel(row), nil
}

func (r *Repository) ListCandidates(ctx context.Context) ([]entities.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, candidateFromModel(row))
	}
	return items, nil
}

func (r *Repository) DeleteCandidate(ctx context.Context, candidateID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		Delete(&candidateModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCandidateNotFound
	}
	return nil
}

func positionFromModel(row positionModel) entities.Position {
	return entities.Position{
		PositionID:   row.ID,
		Title:        row.Title,
		Description:  row.Description,
		DisplayOrder: row.DisplayOrder,
		Active:       row.Active,
		CreatedAt:    row.CreatedAt,
	}
}

func candidateFromModel(row candidateModel) entities.Candidate {
	return entities.Candidate{
		CandidateID: row.ID,
		PositionID:  row.PositionID,
		Name:        row.Name,
		Manifesto:   row.Manifesto,
		ImageRef:    row.ImageRef,
		CreatedAt:   row.CreatedAt,
	}
}
