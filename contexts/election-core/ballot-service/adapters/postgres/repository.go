package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ballotbox/contexts/election-core/ballot-service/domain/entities"
	domainerrors "ballotbox/contexts/election-core/ballot-service/domain/errors"
	"ballotbox/contexts/election-core/ballot-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository serves ballots, publication records and the outbox from
// PostgreSQL. Positions and candidates are read here as projections of the
// registry module's tables.
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
	ID           string `gorm:"column:id;primaryKey"`
	Title        string `gorm:"column:title"`
	Description  string `gorm:"column:description"`
	DisplayOrder int    `gorm:"column:display_order"`
	Active       bool   `gorm:"column:active"`
}

func (positionModel) TableName() string {
	return "positions"
}

type candidateModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	PositionID string `gorm:"column:position_id;index"`
	Name       string `gorm:"column:name"`
	Manifesto  string `gorm:"column:manifesto"`
	ImageRef   string `gorm:"column:image_ref"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

type ballotModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	VoterID     string    `gorm:"column:voter_id;uniqueIndex:idx_ballots_voter_position"`
	PositionID  string    `gorm:"column:position_id;uniqueIndex:idx_ballots_voter_position"`
	CandidateID string    `gorm:"column:candidate_id;index"`
	CastAt      time.Time `gorm:"column:cast_at"`
}

func (ballotModel) TableName() string {
	return "ballots"
}

type publicationModel struct {
	PositionID  string    `gorm:"column:position_id;primaryKey"`
	PublishedBy string    `gorm:"column:published_by"`
	PublishedAt time.Time `gorm:"column:published_at"`
}

func (publicationModel) TableName() string {
	return "result_publications"
}

type outboxModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload"`
	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	PublishedAt *time.Time `gorm:"column:published_at;index"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repository) ListOpenPositions(ctx context.Context) ([]entities.Position, error) {
	var rows []positionModel
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
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

func (r *Repository) ListCandidatesByPosition(ctx context.Context, positionID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Where("position_id = ?", strings.TrimSpace(positionID)).
		Order("id ASC").
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

func (r *Repository) CreateBallot(ctx context.Context, ballot entities.Ballot) error {
	row := ballotModel{
		ID:          ballot.BallotID,
		VoterID:     ballot.VoterID,
		PositionID:  ballot.PositionID,
		CandidateID: ballot.CandidateID,
		CastAt:      ballot.CastAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateVote
		}
		r.logger.Error("ballot insert failed",
			"event", "ballot_repo_insert_failed",
			"module", "election-core/ballot-service",
			"layer", "adapter",
			"position_id", ballot.PositionID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (r *Repository) HasBallot(ctx context.Context, voterID string, positionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ballotModel{}).
		Where("voter_id = ? AND position_id = ?", strings.TrimSpace(voterID), strings.TrimSpace(positionID)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListBallotsByPosition(ctx context.Context, positionID string) ([]entities.Ballot, error) {
	var rows []ballotModel
	err := r.db.WithContext(ctx).
		Where("position_id = ?", strings.TrimSpace(positionID)).
		Order("cast_at ASC, id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.Ballot{
			BallotID:    row.ID,
			VoterID:     row.VoterID,
			PositionID:  row.PositionID,
			CandidateID: row.CandidateID,
			CastAt:      row.CastAt,
		})
	}
	return items, nil
}

func (r *Repository) CountBallotsByVoter(ctx context.Context, voterID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ballotModel{}).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) CreatePublication(ctx context.Context, record entities.PublicationRecord) error {
	row := publicationModel{
		PositionID:  record.PositionID,
		PublishedBy: record.PublishedBy,
		PublishedAt: record.PublishedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyPublished
		}
		r.logger.Error("publication insert failed",
			"event", "ballot_repo_publication_insert_failed",
			"module", "election-core/ballot-service",
			"layer", "adapter",
			"position_id", record.PositionID,
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (r *Repository) GetPublication(ctx context.Context, positionID string) (entities.PublicationRecord, bool, error) {
	var row publicationModel
	err := r.db.WithContext(ctx).
		Where("position_id = ?", strings.TrimSpace(positionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PublicationRecord{}, false, nil
		}
		return entities.PublicationRecord{}, false, err
	}
	return entities.PublicationRecord{
		PositionID:  row.PositionID,
		PublishedBy: row.PublishedBy,
		PublishedAt: row.PublishedAt,
	}, true, nil
}

func (r *Repository) ListPublications(ctx context.Context) ([]entities.PublicationRecord, error) {
	var rows []publicationModel
	err := r.db.WithContext(ctx).
		Order("published_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.PublicationRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.PublicationRecord{
			PositionID:  row.PositionID,
			PublishedBy: row.PublishedBy,
			PublishedAt: row.PublishedAt,
		})
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		ID:        event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		CreatedAt: event.OccurredAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.ID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", outboxID).
		Update("published_at", publishedAt).
		Error
}

func positionFromModel(row positionModel) entities.Position {
	return entities.Position{
		PositionID:   row.ID,
		Title:        row.Title,
		Description:  row.Description,
		DisplayOrder: row.DisplayOrder,
		Active:       row.Active,
	}
}

func candidateFromModel(row candidateModel) entities.Candidate {
	return entities.Candidate{
		CandidateID: row.ID,
		PositionID:  row.PositionID,
		Name:        row.Name,
		Manifesto:   row.Manifesto,
		ImageRef:    row.ImageRef,
	}
}
