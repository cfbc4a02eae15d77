package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"saylov/contexts/survey-core/lifecycle-service/domain/entities"
	domainerrors "saylov/contexts/survey-core/lifecycle-service/domain/errors"
	"saylov/contexts/survey-core/lifecycle-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateSurvey(
	ctx context.Context,
	survey entities.Survey,
	candidates []entities.Candidate,
) error {
	// One transaction so readers never observe a survey without candidates.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := surveyModelFromEntity(survey)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for _, candidate := range candidates {
			candidateRow := candidateModelFromEntity(candidate)
			if err := tx.Create(&candidateRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("lifecycle_repo_create_survey_failed", err,
			"survey_id", strings.TrimSpace(survey.SurveyID),
		)
	}
	return nil
}

func (r *Repository) GetSurvey(ctx context.Context, surveyID string) (entities.Survey, error) {
	var row surveyModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(surveyID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Survey{}, domainerrors.ErrSurveyNotFound
		}
		return entities.Survey{}, r.logError("lifecycle_repo_get_survey_failed", err,
			"survey_id", strings.TrimSpace(surveyID),
		)
	}
	return row.toEntity(), nil
}

// TransitionSurvey guards the write on the current status so two writers
// racing the same survey cannot overwrite each other's transition. Zero
// rows affected means the guard failed (or the row is gone); the caller
// re-reads to tell the two apart.
func (r *Repository) TransitionSurvey(ctx context.Context, survey entities.Survey, from entities.SurveyStatus) (bool, error) {
	row := surveyModelFromEntity(survey)
	update := r.db.WithContext(ctx).
		Model(&surveyModel{}).
		Where("id = ? AND status = ?", row.ID, string(from)).
		Updates(map[string]any{
			"status":     row.Status,
			"closed_at":  row.ClosedAt,
			"updated_at": row.UpdatedAt,
		})
	if update.Error != nil {
		return false, r.logError("lifecycle_repo_transition_survey_failed", update.Error,
			"survey_id", row.ID,
		)
	}
	return update.RowsAffected > 0, nil
}

func (r *Repository) ListSurveys(ctx context.Context, includeRetired bool) ([]entities.Survey, error) {
	tx := r.db.WithContext(ctx).Model(&surveyModel{})
	if !includeRetired {
		tx = tx.Where("status <> ?", string(entities.SurveyStatusRetired))
	}
	var rows []surveyModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("lifecycle_repo_list_surveys_failed", err)
	}
	items := make([]entities.Survey, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AddCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("lifecycle_repo_add_candidate_failed", err,
			"survey_id", row.SurveyID,
			"candidate_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) ListCandidates(ctx context.Context, surveyID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("survey_id = ?", strings.TrimSpace(surveyID)).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("lifecycle_repo_list_candidates_failed", err,
			"survey_id", strings.TrimSpace(surveyID),
		)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateChannel(ctx context.Context, channel entities.Channel) error {
	row := channelModelFromEntity(channel)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrChannelAlreadyRegistered
		}
		return r.logError("lifecycle_repo_create_channel_failed", err,
			"channel_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetChannel(ctx context.Context, channelID string) (entities.Channel, error) {
	var row channelModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(channelID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Channel{}, domainerrors.ErrChannelNotFound
		}
		return entities.Channel{}, r.logError("lifecycle_repo_get_channel_failed", err,
			"channel_id", strings.TrimSpace(channelID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetChannelByPlatformRef(ctx context.Context, platformRef string) (entities.Channel, bool, error) {
	var row channelModel
	err := r.db.WithContext(ctx).
		Where("platform_ref = ?", strings.TrimSpace(platformRef)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Channel{}, false, nil
		}
		return entities.Channel{}, false, r.logError("lifecycle_repo_get_channel_by_ref_failed", err,
			"platform_ref", strings.TrimSpace(platformRef),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) DeleteChannel(ctx context.Context, channelID string) error {
	channelID = strings.TrimSpace(channelID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", channelID).Delete(&surveyChannelModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", channelID).Delete(&channelModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrChannelNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrChannelNotFound) {
			return err
		}
		return r.logError("lifecycle_repo_delete_channel_failed", err,
			"channel_id", channelID,
		)
	}
	return nil
}

func (r *Repository) ListChannels(ctx context.Context) ([]entities.Channel, error) {
	var rows []channelModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("lifecycle_repo_list_channels_failed", err)
	}
	items := make([]entities.Channel, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) IsChannelLinked(ctx context.Context, surveyID string, channelID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&surveyChannelModel{}).
		Where("survey_id = ?", strings.TrimSpace(surveyID)).
		Where("channel_id = ?", strings.TrimSpace(channelID)).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("lifecycle_repo_is_channel_linked_failed", err,
			"survey_id", strings.TrimSpace(surveyID),
			"channel_id", strings.TrimSpace(channelID),
		)
	}
	return count > 0, nil
}

func (r *Repository) LinkChannel(ctx context.Context, requirement entities.ChannelRequirement) error {
	row := surveyChannelModel{
		SurveyID:  strings.TrimSpace(requirement.SurveyID),
		ChannelID: strings.TrimSpace(requirement.ChannelID),
		CreatedAt: requirement.CreatedAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "survey_id"}, {Name: "channel_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("lifecycle_repo_link_channel_failed", create.Error,
			"survey_id", row.SurveyID,
			"channel_id", row.ChannelID,
		)
	}
	return nil
}

func (r *Repository) UnlinkChannel(ctx context.Context, surveyID string, channelID string) error {
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", strings.TrimSpace(surveyID)).
		Where("channel_id = ?", strings.TrimSpace(channelID)).
		Delete(&surveyChannelModel{}).
		Error
	if err != nil {
		return r.logError("lifecycle_repo_unlink_channel_failed", err,
			"survey_id", strings.TrimSpace(surveyID),
			"channel_id", strings.TrimSpace(channelID),
		)
	}
	return nil
}

func (r *Repository) ListRequiredChannels(ctx context.Context, surveyID string) ([]entities.Channel, error) {
	var rows []channelModel
	err := r.db.WithContext(ctx).
		Table("channels AS c").
		Select("c.*").
		Joins("JOIN survey_channels AS sc ON sc.channel_id = c.id").
		Where("sc.survey_id = ?", strings.TrimSpace(surveyID)).
		Order("sc.created_at ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("lifecycle_repo_list_required_channels_failed", err,
			"survey_id", strings.TrimSpace(surveyID),
		)
	}
	items := make([]entities.Channel, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "survey-core/lifecycle-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("lifecycle repository operation failed", fields...)
	return err
}

type surveyModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	Title       string     `gorm:"column:title"`
	Description string     `gorm:"column:description"`
	MediaRef    string     `gorm:"column:media_ref"`
	Status      string     `gorm:"column:status"`
	Deadline    *time.Time `gorm:"column:deadline"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	ClosedAt    *time.Time `gorm:"column:closed_at"`
}

func (surveyModel) TableName() string {
	return "surveys"
}

func surveyModelFromEntity(survey entities.Survey) surveyModel {
	row := surveyModel{
		ID:          strings.TrimSpace(survey.SurveyID),
		Title:       strings.TrimSpace(survey.Title),
		Description: survey.Description,
		MediaRef:    strings.TrimSpace(survey.MediaRef),
		Status:      string(survey.Status),
		Deadline:    normalizeOptionalTime(survey.Deadline),
		CreatedAt:   survey.CreatedAt.UTC(),
		UpdatedAt:   survey.UpdatedAt.UTC(),
		ClosedAt:    normalizeOptionalTime(survey.ClosedAt),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m surveyModel) toEntity() entities.Survey {
	return entities.Survey{
		SurveyID:    m.ID,
		Title:       m.Title,
		Description: m.Description,
		MediaRef:    m.MediaRef,
		Status:      entities.SurveyStatus(m.Status),
		Deadline:    normalizeOptionalTime(m.Deadline),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		ClosedAt:    normalizeOptionalTime(m.ClosedAt),
	}
}

type candidateModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	SurveyID  string    `gorm:"column:survey_id"`
	FullName  string    `gorm:"column:full_name"`
	VoteCount int       `gorm:"column:votes_count"`
	Position  int       `gorm:"column:position"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	return candidateModel{
		ID:        strings.TrimSpace(candidate.CandidateID),
		SurveyID:  strings.TrimSpace(candidate.SurveyID),
		FullName:  strings.TrimSpace(candidate.FullName),
		VoteCount: candidate.VoteCount,
		Position:  candidate.Position,
		CreatedAt: candidate.CreatedAt.UTC(),
	}
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		SurveyID:    m.SurveyID,
		FullName:    m.FullName,
		VoteCount:   m.VoteCount,
		Position:    m.Position,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type channelModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	PlatformRef string    `gorm:"column:platform_ref;uniqueIndex"`
	Name        string    `gorm:"column:name"`
	JoinURL     string    `gorm:"column:join_url"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (channelModel) TableName() string {
	return "channels"
}

func channelModelFromEntity(channel entities.Channel) channelModel {
	return channelModel{
		ID:          strings.TrimSpace(channel.ChannelID),
		PlatformRef: strings.TrimSpace(channel.PlatformRef),
		Name:        strings.TrimSpace(channel.Name),
		JoinURL:     strings.TrimSpace(channel.JoinURL),
		CreatedAt:   channel.CreatedAt.UTC(),
	}
}

func (m channelModel) toEntity() entities.Channel {
	return entities.Channel{
		ChannelID:   m.ID,
		PlatformRef: m.PlatformRef,
		Name:        m.Name,
		JoinURL:     m.JoinURL,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type surveyChannelModel struct {
	SurveyID  string    `gorm:"column:survey_id;primaryKey"`
	ChannelID string    `gorm:"column:channel_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (surveyChannelModel) TableName() string {
	return "survey_channels"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.SurveyRepository = (*Repository)(nil)
var _ ports.ChannelRepository = (*Repository)(nil)
