package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"saylov/contexts/survey-core/voting-engine/domain/entities"
	domainerrors "saylov/contexts/survey-core/voting-engine/domain/errors"
	"saylov/contexts/survey-core/voting-engine/ports"
)

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

type voteModel struct {
	ParticipantID string    `gorm:"column:participant_id;primaryKey"`
	SurveyID      string    `gorm:"column:survey_id;primaryKey"`
	CandidateID   string    `gorm:"column:candidate_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string { return "votes" }

type participantModel struct {
	ParticipantID string    `gorm:"column:id;primaryKey"`
	PhoneNumber   string    `gorm:"column:phone_number"`
	FullName      string    `gorm:"column:full_name"`
	JoinedAt      time.Time `gorm:"column:joined_at"`
}

func (participantModel) TableName() string { return "participants" }

type surveyReadModel struct {
	SurveyID string `gorm:"column:id;primaryKey"`
	Title    string `gorm:"column:title"`
	Status   string `gorm:"column:status"`
}

func (surveyReadModel) TableName() string { return "surveys" }

type candidateReadModel struct {
	CandidateID string `gorm:"column:id;primaryKey"`
	SurveyID    string `gorm:"column:survey_id"`
	FullName    string `gorm:"column:full_name"`
	Position    int    `gorm:"column:position"`
	VoteCount   int    `gorm:"column:votes_count"`
}

func (candidateReadModel) TableName() string { return "candidates" }

type channelReadModel struct {
	ChannelID   string `gorm:"column:id;primaryKey"`
	PlatformRef string `gorm:"column:platform_ref"`
	Name        string `gorm:"column:name"`
	JoinURL     string `gorm:"column:join_url"`
}

func (channelReadModel) TableName() string { return "channels" }

// InsertVote writes the vote row and increments the candidate tally in one
// transaction. The primary key on (participant_id, survey_id) arbitrates
// concurrent attempts; the loser sees ErrDuplicateVote and no tally change.
func (r *Repository) InsertVote(ctx context.Context, vote entities.Vote) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := voteModel{
			ParticipantID: vote.ParticipantID,
			SurveyID:      vote.SurveyID,
			CandidateID:   vote.CandidateID,
			CreatedAt:     vote.CreatedAt,
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}, {Name: "survey_id"}},
			DoNothing: true,
		}).Create(&model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrDuplicateVote
		}
		return tx.Model(&candidateReadModel{}).
			Where("id = ?", vote.CandidateID).
			UpdateColumn("votes_count", gorm.Expr("votes_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateVote) {
			return err
		}
		r.logError("insert_vote", err)
		return err
	}
	return nil
}

func (r *Repository) HasVoted(ctx context.Context, participantID string, surveyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&voteModel{}).
		Where("participant_id = ? AND survey_id = ?", participantID, surveyID).
		Count(&count).Error
	if err != nil {
		r.logError("has_voted", err)
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) ListVotesBySurvey(ctx context.Context, surveyID string) ([]entities.Vote, error) {
	var models []voteModel
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		r.logError("list_votes_by_survey", err)
		return nil, err
	}

	votes := make([]entities.Vote, 0, len(models))
	for _, model := range models {
		votes = append(votes, entities.Vote{
			ParticipantID: model.ParticipantID,
			SurveyID:      model.SurveyID,
			CandidateID:   model.CandidateID,
			CreatedAt:     model.CreatedAt,
		})
	}
	return votes, nil
}

func (r *Repository) SaveParticipant(ctx context.Context, participant entities.Participant) error {
	model := participantModel{
		ParticipantID: participant.ParticipantID,
		PhoneNumber:   participant.PhoneNumber,
		FullName:      participant.FullName,
		JoinedAt:      participant.JoinedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phone_number", "full_name"}),
	}).Create(&model).Error
	if err != nil {
		r.logError("save_participant", err)
		return err
	}
	return nil
}

func (r *Repository) GetParticipant(ctx context.Context, participantID string) (entities.Participant, bool, error) {
	var model participantModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", participantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Participant{}, false, nil
		}
		r.logError("get_participant", err)
		return entities.Participant{}, false, err
	}
	return entities.Participant{
		ParticipantID: model.ParticipantID,
		PhoneNumber:   model.PhoneNumber,
		FullName:      model.FullName,
		JoinedAt:      model.JoinedAt,
	}, true, nil
}

func (r *Repository) ListParticipants(ctx context.Context) ([]entities.Participant, error) {
	var models []participantModel
	err := r.db.WithContext(ctx).Order("joined_at ASC").Find(&models).Error
	if err != nil {
		r.logError("list_participants", err)
		return nil, err
	}

	participants := make([]entities.Participant, 0, len(models))
	for _, model := range models {
		participants = append(participants, entities.Participant{
			ParticipantID: model.ParticipantID,
			PhoneNumber:   model.PhoneNumber,
			FullName:      model.FullName,
			JoinedAt:      model.JoinedAt,
		})
	}
	return participants, nil
}

func (r *Repository) GetSurvey(ctx context.Context, surveyID string) (ports.SurveyProjection, error) {
	var model surveyReadModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", surveyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SurveyProjection{}, domainerrors.ErrSurveyNotFound
		}
		r.logError("get_survey", err)
		return ports.SurveyProjection{}, err
	}
	return ports.SurveyProjection{
		SurveyID: model.SurveyID,
		Title:    model.Title,
		Status:   model.Status,
	}, nil
}

func (r *Repository) ListCandidates(ctx context.Context, surveyID string) ([]ports.CandidateProjection, error) {
	var models []candidateReadModel
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("position ASC").
		Find(&models).Error
	if err != nil {
		r.logError("list_candidates", err)
		return nil, err
	}

	projections := make([]ports.CandidateProjection, 0, len(models))
	for _, model := range models {
		projections = append(projections, ports.CandidateProjection{
			CandidateID: model.CandidateID,
			SurveyID:    model.SurveyID,
			FullName:    model.FullName,
			Position:    model.Position,
			VoteCount:   model.VoteCount,
		})
	}
	return projections, nil
}

func (r *Repository) ListRequiredChannels(ctx context.Context, surveyID string) ([]entities.RequiredChannel, error) {
	var models []channelReadModel
	err := r.db.WithContext(ctx).Model(&channelReadModel{}).
		Joins("JOIN survey_channels ON survey_channels.channel_id = channels.id").
		Where("survey_channels.survey_id = ?", surveyID).
		Order("channels.created_at ASC").
		Find(&models).Error
	if err != nil {
		r.logError("list_required_channels", err)
		return nil, err
	}

	channels := make([]entities.RequiredChannel, 0, len(models))
	for _, model := range models {
		channels = append(channels, entities.RequiredChannel{
			ChannelID:   model.ChannelID,
			PlatformRef: model.PlatformRef,
			Name:        model.Name,
			JoinURL:     model.JoinURL,
		})
	}
	return channels, nil
}

func (r *Repository) logError(operation string, err error) {
	r.logger.Error("repository operation failed",
		slog.String("event", "voting_repository_error"),
		slog.String("module", "voting-engine"),
		slog.String("layer", "adapters"),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

var (
	_ ports.VoteRepository        = (*Repository)(nil)
	_ ports.ParticipantRepository = (*Repository)(nil)
	_ ports.SurveyReader          = (*Repository)(nil)
)
