package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/Dosada05/tkd-competition/brackets"
	"github.com/Dosada05/tkd-competition/metrics"
	"github.com/Dosada05/tkd-competition/models"
	"github.com/Dosada05/tkd-competition/repositories"
)

const DefaultBaseMatchNumber = 101

type GenerateBracketInput struct {
	EventID         int  `json:"event_id" validate:"required,gt=0"`
	SessionID       *int `json:"session_id,omitempty" validate:"omitempty,gt=0"`
	Mat             int  `json:"mat" validate:"gte=0"`
	BaseMatchNumber int  `json:"base_match_number" validate:"gte=0"`
	// AdvanceByes also creates next-round matches whose both slots are filled by byes.
	AdvanceByes bool `json:"advance_byes"`
}

type BracketResult struct {
	Matches []*models.Match       `json:"matches"`
	Byes    []brackets.ByeAdvance `json:"byes"`
}

type BracketService interface {
	GenerateBracket(ctx context.Context, input GenerateBracketInput) (*BracketResult, error)
	// PreviewBracket runs the generator without writing anything.
	PreviewBracket(ctx context.Context, eventID, baseMatchNumber int) ([]*brackets.BracketMatch, error)
}

type bracketService struct {
	tx             TxRunner
	eventRepo      repositories.EventRepository
	competitorRepo repositories.CompetitorRepository
	matchRepo      repositories.MatchRepository
	generator      brackets.BracketGenerator
	notifier       Notifier
	metrics        metrics.Metrics
	logger         *slog.Logger
}

func NewBracketService(
	tx TxRunner,
	eventRepo repositories.EventRepository,
	competitorRepo repositories.CompetitorRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
	m metrics.Metrics,
	logger *slog.Logger,
) BracketService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &bracketService{
		tx:             tx,
		eventRepo:      eventRepo,
		competitorRepo: competitorRepo,
		matchRepo:      matchRepo,
		generator:      brackets.NewSingleEliminationGenerator(),
		notifier:       notifier,
		metrics:        m,
		logger:         logger,
	}
}

func mapGeneratorError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrNotEnoughCompetitors):
		return withDetail(ErrNotEnoughCompetitors, "%v", err)
	case errors.Is(err, brackets.ErrBracketTooLarge):
		return withDetail(ErrBracketTooLarge, "%v", err)
	}
	return err
}

func (s *bracketService) GenerateBracket(ctx context.Context, input GenerateBracketInput) (*BracketResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	base := input.BaseMatchNumber
	if base == 0 {
		base = DefaultBaseMatchNumber
	}

	result := &BracketResult{Matches: []*models.Match{}, Byes: []brackets.ByeAdvance{}}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.eventRepo.LockByID(ctx, exec, input.EventID)
		if err != nil {
			return handleRepositoryError(err, "lock event")
		}
		if input.SessionID != nil {
			session, err := s.eventRepo.GetSession(ctx, exec, *input.SessionID)
			if err != nil {
				return handleRepositoryError(err, "get session")
			}
			if session.EventID != event.ID {
				return withDetail(ErrSessionNotInEvent, "session %d, event %d", session.ID, event.ID)
			}
		}

		existing, err := s.matchRepo.CountBracketMatches(ctx, exec, event.ID)
		if err != nil {
			return handleRepositoryError(err, "count bracket matches")
		}
		if existing > 0 {
			return withDetail(ErrBracketAlreadyGenerated, "event %d has %d matches", event.ID, existing)
		}

		competitors, err := s.competitorRepo.ListByEvent(ctx, exec, event.ID)
		if err != nil {
			return handleRepositoryError(err, "list competitors")
		}

		generated, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
			Event:           event,
			Competitors:     competitors,
			BaseMatchNumber: base,
		})
		if err != nil {
			return mapGeneratorError(err)
		}

		next := base
		for _, bm := range generated {
			if !bm.IsPlayable() {
				continue
			}
			m, err := s.createBracketMatch(ctx, exec, event, input, bm)
			if err != nil {
				return err
			}
			result.Matches = append(result.Matches, m)
			next++
		}

		advances, ready := brackets.AdvanceByes(generated, next)
		result.Byes = advances
		if input.AdvanceByes {
			for _, bm := range ready {
				m, err := s.createBracketMatch(ctx, exec, event, input, bm)
				if err != nil {
					return err
				}
				result.Matches = append(result.Matches, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddMatchesGenerated("bracket", len(result.Matches))
	s.logger.InfoContext(ctx, "Bracket generated",
		slog.Int("event_id", input.EventID), slog.Int("matches", len(result.Matches)), slog.Int("byes", len(result.Byes)))
	s.notifier.Notify(EventRoom(input.EventID), MsgBracketGenerated, result)
	return result, nil
}

func (s *bracketService) createBracketMatch(ctx context.Context, exec repositories.SQLExecutor, event *models.Event, input GenerateBracketInput, bm *brackets.BracketMatch) (*models.Match, error) {
	m := &models.Match{
		EventID:           event.ID,
		SessionID:         input.SessionID,
		Mat:               input.Mat,
		Number:            bm.Number,
		Phase:             bm.Phase,
		PositionReference: bm.UID,
		HomeCompetitorID:  bm.HomeCompetitorID,
		AwayCompetitorID:  bm.AwayCompetitorID,
		ScheduleStatus:    models.ScheduleScheduled,
		ResultStatus:      models.ResultUnconfirmed,
	}
	if err := s.matchRepo.Create(ctx, exec, m); err != nil {
		return nil, handleRepositoryError(err, "create match "+bm.UID)
	}
	cfg := models.DefaultMatchConfiguration(event.Discipline, event.Division)
	cfg.MatchID = m.ID
	if err := s.matchRepo.CreateConfiguration(ctx, exec, &cfg); err != nil {
		return nil, handleRepositoryError(err, "create configuration for match "+strconv.Itoa(m.ID))
	}
	m.Configuration = &cfg
	return m, nil
}

func (s *bracketService) PreviewBracket(ctx context.Context, eventID, baseMatchNumber int) ([]*brackets.BracketMatch, error) {
	if baseMatchNumber == 0 {
		baseMatchNumber = DefaultBaseMatchNumber
	}
	event, err := s.eventRepo.GetByID(ctx, nil, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "get event")
	}
	competitors, err := s.competitorRepo.ListByEvent(ctx, nil, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "list competitors")
	}
	generated, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Event:           event,
		Competitors:     competitors,
		BaseMatchNumber: baseMatchNumber,
	})
	if err != nil {
		return nil, mapGeneratorError(err)
	}
	return generated, nil
}
