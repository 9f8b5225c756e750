package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tkd-competition/metrics"
	"github.com/Dosada05/tkd-competition/models"
	"github.com/Dosada05/tkd-competition/repositories"
)

// DuplicateActionWindow is how close two identical actions of one match must be to count as a resend.
const DuplicateActionWindow = time.Second

type CreateMatchInput struct {
	EventID           int          `json:"event_id" validate:"required,gt=0"`
	SessionID         *int         `json:"session_id,omitempty" validate:"omitempty,gt=0"`
	Mat               int          `json:"mat" validate:"gte=0"`
	Number            string       `json:"number" validate:"required,max=20"`
	Phase             models.Phase `json:"phase" validate:"required"`
	PositionReference string       `json:"position_reference" validate:"max=20"`
	HomeCompetitorID  *int         `json:"home_competitor_id,omitempty" validate:"omitempty,gt=0"`
	AwayCompetitorID  *int         `json:"away_competitor_id,omitempty" validate:"omitempty,gt=0"`
	ScheduledStart    *time.Time   `json:"scheduled_start,omitempty"`
}

// ActionInput is one action as reported by a scoring device or an operator.
// Position is the sender's own counter and is kept as metadata only.
type ActionInput struct {
	Action        models.ActionType   `json:"action" validate:"required"`
	Position      *int                `json:"position,omitempty" validate:"omitempty,gte=0"`
	HitLevel      *int                `json:"hit_level,omitempty" validate:"omitempty,gte=0"`
	Round         int                 `json:"round" validate:"gte=0"`
	RoundTime     *string             `json:"round_time,omitempty" validate:"omitempty,max=8"`
	HomeScore     int                 `json:"home_score"`
	AwayScore     int                 `json:"away_score"`
	HomePenalties int                 `json:"home_penalties"`
	AwayPenalties int                 `json:"away_penalties"`
	Source        models.ActionSource `json:"source" validate:"required,oneof=HOME AWAY CR OPERATOR"`
	CompetitorID  *int                `json:"competitor_id,omitempty" validate:"omitempty,gt=0"`
	Description   *string             `json:"description,omitempty" validate:"omitempty,max=255"`
	Timestamp     time.Time           `json:"timestamp"`
}

type ResultInput struct {
	Status        models.ResultStatus `json:"status" validate:"required"`
	Round         *int                `json:"round,omitempty" validate:"omitempty,gte=0"`
	Position      *int                `json:"position,omitempty" validate:"omitempty,gte=1"`
	Decision      models.VictoryType  `json:"decision" validate:"required"`
	HomeType      *models.ResultType  `json:"home_type,omitempty" validate:"omitempty,oneof=WIN LOSS DRAW"`
	AwayType      *models.ResultType  `json:"away_type,omitempty" validate:"omitempty,oneof=WIN LOSS DRAW"`
	HomeScore     int                 `json:"home_score" validate:"gte=0"`
	AwayScore     int                 `json:"away_score" validate:"gte=0"`
	HomePenalties int                 `json:"home_penalties" validate:"gte=0"`
	AwayPenalties int                 `json:"away_penalties" validate:"gte=0"`
	Description   *string             `json:"description,omitempty" validate:"omitempty,max=255"`
	Timestamp     time.Time           `json:"timestamp"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	GetMatchDetails(ctx context.Context, matchID int) (*models.Match, error)
	ListMatches(ctx context.Context, eventID int, phase *models.Phase) ([]*models.Match, error)
	DeleteMatch(ctx context.Context, matchID int) error

	RecordAction(ctx context.Context, matchID int, input ActionInput) (*models.MatchAction, error)
	SubmitResult(ctx context.Context, matchID int, input ResultInput) (*models.MatchResult, error)
	ChangeScheduleStatus(ctx context.Context, matchID int, status models.ScheduleStatus) (*models.Match, error)

	GetConfiguration(ctx context.Context, matchID int) (*models.MatchConfiguration, error)
	UpsertConfiguration(ctx context.Context, matchID int, cfg models.MatchConfiguration) (*models.MatchConfiguration, error)

	AssignReferees(ctx context.Context, matchID int, assignment models.RefereeAssignment) (*models.RefereeAssignment, error)
	GetReferees(ctx context.Context, matchID int) (*models.RefereeAssignment, error)
	AssignEquipment(ctx context.Context, matchID int, assignment models.EquipmentAssignment) (*models.EquipmentAssignment, error)
}

type MatchRepositories struct {
	Events      repositories.EventRepository
	Competitors repositories.CompetitorRepository
	Matches     repositories.MatchRepository
	Actions     repositories.MatchActionRepository
	Results     repositories.MatchResultRepository
	Pools       repositories.PoolRepository
	Assignments repositories.AssignmentRepository
}

type matchService struct {
	repos     MatchRepositories
	tx        TxRunner
	finalizer ResultFinalizer
	notifier  Notifier
	metrics   metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewMatchService(
	repos MatchRepositories,
	tx TxRunner,
	finalizer ResultFinalizer,
	notifier Notifier,
	m metrics.Metrics,
	logger *slog.Logger,
) MatchService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &matchService{
		repos:     repos,
		tx:        tx,
		finalizer: finalizer,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.Phase.IsValid() {
		return nil, withDetail(ErrValidationFailed, "unknown phase %q", input.Phase)
	}
	if input.HomeCompetitorID != nil && input.AwayCompetitorID != nil && *input.HomeCompetitorID == *input.AwayCompetitorID {
		return nil, withDetail(ErrValidationFailed, "competitor %d cannot face themselves", *input.HomeCompetitorID)
	}

	match := &models.Match{
		EventID:           input.EventID,
		SessionID:         input.SessionID,
		Mat:               input.Mat,
		Number:            input.Number,
		Phase:             input.Phase,
		PositionReference: input.PositionReference,
		HomeCompetitorID:  input.HomeCompetitorID,
		AwayCompetitorID:  input.AwayCompetitorID,
		ScheduleStatus:    models.ScheduleScheduled,
		ResultStatus:      models.ResultUnconfirmed,
		ScheduledStart:    input.ScheduledStart,
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		event, err := s.repos.Events.GetByID(ctx, exec, input.EventID)
		if err != nil {
			return handleRepositoryError(err, "get event")
		}
		if input.SessionID != nil {
			if err := s.checkSession(ctx, exec, event.ID, *input.SessionID); err != nil {
				return err
			}
		}
		for _, id := range []*int{input.HomeCompetitorID, input.AwayCompetitorID} {
			if id == nil {
				continue
			}
			if err := s.checkCompetitor(ctx, exec, event.ID, *id); err != nil {
				return err
			}
		}

		if err := s.repos.Matches.Create(ctx, exec, match); err != nil {
			return handleRepositoryError(err, "create match")
		}
		cfg := models.DefaultMatchConfiguration(event.Discipline, event.Division)
		cfg.MatchID = match.ID
		if err := s.repos.Matches.CreateConfiguration(ctx, exec, &cfg); err != nil {
			return handleRepositoryError(err, "create match configuration")
		}
		match.Configuration = &cfg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Match created", slog.Int("match_id", match.ID), slog.Int("event_id", match.EventID), slog.String("number", match.Number))
	s.notifier.Notify(EventRoom(match.EventID), MsgMatchUpdated, match)
	return match, nil
}

func (s *matchService) checkSession(ctx context.Context, exec repositories.SQLExecutor, eventID, sessionID int) error {
	session, err := s.repos.Events.GetSession(ctx, exec, sessionID)
	if err != nil {
		return handleRepositoryError(err, "get session")
	}
	if session.EventID != eventID {
		return withDetail(ErrSessionNotInEvent, "session %d, event %d", sessionID, eventID)
	}
	return nil
}

func (s *matchService) checkCompetitor(ctx context.Context, exec repositories.SQLExecutor, eventID, competitorID int) error {
	c, err := s.repos.Competitors.GetByID(ctx, exec, competitorID)
	if err != nil {
		return handleRepositoryError(err, "get competitor")
	}
	if c.EventID != eventID {
		return withDetail(ErrCompetitorNotInEvent, "competitor %d, event %d", competitorID, eventID)
	}
	return nil
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.repos.Matches.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "get match")
	}
	return match, nil
}

// GetMatchDetails loads the match with its configuration, action log and result history.
func (s *matchService) GetMatchDetails(ctx context.Context, matchID int) (*models.Match, error) {
	var (
		match   *models.Match
		cfg     *models.MatchConfiguration
		actions []models.MatchAction
		results []models.MatchResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.repos.Matches.GetByID(gctx, nil, matchID)
		if err != nil {
			return handleRepositoryError(err, "get match")
		}
		match = m
		return nil
	})
	g.Go(func() error {
		c, err := s.repos.Matches.GetConfiguration(gctx, nil, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchConfigNotFound) {
				return nil
			}
			return handleRepositoryError(err, "get match configuration")
		}
		cfg = c
		return nil
	})
	g.Go(func() error {
		a, err := s.repos.Actions.ListByMatch(gctx, nil, matchID)
		if err != nil {
			return handleRepositoryError(err, "list match actions")
		}
		actions = a
		return nil
	})
	g.Go(func() error {
		r, err := s.repos.Results.ListByMatch(gctx, nil, matchID)
		if err != nil {
			return handleRepositoryError(err, "list match results")
		}
		results = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	match.Configuration = cfg
	match.Actions = actions
	match.Results = results
	if match.Actions == nil {
		match.Actions = []models.MatchAction{}
	}
	if match.Results == nil {
		match.Results = []models.MatchResult{}
	}
	return match, nil
}

func (s *matchService) ListMatches(ctx context.Context, eventID int, phase *models.Phase) ([]*models.Match, error) {
	if phase != nil && !phase.IsValid() {
		return nil, withDetail(ErrValidationFailed, "unknown phase %q", *phase)
	}
	if _, err := s.repos.Events.GetByID(ctx, nil, eventID); err != nil {
		return nil, handleRepositoryError(err, "get event")
	}
	matches, err := s.repos.Matches.ListByEvent(ctx, nil, eventID, phase)
	if err != nil {
		return nil, handleRepositoryError(err, "list matches")
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

// DeleteMatch removes the match together with everything that references it.
func (s *matchService) DeleteMatch(ctx context.Context, matchID int) error {
	var eventID int
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.repos.Matches.LockByID(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "lock match")
		}
		eventID = match.EventID
		return deleteMatchCascade(ctx, exec, s.repos, matchID)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Match deleted", slog.Int("match_id", matchID), slog.Int("event_id", eventID))
	s.notifier.Notify(EventRoom(eventID), MsgMatchUpdated, map[string]interface{}{"match_id": matchID, "deleted": true})
	return nil
}

// deleteMatchCascade removes a match and every row that references it. Callers hold the transaction.
func deleteMatchCascade(ctx context.Context, exec repositories.SQLExecutor, repos MatchRepositories, matchID int) error {
	if err := repos.Actions.DeleteByMatch(ctx, exec, matchID); err != nil {
		return handleRepositoryError(err, "delete match actions")
	}
	if err := repos.Results.DeleteByMatch(ctx, exec, matchID); err != nil {
		return handleRepositoryError(err, "delete match results")
	}
	if err := repos.Assignments.DeleteByMatch(ctx, exec, matchID); err != nil {
		return handleRepositoryError(err, "delete match assignments")
	}
	if err := repos.Pools.DeletePoolMatchByMatch(ctx, exec, matchID); err != nil {
		return handleRepositoryError(err, "delete pool link")
	}
	if err := repos.Matches.DeleteConfiguration(ctx, exec, matchID); err != nil {
		return handleRepositoryError(err, "delete match configuration")
	}
	if err := repos.Matches.Delete(ctx, exec, matchID); err != nil {
		return handleRepositoryError(err, "delete match")
	}
	return nil
}

// RecordAction appends an action to the match log and folds it into the match state.
// A resend of the same action within DuplicateActionWindow returns ErrDuplicateAction and changes nothing.
func (s *matchService) RecordAction(ctx context.Context, matchID int, input ActionInput) (*models.MatchAction, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.Action.IsValid() {
		return nil, withDetail(ErrInvalidAction, "%q", input.Action)
	}

	ts := input.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	action := &models.MatchAction{
		MatchID:        matchID,
		Action:         input.Action,
		HitLevel:       input.HitLevel,
		Round:          input.Round,
		RoundTime:      input.RoundTime,
		HomeScore:      input.HomeScore,
		AwayScore:      input.AwayScore,
		HomePenalties:  input.HomePenalties,
		AwayPenalties:  input.AwayPenalties,
		Source:         input.Source,
		CompetitorID:   input.CompetitorID,
		Description:    input.Description,
		ClientPosition: input.Position,
		Timestamp:      ts,
	}

	var match *models.Match
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.repos.Matches.LockByID(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "lock match")
		}

		dup, err := s.repos.Actions.ExistsWithin(ctx, exec, matchID, action.Action, ts, DuplicateActionWindow)
		if err != nil {
			return handleRepositoryError(err, "check duplicate action")
		}
		if dup {
			return withDetail(ErrDuplicateAction, "%s at %s on match %d", action.Action, ts.Format(time.RFC3339Nano), matchID)
		}
		if isClosed(m) {
			return withDetail(ErrMatchClosed, "match %d is %s", matchID, m.ScheduleStatus)
		}

		pos, err := s.repos.Actions.NextPosition(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "next action position")
		}
		action.Position = pos
		if err := s.repos.Actions.Create(ctx, exec, action); err != nil {
			return handleRepositoryError(err, "create match action")
		}

		applyAction(m, action)
		if err := s.repos.Matches.UpdateState(ctx, exec, m); err != nil {
			return handleRepositoryError(err, "update match state")
		}
		match = m
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateAction) {
			s.metrics.IncDuplicateActions()
			s.logger.WarnContext(ctx, "Duplicate match action dropped",
				slog.Int("match_id", matchID), slog.String("action", string(action.Action)), slog.Time("timestamp", ts))
		}
		return nil, err
	}

	s.metrics.IncActionsRecorded(string(action.Source))
	s.logger.DebugContext(ctx, "Match action recorded",
		slog.Int("match_id", matchID), slog.Int("position", action.Position), slog.String("action", string(action.Action)))
	s.notifyMatch(match, MsgMatchAction, action)
	s.notifyMatch(match, MsgMatchUpdated, match)
	return action, nil
}

// SubmitResult stores a result version. Only the latest position drives the match row;
// an OFFICIAL result finishes the match and awards medals for F and BMC.
func (s *matchService) SubmitResult(ctx context.Context, matchID int, input ResultInput) (*models.MatchResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !input.Decision.IsValid() {
		return nil, withDetail(ErrInvalidResult, "unknown decision %q", input.Decision)
	}

	ts := input.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	result := &models.MatchResult{
		MatchID:       matchID,
		Status:        input.Status,
		Round:         input.Round,
		Decision:      input.Decision,
		HomeType:      input.HomeType,
		AwayType:      input.AwayType,
		HomeScore:     input.HomeScore,
		AwayScore:     input.AwayScore,
		HomePenalties: input.HomePenalties,
		AwayPenalties: input.AwayPenalties,
		Description:   input.Description,
		Timestamp:     ts,
	}

	var (
		match   *models.Match
		applied bool
		awarded []*models.MedalWinner
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.repos.Matches.LockByID(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "lock match")
		}
		if err := checkResultTransition(m.ResultStatus, result.Status); err != nil {
			return err
		}

		maxPos, err := s.repos.Results.MaxPosition(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "max result position")
		}
		result.Position = maxPos + 1
		if input.Position != nil {
			result.Position = *input.Position
		}
		result.WinnerID, result.LoserID = decideOutcome(m, result)

		if err := s.repos.Results.Create(ctx, exec, result); err != nil {
			return handleRepositoryError(err, "create match result")
		}

		if result.Position >= maxPos {
			m.ResultStatus = result.Status
			decision := result.Decision
			m.ResultDecision = &decision
			m.HomeScore, m.AwayScore = result.HomeScore, result.AwayScore
			m.HomePenalties, m.AwayPenalties = result.HomePenalties, result.AwayPenalties
			if result.Status == models.ResultOfficial {
				m.ScheduleStatus = models.ScheduleFinished
			}
			if err := s.repos.Matches.UpdateState(ctx, exec, m); err != nil {
				return handleRepositoryError(err, "update match state")
			}
			applied = true

			// Медали только по результату, который стал итогом матча.
			awarded, err = s.finalizer.Finalize(ctx, exec, m, result)
			if err != nil {
				return err
			}
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncResultsSubmitted(string(result.Status))
	s.logger.InfoContext(ctx, "Match result submitted",
		slog.Int("match_id", matchID), slog.Int("position", result.Position),
		slog.String("status", string(result.Status)), slog.Bool("applied", applied))

	if applied {
		s.notifyMatch(match, MsgMatchUpdated, match)
	}
	if len(awarded) > 0 {
		for _, medal := range awarded {
			s.metrics.IncMedalsAwarded(string(medal.MedalType))
		}
		s.notifier.Notify(EventRoom(match.EventID), MsgMedalsUpdated, awarded)
	}
	return result, nil
}

// ChangeScheduleStatus applies an administrative schedule command.
func (s *matchService) ChangeScheduleStatus(ctx context.Context, matchID int, status models.ScheduleStatus) (*models.Match, error) {
	var match *models.Match
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.repos.Matches.LockByID(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "lock match")
		}
		if err := checkScheduleTransition(m.ScheduleStatus, status); err != nil {
			return err
		}
		m.ScheduleStatus = status
		if err := s.repos.Matches.UpdateState(ctx, exec, m); err != nil {
			return handleRepositoryError(err, "update match state")
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Match schedule status changed", slog.Int("match_id", matchID), slog.String("status", string(status)))
	s.notifyMatch(match, MsgMatchUpdated, match)
	return match, nil
}

func (s *matchService) GetConfiguration(ctx context.Context, matchID int) (*models.MatchConfiguration, error) {
	if _, err := s.repos.Matches.GetByID(ctx, nil, matchID); err != nil {
		return nil, handleRepositoryError(err, "get match")
	}
	cfg, err := s.repos.Matches.GetConfiguration(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "get match configuration")
	}
	return cfg, nil
}

func (s *matchService) UpsertConfiguration(ctx context.Context, matchID int, cfg models.MatchConfiguration) (*models.MatchConfiguration, error) {
	if err := validateConfiguration(&cfg); err != nil {
		return nil, err
	}
	cfg.MatchID = matchID

	var match *models.Match
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		m, err := s.repos.Matches.LockByID(ctx, exec, matchID)
		if err != nil {
			return handleRepositoryError(err, "lock match")
		}
		if err := s.repos.Matches.UpsertConfiguration(ctx, exec, &cfg); err != nil {
			return handleRepositoryError(err, "upsert match configuration")
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	match.Configuration = &cfg
	s.notifyMatch(match, MsgMatchUpdated, match)
	return &cfg, nil
}

func validateConfiguration(cfg *models.MatchConfiguration) error {
	if !cfg.Rules.IsValid() {
		return withDetail(ErrValidationFailed, "unknown rules %q", cfg.Rules)
	}
	switch {
	case cfg.Rounds < 1:
		return withDetail(ErrValidationFailed, "rounds must be positive")
	case cfg.BodyThreshold < 0 || cfg.HeadThreshold < 0:
		return withDetail(ErrValidationFailed, "sensor thresholds must not be negative")
	case cfg.HomeVideoReplayQuota < 0 || cfg.AwayVideoReplayQuota < 0:
		return withDetail(ErrValidationFailed, "video replay quota must not be negative")
	case cfg.MaxDifference < 0 || cfg.MaxPenalties < 0:
		return withDetail(ErrValidationFailed, "limits must not be negative")
	}
	return nil
}

func (s *matchService) AssignReferees(ctx context.Context, matchID int, assignment models.RefereeAssignment) (*models.RefereeAssignment, error) {
	seen := make(map[int]bool)
	for _, id := range assignment.RefereeIDs() {
		if seen[id] {
			return nil, withDetail(ErrDuplicateReferee, "referee %d", id)
		}
		seen[id] = true
	}
	assignment.MatchID = matchID

	if _, err := s.repos.Matches.GetByID(ctx, nil, matchID); err != nil {
		return nil, handleRepositoryError(err, "get match")
	}
	if err := s.repos.Assignments.UpsertReferees(ctx, nil, &assignment); err != nil {
		return nil, handleRepositoryError(err, "assign referees")
	}
	return &assignment, nil
}

func (s *matchService) GetReferees(ctx context.Context, matchID int) (*models.RefereeAssignment, error) {
	a, err := s.repos.Assignments.GetReferees(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrRefereeAssignmentNotFound) {
			return nil, fmt.Errorf("%w: no referees assigned to match %d", ErrNotFound, matchID)
		}
		return nil, handleRepositoryError(err, "get referees")
	}
	return a, nil
}

func (s *matchService) AssignEquipment(ctx context.Context, matchID int, assignment models.EquipmentAssignment) (*models.EquipmentAssignment, error) {
	switch assignment.DeviceType {
	case models.DeviceDaedo, models.DeviceKPNP, models.DeviceGeneric:
	case "":
		assignment.DeviceType = models.DeviceGeneric
	default:
		return nil, withDetail(ErrValidationFailed, "unknown device type %q", assignment.DeviceType)
	}

	match, err := s.repos.Matches.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "get match")
	}
	if match.Side(assignment.CompetitorID) == "" {
		return nil, withDetail(ErrCompetitorNotInMatch, "competitor %d, match %d", assignment.CompetitorID, matchID)
	}
	assignment.MatchID = matchID
	if err := s.repos.Assignments.UpsertEquipment(ctx, nil, &assignment); err != nil {
		return nil, handleRepositoryError(err, "assign equipment")
	}
	return &assignment, nil
}

func (s *matchService) notifyMatch(m *models.Match, msgType string, payload interface{}) {
	s.notifier.Notify(MatchRoom(m.ID), msgType, payload)
	s.notifier.Notify(EventRoom(m.EventID), msgType, payload)
}
