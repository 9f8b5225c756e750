package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tkd-competition/brackets"
	"github.com/Dosada05/tkd-competition/metrics"
	"github.com/Dosada05/tkd-competition/models"
	"github.com/Dosada05/tkd-competition/repositories"
)

type CreatePoolInput struct {
	EventID           int                        `json:"event_id" validate:"required,gt=0"`
	Name              string                     `json:"name" validate:"required,max=100"`
	MaxAthletes       int                        `json:"max_athletes" validate:"required,gte=2"`
	MatchesPerAthlete *int                       `json:"matches_per_athlete,omitempty" validate:"omitempty,gte=1"`
	PointsForWin      *int                       `json:"points_for_win,omitempty" validate:"omitempty,gte=0"`
	PointsForDraw     *int                       `json:"points_for_draw,omitempty" validate:"omitempty,gte=0"`
	PointsForLoss     *int                       `json:"points_for_loss,omitempty" validate:"omitempty,gte=0"`
	QualifyingPlaces  *int                       `json:"qualifying_places,omitempty" validate:"omitempty,gte=1"`
	TieBreakers       []models.TieBreakCriterion `json:"tie_breakers,omitempty"`
}

type GeneratePoolMatchesInput struct {
	SessionID int `json:"session_id" validate:"required,gt=0"`
	Mat       int `json:"mat" validate:"gte=0"`
}

type PoolService interface {
	CreatePool(ctx context.Context, input CreatePoolInput) (*models.Pool, error)
	GetPool(ctx context.Context, poolID int) (*models.Pool, error)
	AddCompetitor(ctx context.Context, poolID, competitorID int) (*models.PoolCompetitor, error)
	RemoveCompetitor(ctx context.Context, poolID, competitorID int) error
	GeneratePoolMatches(ctx context.Context, poolID int, input GeneratePoolMatchesInput) ([]*models.Match, error)
	ListPoolMatches(ctx context.Context, poolID int) ([]*models.Match, error)
	RecomputeStandings(ctx context.Context, poolID int) ([]*models.PoolStanding, error)
	GetStandings(ctx context.Context, poolID int) ([]*models.PoolStanding, error)
}

type poolService struct {
	repos     MatchRepositories
	standings repositories.PoolStandingRepository
	tx        TxRunner
	generator brackets.BracketGenerator
	notifier  Notifier
	metrics   metrics.Metrics
	logger    *slog.Logger
}

func NewPoolService(
	repos MatchRepositories,
	standings repositories.PoolStandingRepository,
	tx TxRunner,
	notifier Notifier,
	m metrics.Metrics,
	logger *slog.Logger,
) PoolService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &poolService{
		repos:     repos,
		standings: standings,
		tx:        tx,
		generator: brackets.NewRoundRobinGenerator(),
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func (s *poolService) CreatePool(ctx context.Context, input CreatePoolInput) (*models.Pool, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	tieBreakers := input.TieBreakers
	if len(tieBreakers) == 0 {
		tieBreakers = append([]models.TieBreakCriterion(nil), models.DefaultTieBreakers...)
	}
	for _, c := range tieBreakers {
		if !c.IsValid() {
			return nil, withDetail(ErrInvalidTieBreaker, "%q", c)
		}
	}

	pool := &models.Pool{
		EventID:           input.EventID,
		Name:              input.Name,
		MaxAthletes:       input.MaxAthletes,
		MatchesPerAthlete: input.MatchesPerAthlete,
		PointsForWin:      intOr(input.PointsForWin, models.DefaultPointsForWin),
		PointsForDraw:     intOr(input.PointsForDraw, models.DefaultPointsForDraw),
		PointsForLoss:     intOr(input.PointsForLoss, models.DefaultPointsForLoss),
		QualifyingPlaces:  intOr(input.QualifyingPlaces, models.DefaultQualifyingPlaces),
		TieBreakers:       tieBreakers,
	}

	if _, err := s.repos.Events.GetByID(ctx, nil, input.EventID); err != nil {
		return nil, handleRepositoryError(err, "get event")
	}
	if err := s.repos.Pools.Create(ctx, nil, pool); err != nil {
		return nil, handleRepositoryError(err, "create pool")
	}
	s.logger.InfoContext(ctx, "Pool created", slog.Int("pool_id", pool.ID), slog.Int("event_id", pool.EventID))
	return pool, nil
}

func (s *poolService) GetPool(ctx context.Context, poolID int) (*models.Pool, error) {
	pool, err := s.repos.Pools.GetByID(ctx, nil, poolID)
	if err != nil {
		return nil, handleRepositoryError(err, "get pool")
	}
	return pool, nil
}

// AddCompetitor adds a member and its zeroed standing row together.
func (s *poolService) AddCompetitor(ctx context.Context, poolID, competitorID int) (*models.PoolCompetitor, error) {
	pc := &models.PoolCompetitor{PoolID: poolID, CompetitorID: competitorID}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		pool, err := s.repos.Pools.LockByID(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "lock pool")
		}
		competitor, err := s.repos.Competitors.GetByID(ctx, exec, competitorID)
		if err != nil {
			return handleRepositoryError(err, "get competitor")
		}
		if competitor.EventID != pool.EventID {
			return withDetail(ErrCompetitorNotInEvent, "competitor %d, event %d", competitorID, pool.EventID)
		}

		members, err := s.repos.Pools.ListCompetitorIDs(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "list pool competitors")
		}
		for _, id := range members {
			if id == competitorID {
				return withDetail(ErrPoolCompetitorExists, "competitor %d, pool %d", competitorID, poolID)
			}
		}
		if len(members) >= pool.MaxAthletes {
			return withDetail(ErrPoolFull, "pool %d holds %d athletes", poolID, pool.MaxAthletes)
		}

		if err := s.repos.Pools.AddCompetitor(ctx, exec, pc); err != nil {
			return handleRepositoryError(err, "add pool competitor")
		}
		if err := s.standings.Create(ctx, exec, &models.PoolStanding{PoolID: poolID, CompetitorID: competitorID}); err != nil {
			return handleRepositoryError(err, "create pool standing")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Competitor added to pool", slog.Int("pool_id", poolID), slog.Int("competitor_id", competitorID))
	return pc, nil
}

// RemoveCompetitor drops a member who has not fought yet, together with their scheduled pool matches.
func (s *poolService) RemoveCompetitor(ctx context.Context, poolID, competitorID int) error {
	removed := 0
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.repos.Pools.LockByID(ctx, exec, poolID); err != nil {
			return handleRepositoryError(err, "lock pool")
		}
		members, err := s.repos.Pools.ListCompetitorIDs(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "list pool competitors")
		}
		member := false
		for _, id := range members {
			if id == competitorID {
				member = true
				break
			}
		}
		if !member {
			return withDetail(ErrPoolCompetitorNotFound, "competitor %d, pool %d", competitorID, poolID)
		}

		matches, err := s.repos.Pools.ListMatches(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "list pool matches")
		}
		scheduled := make([]int, 0)
		for _, m := range matches {
			if m.Side(competitorID) == "" {
				continue
			}
			switch m.ScheduleStatus {
			case models.ScheduleRunning, models.ScheduleFinished:
				return withDetail(ErrCompetitorHasPoolMatches, "match %d is %s", m.ID, m.ScheduleStatus)
			case models.ScheduleScheduled:
				scheduled = append(scheduled, m.ID)
			}
		}

		for _, matchID := range scheduled {
			if err := deleteMatchCascade(ctx, exec, s.repos, matchID); err != nil {
				return err
			}
		}
		removed = len(scheduled)

		if err := s.standings.Delete(ctx, exec, poolID, competitorID); err != nil {
			return handleRepositoryError(err, "delete pool standing")
		}
		if err := s.repos.Pools.RemoveCompetitor(ctx, exec, poolID, competitorID); err != nil {
			return handleRepositoryError(err, "remove pool competitor")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Competitor removed from pool",
		slog.Int("pool_id", poolID), slog.Int("competitor_id", competitorID), slog.Int("matches_removed", removed))
	return nil
}

// GeneratePoolMatches creates the round robin fixtures of a pool. It refuses to run twice.
func (s *poolService) GeneratePoolMatches(ctx context.Context, poolID int, input GeneratePoolMatchesInput) ([]*models.Match, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	created := make([]*models.Match, 0)
	var eventID int
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		pool, err := s.repos.Pools.LockByID(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "lock pool")
		}
		eventID = pool.EventID

		session, err := s.repos.Events.GetSession(ctx, exec, input.SessionID)
		if err != nil {
			return handleRepositoryError(err, "get session")
		}
		if session.EventID != pool.EventID {
			return withDetail(ErrSessionNotInEvent, "session %d, event %d", session.ID, pool.EventID)
		}

		existing, err := s.repos.Pools.CountPoolMatches(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "count pool matches")
		}
		if existing > 0 {
			return withDetail(ErrPoolMatchesExist, "pool %d has %d matches", poolID, existing)
		}

		event, err := s.repos.Events.GetByID(ctx, exec, pool.EventID)
		if err != nil {
			return handleRepositoryError(err, "get event")
		}
		ids, err := s.repos.Pools.ListCompetitorIDs(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "list pool competitors")
		}
		competitors := make([]*models.Competitor, 0, len(ids))
		for _, id := range ids {
			competitors = append(competitors, &models.Competitor{ID: id, EventID: pool.EventID})
		}

		fixtures, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
			Event:       event,
			Competitors: competitors,
			Pool:        pool,
		})
		if err != nil {
			return mapGeneratorError(err)
		}

		sessionID := session.ID
		for _, f := range fixtures {
			m := &models.Match{
				EventID:           pool.EventID,
				SessionID:         &sessionID,
				Mat:               input.Mat,
				Number:            f.Number,
				Phase:             f.Phase,
				PositionReference: f.UID,
				HomeCompetitorID:  f.HomeCompetitorID,
				AwayCompetitorID:  f.AwayCompetitorID,
				ScheduleStatus:    models.ScheduleScheduled,
				ResultStatus:      models.ResultUnconfirmed,
			}
			if err := s.repos.Matches.Create(ctx, exec, m); err != nil {
				return handleRepositoryError(err, "create pool match "+f.UID)
			}
			cfg := models.DefaultMatchConfiguration(event.Discipline, event.Division)
			cfg.MatchID = m.ID
			if err := s.repos.Matches.CreateConfiguration(ctx, exec, &cfg); err != nil {
				return handleRepositoryError(err, fmt.Sprintf("create configuration for match %d", m.ID))
			}
			m.Configuration = &cfg
			link := &models.PoolMatch{PoolID: poolID, MatchID: m.ID, MatchOrder: f.OrderInRound}
			if err := s.repos.Pools.CreatePoolMatch(ctx, exec, link); err != nil {
				return handleRepositoryError(err, "link pool match")
			}
			created = append(created, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddMatchesGenerated("pool", len(created))
	s.logger.InfoContext(ctx, "Pool matches generated", slog.Int("pool_id", poolID), slog.Int("matches", len(created)))
	s.notifier.Notify(EventRoom(eventID), MsgBracketGenerated, created)
	return created, nil
}

func (s *poolService) ListPoolMatches(ctx context.Context, poolID int) ([]*models.Match, error) {
	if _, err := s.repos.Pools.GetByID(ctx, nil, poolID); err != nil {
		return nil, handleRepositoryError(err, "get pool")
	}
	matches, err := s.repos.Pools.ListMatches(ctx, nil, poolID)
	if err != nil {
		return nil, handleRepositoryError(err, "list pool matches")
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

// RecomputeStandings rebuilds the pool table from finished matches and their latest official result.
// Running it again without new results writes the same rows.
func (s *poolService) RecomputeStandings(ctx context.Context, poolID int) ([]*models.PoolStanding, error) {
	var (
		standings []*models.PoolStanding
		eventID   int
	)
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		pool, err := s.repos.Pools.LockByID(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "lock pool")
		}
		eventID = pool.EventID

		ids, err := s.repos.Pools.ListCompetitorIDs(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "list pool competitors")
		}
		matches, err := s.repos.Pools.ListMatches(ctx, exec, poolID)
		if err != nil {
			return handleRepositoryError(err, "list pool matches")
		}

		finished := make(map[int]*models.Match)
		matchIDs := make([]int, 0, len(matches))
		for _, m := range matches {
			if m.ScheduleStatus != models.ScheduleFinished || m.HomeCompetitorID == nil || m.AwayCompetitorID == nil {
				continue
			}
			finished[m.ID] = m
			matchIDs = append(matchIDs, m.ID)
		}

		outcomes := make([]brackets.MatchOutcome, 0, len(matchIDs))
		if len(matchIDs) > 0 {
			results, err := s.repos.Results.ListByMatches(ctx, exec, matchIDs)
			if err != nil {
				return handleRepositoryError(err, "list pool results")
			}
			outcomes = latestOfficialOutcomes(finished, matchIDs, results)
		}

		standings, err = brackets.ComputeStandings(pool, ids, outcomes)
		if err != nil {
			return withDetail(ErrInvalidTieBreaker, "%v", err)
		}
		if err := s.standings.BatchUpsert(ctx, exec, standings); err != nil {
			return handleRepositoryError(err, "save pool standings")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Pool standings recomputed", slog.Int("pool_id", poolID), slog.Int("rows", len(standings)))
	s.notifier.Notify(PoolRoom(poolID), MsgStandingsUpdated, standings)
	s.notifier.Notify(EventRoom(eventID), MsgStandingsUpdated, standings)
	return standings, nil
}

// latestOfficialOutcomes picks, per match, the OFFICIAL result with the highest position.
// Finished matches without an official result are skipped.
func latestOfficialOutcomes(matches map[int]*models.Match, order []int, results []models.MatchResult) []brackets.MatchOutcome {
	latest := make(map[int]models.MatchResult)
	for _, r := range results {
		if r.Status != models.ResultOfficial {
			continue
		}
		if cur, ok := latest[r.MatchID]; !ok || r.Position > cur.Position {
			latest[r.MatchID] = r
		}
	}

	outcomes := make([]brackets.MatchOutcome, 0, len(latest))
	for _, id := range order {
		r, ok := latest[id]
		if !ok {
			continue
		}
		m := matches[id]
		outcomes = append(outcomes, brackets.MatchOutcome{
			MatchID:          id,
			HomeCompetitorID: *m.HomeCompetitorID,
			AwayCompetitorID: *m.AwayCompetitorID,
			HomeScore:        r.HomeScore,
			AwayScore:        r.AwayScore,
		})
	}
	return outcomes
}

func (s *poolService) GetStandings(ctx context.Context, poolID int) ([]*models.PoolStanding, error) {
	if _, err := s.repos.Pools.GetByID(ctx, nil, poolID); err != nil {
		return nil, handleRepositoryError(err, "get pool")
	}
	standings, err := s.standings.ListByPool(ctx, nil, poolID)
	if err != nil {
		return nil, handleRepositoryError(err, "list pool standings")
	}
	if standings == nil {
		return []*models.PoolStanding{}, nil
	}
	return standings, nil
}
