package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Dosada05/tkd-competition/models"
	"github.com/Dosada05/tkd-competition/repositories"
)

// ResultFinalizer turns official final and bronze-medal results into medals.
// It runs inside the caller's transaction.
type ResultFinalizer interface {
	Finalize(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, result *models.MatchResult) ([]*models.MedalWinner, error)
}

type MedalService interface {
	ResultFinalizer
	ListMedalWinners(ctx context.Context, eventID int) ([]*models.MedalWinner, error)
	MedalStandings(ctx context.Context, eventIDs []int) ([]models.MedalStanding, error)
}

type medalService struct {
	medalRepo repositories.MedalRepository
	eventRepo repositories.EventRepository
	logger    *slog.Logger
}

func NewMedalService(
	medalRepo repositories.MedalRepository,
	eventRepo repositories.EventRepository,
	logger *slog.Logger,
) MedalService {
	return &medalService{
		medalRepo: medalRepo,
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// Finalize returns only the medals written by this call; a competitor who already
// holds a medal keeps it.
func (s *medalService) Finalize(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, result *models.MatchResult) ([]*models.MedalWinner, error) {
	if result.Status != models.ResultOfficial {
		return nil, nil
	}

	var candidates []*models.MedalWinner
	switch match.Phase {
	case models.PhaseFinal:
		if result.WinnerID != nil {
			candidates = append(candidates, &models.MedalWinner{
				EventID: match.EventID, CompetitorID: *result.WinnerID, MedalType: models.MedalGold, Position: 1,
			})
		}
		if result.LoserID != nil {
			candidates = append(candidates, &models.MedalWinner{
				EventID: match.EventID, CompetitorID: *result.LoserID, MedalType: models.MedalSilver, Position: 2,
			})
		}
	case models.PhaseBronzeMedal:
		if result.WinnerID != nil {
			candidates = append(candidates, &models.MedalWinner{
				EventID: match.EventID, CompetitorID: *result.WinnerID, MedalType: models.MedalBronze, Position: 3,
			})
		}
	default:
		return nil, nil
	}

	if len(candidates) == 0 {
		s.logger.WarnContext(ctx, "Official medal match result has no winner, no medals awarded",
			slog.Int("match_id", match.ID), slog.String("phase", string(match.Phase)))
		return nil, nil
	}

	awarded := make([]*models.MedalWinner, 0, len(candidates))
	for _, medal := range candidates {
		created, err := s.medalRepo.CreateIfAbsent(ctx, exec, medal)
		if err != nil {
			return nil, handleRepositoryError(err, "award medal")
		}
		if !created {
			s.logger.InfoContext(ctx, "Competitor already holds a medal, skipping",
				slog.Int("competitor_id", medal.CompetitorID), slog.String("medal", string(medal.MedalType)))
			continue
		}
		awarded = append(awarded, medal)
	}
	return awarded, nil
}

func (s *medalService) ListMedalWinners(ctx context.Context, eventID int) ([]*models.MedalWinner, error) {
	if _, err := s.eventRepo.GetByID(ctx, nil, eventID); err != nil {
		return nil, handleRepositoryError(err, "get event")
	}
	winners, err := s.medalRepo.ListByEvent(ctx, nil, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "list medal winners")
	}
	if winners == nil {
		return []*models.MedalWinner{}, nil
	}
	return winners, nil
}

// MedalStandings aggregates medals per country over the given events, or over all events when none are given.
func (s *medalService) MedalStandings(ctx context.Context, eventIDs []int) ([]models.MedalStanding, error) {
	medals, err := s.medalRepo.ListCountryMedals(ctx, nil, eventIDs)
	if err != nil {
		return nil, handleRepositoryError(err, "list country medals")
	}
	return aggregateMedals(medals), nil
}

func aggregateMedals(medals []repositories.CountryMedal) []models.MedalStanding {
	byCountry := make(map[string]*models.MedalStanding)
	for _, m := range medals {
		st, ok := byCountry[m.Country]
		if !ok {
			st = &models.MedalStanding{Country: m.Country}
			byCountry[m.Country] = st
		}
		switch m.MedalType {
		case models.MedalGold:
			st.Gold++
		case models.MedalSilver:
			st.Silver++
		case models.MedalBronze:
			st.Bronze++
		default:
			continue
		}
		st.Total++
	}

	standings := make([]models.MedalStanding, 0, len(byCountry))
	for _, st := range byCountry {
		standings = append(standings, *st)
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		if a.Silver != b.Silver {
			return a.Silver > b.Silver
		}
		if a.Bronze != b.Bronze {
			return a.Bronze > b.Bronze
		}
		return a.Country < b.Country
	})
	return standings
}
