package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/tkd-competition/models"
	"github.com/Dosada05/tkd-competition/repositories"
)

type CreateEventInput struct {
	Name       string            `json:"name" validate:"required,max=150"`
	Discipline models.Discipline `json:"discipline" validate:"required,oneof=TKW_K TKW_P TKW_F"`
	Division   models.Division   `json:"division" validate:"required,oneof=SENIORS JUNIORS CADETS KIDS OLYMPIC"`
	Gender     *string           `json:"gender,omitempty" validate:"omitempty,oneof=M F X"`
}

type CreateSessionInput struct {
	Name     string     `json:"name" validate:"required,max=100"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
}

type CreateCompetitorInput struct {
	Name      string  `json:"name" validate:"required,max=150"`
	PrintName *string `json:"print_name,omitempty" validate:"omitempty,max=150"`
	ShortName *string `json:"short_name,omitempty" validate:"omitempty,max=50"`
	Country   string  `json:"country" validate:"required,len=3,alpha"`
	Seed      *int    `json:"seed,omitempty" validate:"omitempty,gte=1"`
	Rank      *int    `json:"rank,omitempty" validate:"omitempty,gte=1"`
}

type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)
	GetEvent(ctx context.Context, eventID int) (*models.Event, error)
	ListEvents(ctx context.Context) ([]*models.Event, error)

	CreateSession(ctx context.Context, eventID int, input CreateSessionInput) (*models.Session, error)

	AddCompetitor(ctx context.Context, eventID int, input CreateCompetitorInput) (*models.Competitor, error)
	ListCompetitors(ctx context.Context, eventID int) ([]*models.Competitor, error)
	SetSeed(ctx context.Context, eventID, competitorID int, seed *int) error
}

type eventService struct {
	eventRepo      repositories.EventRepository
	competitorRepo repositories.CompetitorRepository
	logger         *slog.Logger
}

func NewEventService(eventRepo repositories.EventRepository, competitorRepo repositories.CompetitorRepository, logger *slog.Logger) EventService {
	return &eventService{
		eventRepo:      eventRepo,
		competitorRepo: competitorRepo,
		logger:         logger,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	event := &models.Event{
		Name:       input.Name,
		Discipline: input.Discipline,
		Division:   input.Division,
		Gender:     input.Gender,
	}
	if err := s.eventRepo.Create(ctx, nil, event); err != nil {
		return nil, handleRepositoryError(err, "create event")
	}
	s.logger.InfoContext(ctx, "Event created", slog.Int("event_id", event.ID), slog.String("name", event.Name))
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, nil, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "get event")
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "list events")
	}
	if events == nil {
		return []*models.Event{}, nil
	}
	return events, nil
}

func (s *eventService) CreateSession(ctx context.Context, eventID int, input CreateSessionInput) (*models.Session, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, nil, eventID); err != nil {
		return nil, handleRepositoryError(err, "get event")
	}
	session := &models.Session{EventID: eventID, Name: input.Name, StartsAt: input.StartsAt}
	if err := s.eventRepo.CreateSession(ctx, nil, session); err != nil {
		return nil, handleRepositoryError(err, "create session")
	}
	return session, nil
}

func (s *eventService) AddCompetitor(ctx context.Context, eventID int, input CreateCompetitorInput) (*models.Competitor, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, nil, eventID); err != nil {
		return nil, handleRepositoryError(err, "get event")
	}
	competitor := &models.Competitor{
		EventID:   eventID,
		Name:      input.Name,
		PrintName: input.PrintName,
		ShortName: input.ShortName,
		Country:   input.Country,
		Seed:      input.Seed,
		Rank:      input.Rank,
	}
	if err := s.competitorRepo.Create(ctx, nil, competitor); err != nil {
		return nil, handleRepositoryError(err, "create competitor")
	}
	return competitor, nil
}

func (s *eventService) ListCompetitors(ctx context.Context, eventID int) ([]*models.Competitor, error) {
	if _, err := s.eventRepo.GetByID(ctx, nil, eventID); err != nil {
		return nil, handleRepositoryError(err, "get event")
	}
	competitors, err := s.competitorRepo.ListByEvent(ctx, nil, eventID)
	if err != nil {
		return nil, handleRepositoryError(err, "list competitors")
	}
	if competitors == nil {
		return []*models.Competitor{}, nil
	}
	return competitors, nil
}

func (s *eventService) SetSeed(ctx context.Context, eventID, competitorID int, seed *int) error {
	if seed != nil && *seed < 1 {
		return withDetail(ErrValidationFailed, "seed must be positive")
	}
	competitor, err := s.competitorRepo.GetByID(ctx, nil, competitorID)
	if err != nil {
		return handleRepositoryError(err, "get competitor")
	}
	if competitor.EventID != eventID {
		return withDetail(ErrCompetitorNotInEvent, "competitor %d, event %d", competitorID, eventID)
	}
	if err := s.competitorRepo.UpdateSeed(ctx, nil, competitorID, seed); err != nil {
		return handleRepositoryError(err, "update seed")
	}
	return nil
}
