package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tkd-competition/models"
)

func TestEventService_CreateEvent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	gender := "F"
	event, err := env.eventSvc.CreateEvent(ctx, CreateEventInput{
		Name: "F -49kg", Discipline: models.DisciplineKyorugi, Division: models.DivisionSeniors, Gender: &gender,
	})
	require.NoError(t, err)
	assert.NotZero(t, event.ID)

	got, err := env.eventSvc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "F -49kg", got.Name)

	_, err = env.eventSvc.CreateEvent(ctx, CreateEventInput{Name: "X", Discipline: "TKW_Z", Division: models.DivisionSeniors})
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad := "W"
	_, err = env.eventSvc.CreateEvent(ctx, CreateEventInput{Name: "X", Discipline: models.DisciplinePoomsae, Division: models.DivisionKids, Gender: &bad})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = env.eventSvc.GetEvent(ctx, 404)
	assert.ErrorIs(t, err, ErrEventNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	events, err := env.eventSvc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventService_Sessions(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	event := env.seedEvent(models.DisciplineKyorugi, models.DivisionSeniors)

	session, err := env.eventSvc.CreateSession(ctx, event.ID, CreateSessionInput{Name: "Finals block"})
	require.NoError(t, err)
	assert.Equal(t, event.ID, session.EventID)

	_, err = env.eventSvc.CreateSession(ctx, 404, CreateSessionInput{Name: "Nowhere"})
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = env.eventSvc.CreateSession(ctx, event.ID, CreateSessionInput{})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestEventService_Competitors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	event := env.seedEvent(models.DisciplineKyorugi, models.DivisionSeniors)

	seed := 1
	c, err := env.eventSvc.AddCompetitor(ctx, event.ID, CreateCompetitorInput{Name: "Lee Dae-hoon", Country: "KOR", Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, event.ID, c.EventID)

	for _, country := range []string{"KO", "K0R", ""} {
		_, err = env.eventSvc.AddCompetitor(ctx, event.ID, CreateCompetitorInput{Name: "Bad", Country: country})
		assert.ErrorIs(t, err, ErrValidationFailed, "country %q", country)
	}

	_, err = env.eventSvc.AddCompetitor(ctx, 404, CreateCompetitorInput{Name: "Ghost", Country: "USA"})
	assert.ErrorIs(t, err, ErrEventNotFound)

	list, err := env.eventSvc.ListCompetitors(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Lee Dae-hoon", list[0].Name)
}

func TestEventService_SetSeed(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	event := env.seedEvent(models.DisciplineKyorugi, models.DivisionSeniors)
	other := env.seedEvent(models.DisciplineKyorugi, models.DivisionSeniors)
	c := env.seedCompetitor(event.ID, "A", "KOR", nil)

	seed := 3
	require.NoError(t, env.eventSvc.SetSeed(ctx, event.ID, c.ID, &seed))
	stored, err := env.competitors.GetByID(ctx, nil, c.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Seed)
	assert.Equal(t, 3, *stored.Seed)

	require.NoError(t, env.eventSvc.SetSeed(ctx, event.ID, c.ID, nil))
	stored, _ = env.competitors.GetByID(ctx, nil, c.ID)
	assert.Nil(t, stored.Seed)

	zero := 0
	assert.ErrorIs(t, env.eventSvc.SetSeed(ctx, event.ID, c.ID, &zero), ErrValidationFailed)
	assert.ErrorIs(t, env.eventSvc.SetSeed(ctx, other.ID, c.ID, &seed), ErrCompetitorNotInEvent)
	assert.ErrorIs(t, env.eventSvc.SetSeed(ctx, event.ID, 999, &seed), ErrCompetitorNotFound)
}
