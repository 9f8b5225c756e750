package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tkd-competition/models"
	"github.com/Dosada05/tkd-competition/repositories"
)

func TestAggregateMedals_Ordering(t *testing.T) {
	medals := []repositories.CountryMedal{
		{Country: "USA", MedalType: models.MedalSilver},
		{Country: "KOR", MedalType: models.MedalGold},
		{Country: "GBR", MedalType: models.MedalBronze},
		{Country: "ESP", MedalType: models.MedalSilver},
		{Country: "USA", MedalType: models.MedalBronze},
		{Country: "CHN", MedalType: models.MedalGold},
		{Country: "CHN", MedalType: models.MedalBronze},
		{Country: "MEX", MedalType: "PARTICIPATION"},
	}

	got := aggregateMedals(medals)
	require.Len(t, got, 6)

	countries := make([]string, 0, len(got))
	for _, st := range got {
		countries = append(countries, st.Country)
	}
	assert.Equal(t, []string{"CHN", "KOR", "USA", "ESP", "GBR", "MEX"}, countries)

	assert.Equal(t, models.MedalStanding{Country: "CHN", Gold: 1, Bronze: 1, Total: 2}, got[0])
	assert.Equal(t, models.MedalStanding{Country: "USA", Silver: 1, Bronze: 1, Total: 2}, got[2])
	assert.Zero(t, got[5].Total, "unknown medal types are not counted")
}

func TestAggregateMedals_Empty(t *testing.T) {
	got := aggregateMedals(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMedalService_Finalize(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	event := env.seedEvent(models.DisciplineKyorugi, models.DivisionSeniors)
	a := env.seedCompetitor(event.ID, "A", "KOR", nil)
	b := env.seedCompetitor(event.ID, "B", "USA", nil)
	final := env.seedMatch(event.ID, models.PhaseFinal, a.ID, b.ID)

	unofficial := &models.MatchResult{MatchID: final.ID, Status: models.ResultUnofficial, WinnerID: &a.ID, LoserID: &b.ID}
	medals, err := env.medalSvc.Finalize(ctx, nil, final, unofficial)
	require.NoError(t, err)
	assert.Empty(t, medals)

	official := &models.MatchResult{MatchID: final.ID, Status: models.ResultOfficial, WinnerID: &a.ID, LoserID: &b.ID}
	medals, err = env.medalSvc.Finalize(ctx, nil, final, official)
	require.NoError(t, err)
	require.Len(t, medals, 2)
	assert.Equal(t, models.MedalGold, medals[0].MedalType)
	assert.Equal(t, a.ID, medals[0].CompetitorID)
	assert.Equal(t, models.MedalSilver, medals[1].MedalType)
	assert.Equal(t, 2, medals[1].Position)

	again, err := env.medalSvc.Finalize(ctx, nil, final, official)
	require.NoError(t, err)
	assert.Empty(t, again, "a competitor holds at most one medal")

	draw := &models.MatchResult{MatchID: final.ID, Status: models.ResultOfficial}
	none, err := env.medalSvc.Finalize(ctx, nil, final, draw)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMedalService_ListAndStandings(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	first := env.seedEvent(models.DisciplineKyorugi, models.DivisionSeniors)
	second := env.seedEvent(models.DisciplineKyorugi, models.DivisionJuniors)

	award := func(eventID int, country string, medal models.MedalType, pos int) {
		c := env.seedCompetitor(eventID, country+" athlete", country, nil)
		_, err := env.medals.CreateIfAbsent(ctx, nil, &models.MedalWinner{EventID: eventID, CompetitorID: c.ID, MedalType: medal, Position: pos})
		require.NoError(t, err)
	}
	award(first.ID, "KOR", models.MedalGold, 1)
	award(first.ID, "IRN", models.MedalSilver, 2)
	award(first.ID, "TUR", models.MedalBronze, 3)
	award(second.ID, "IRN", models.MedalGold, 1)

	winners, err := env.medalSvc.ListMedalWinners(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, winners, 3)
	assert.Equal(t, models.MedalGold, winners[0].MedalType)

	_, err = env.medalSvc.ListMedalWinners(ctx, 404)
	assert.ErrorIs(t, err, ErrEventNotFound)

	all, err := env.medalSvc.MedalStandings(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "IRN", all[0].Country)
	assert.Equal(t, 2, all[0].Total)

	scoped, err := env.medalSvc.MedalStandings(ctx, []int{first.ID})
	require.NoError(t, err)
	require.Len(t, scoped, 3)
	assert.Equal(t, "KOR", scoped[0].Country)
	assert.Equal(t, "IRN", scoped[1].Country)
	assert.Equal(t, "TUR", scoped[2].Country)
}
