package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tkd-competition/models"
)

func TestMapAction(t *testing.T) {
	five := 5
	tests := []struct {
		name     string
		code     PssCode
		side     string
		points   *int
		want     models.ActionType
		fallback bool
		err      error
	}{
		{"home punch", CodePunch, models.SideHome, nil, models.ActionScoreHomePunch, false, nil},
		{"away punch", CodePunch, models.SideAway, nil, models.ActionScoreAwayPunch, false, nil},
		{"home kick", CodeKick, models.SideHome, nil, models.ActionScoreHomeKick, false, nil},
		{"away head", CodeHead, models.SideAway, nil, models.ActionScoreAwayHead, false, nil},
		{"home turning kick", CodeTKick, models.SideHome, nil, models.ActionScoreHomeTKick, false, nil},
		{"away turning head", CodeTHead, models.SideAway, nil, models.ActionScoreAwayTHead, false, nil},
		{"home gamjeom", CodeGamjeom, models.SideHome, nil, models.ActionPenaltyHome, false, nil},
		{"away gamjeom", CodeGamjeom, models.SideAway, nil, models.ActionPenaltyAway, false, nil},
		{"unknown code with points", "spin", models.SideHome, &five, models.ActionAdjustScore, true, nil},
		{"unknown code without points", "spin", models.SideAway, nil, "", false, ErrUnmappedAction},
		{"bad side", CodePunch, "RED", nil, "", false, ErrUnknownSide},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback, err := MapAction(tt.code, tt.side, tt.points)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.fallback, fallback)
			assert.True(t, got.IsValid())
		})
	}
}

func TestActionDelta(t *testing.T) {
	three := 3
	assert.Equal(t, Delta{HomeScore: 2}, ActionDelta(CodeKick, models.SideHome, nil))
	assert.Equal(t, Delta{AwayScore: 5}, ActionDelta(CodeTHead, models.SideAway, nil))
	assert.Equal(t, Delta{HomeScore: 3}, ActionDelta(CodePunch, models.SideHome, &three), "device points override the table")
	assert.Equal(t, Delta{HomePenalties: 1, AwayScore: 1}, ActionDelta(CodeGamjeom, models.SideHome, nil))
	assert.Equal(t, Delta{AwayPenalties: 1, HomeScore: 1}, ActionDelta(CodeGamjeom, models.SideAway, &three))
	assert.Equal(t, Delta{AwayScore: 3}, ActionDelta("spin", models.SideAway, &three))
}
