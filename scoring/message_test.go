package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSONAction(t *testing.T) {
	raw := []byte(`{"event":"match:action","data":{"matchId":"12","timestamp":"2026-05-17T10:00:01.250Z",
		"actionType":"kick","competitorId":7,"roundNumber":2,"points":2}}`)

	f, err := Decode(raw, false)
	require.NoError(t, err)
	assert.Equal(t, EventMatchAction, f.Event)

	a, ok := f.Payload.(*ActionData)
	require.True(t, ok)
	assert.Equal(t, ID(12), a.MatchID)
	assert.Equal(t, ID(7), a.CompetitorID)
	assert.Equal(t, CodeKick, a.ActionType)
	assert.Equal(t, 2, a.RoundNumber)
	require.NotNil(t, a.Points)
	assert.Equal(t, 2, *a.Points)

	ts, err := a.Time(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 17, 10, 0, 1, 250_000_000, time.UTC), ts)
}

func TestDecode_MsgpackConfig(t *testing.T) {
	raw, err := EncodeMsgpack(EventMatchConfig, map[string]interface{}{
		"matchId":          "3",
		"roundDuration":    120,
		"numberOfRounds":   3,
		"breakDuration":    60,
		"kyeShiDuration":   60,
		"sensorThresholds": map[string]int{"body": 22, "head": 11},
	})
	require.NoError(t, err)

	f, err := Decode(raw, true)
	require.NoError(t, err)
	c, ok := f.Payload.(*ConfigData)
	require.True(t, ok)
	assert.Equal(t, ID(3), c.MatchID)
	assert.Equal(t, 120, c.RoundDuration)
	assert.Equal(t, 22, c.SensorThresholds["body"])
	assert.Nil(t, c.GoldenPointEnabled)
}

func TestDecode_MsgpackStopWithNumericID(t *testing.T) {
	raw, err := EncodeMsgpack(EventMatchStop, map[string]interface{}{"matchId": 9, "homeScore": 12, "awayScore": 4})
	require.NoError(t, err)

	f, err := Decode(raw, true)
	require.NoError(t, err)
	s := f.Payload.(*StopData)
	assert.Equal(t, ID(9), s.MatchID)
	require.NotNil(t, s.HomeScore)
	assert.Equal(t, 12, *s.HomeScore)
}

func TestDecode_Rejects(t *testing.T) {
	tests := map[string]string{
		"not json":          `{"event":`,
		"unknown event":     `{"event":"match:pause","data":{"matchId":1}}`,
		"missing data":      `{"event":"match:start"}`,
		"missing match id":  `{"event":"match:start","data":{}}`,
		"bad match id":      `{"event":"match:start","data":{"matchId":"abc"}}`,
		"action no code":    `{"event":"match:action","data":{"matchId":1,"competitorId":2}}`,
		"action no athlete": `{"event":"match:action","data":{"matchId":1,"actionType":"kick"}}`,
		"config no rounds":  `{"event":"match:config","data":{"matchId":1,"roundDuration":120}}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(raw), false)
			assert.ErrorIs(t, err, ErrMalformedFrame)
		})
	}
}

func TestHeader_Time(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := Header{}.Time(now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	_, err = Header{Timestamp: "yesterday"}.Time(now)
	assert.ErrorIs(t, err, ErrMalformedFrame)
}
