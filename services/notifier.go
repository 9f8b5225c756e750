package services

import "strconv"

// Telemetry message types.
const (
	MsgMatchUpdated     = "MATCH_UPDATED"
	MsgMatchAction      = "MATCH_ACTION"
	MsgStandingsUpdated = "STANDINGS_UPDATED"
	MsgMedalsUpdated    = "MEDALS_UPDATED"
	MsgBracketGenerated = "BRACKET_GENERATED"
)

// Notifier is the outgoing telemetry sink. realtime.Hub satisfies it.
type Notifier interface {
	Notify(roomID, msgType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, string, interface{}) {}

func MatchRoom(matchID int) string { return "match_" + strconv.Itoa(matchID) }
func EventRoom(eventID int) string { return "event_" + strconv.Itoa(eventID) }
func PoolRoom(poolID int) string { return "pool_" + strconv.Itoa(poolID) }
