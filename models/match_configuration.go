package models

type MatchRules string

const (
	RulesConventional  MatchRules = "CONVENTIONAL"
	RulesBestOf3       MatchRules = "BESTOF3"
	RulesWTCompetition MatchRules = "WT_COMPETITION"
)

func (r MatchRules) IsValid() bool {
	return r == RulesConventional || r == RulesBestOf3 || r == RulesWTCompetition
}

type MatchConfiguration struct {
	ID                   int        `json:"id" db:"id"`
	MatchID              int        `json:"match_id" db:"match_id"`
	Rules                MatchRules `json:"rules" db:"rules"`
	Rounds               int        `json:"rounds" db:"rounds"`
	RoundTime            string     `json:"round_time" db:"round_time"`
	RestTime             string     `json:"rest_time" db:"rest_time"`
	InjuryTime           string     `json:"injury_time" db:"injury_time"`
	BodyThreshold        int        `json:"body_threshold" db:"body_threshold"`
	HeadThreshold        int        `json:"head_threshold" db:"head_threshold"`
	HomeVideoReplayQuota int        `json:"home_video_replay_quota" db:"home_video_replay_quota"`
	AwayVideoReplayQuota int        `json:"away_video_replay_quota" db:"away_video_replay_quota"`
	GoldenPointEnabled   bool       `json:"golden_point_enabled" db:"golden_point_enabled"`
	GoldenPointTime      *string    `json:"golden_point_time,omitempty" db:"golden_point_time"`
	MaxDifference        int        `json:"max_difference" db:"max_difference"`
	MaxPenalties         int        `json:"max_penalties" db:"max_penalties"`
}

// DefaultMatchConfiguration returns the configuration a newly generated match starts with.
// Kyorugi events use conventional rules, every other discipline plays best of three.
func DefaultMatchConfiguration(discipline Discipline, division Division) MatchConfiguration {
	goldenPoint := "01:00"
	cfg := MatchConfiguration{
		Rules:                RulesBestOf3,
		Rounds:               3,
		RoundTime:            "02:00",
		RestTime:             "01:00",
		InjuryTime:           "01:00",
		BodyThreshold:        20,
		HeadThreshold:        10,
		HomeVideoReplayQuota: 1,
		AwayVideoReplayQuota: 1,
		GoldenPointEnabled:   true,
		GoldenPointTime:      &goldenPoint,
		MaxDifference:        20,
		MaxPenalties:         10,
	}
	if discipline == DisciplineKyorugi {
		cfg.Rules = RulesConventional
	}

	switch division {
	case DivisionJuniors:
		cfg.RoundTime = "01:30"
	case DivisionCadets:
		cfg.RoundTime = "01:30"
		cfg.Rounds = 3
	case DivisionKids:
		cfg.RoundTime = "01:00"
		cfg.Rounds = 2
	case DivisionOlympic:
		cfg.HomeVideoReplayQuota = 2
		cfg.AwayVideoReplayQuota = 2
	}
	return cfg
}
