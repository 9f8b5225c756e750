package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tkd-competition/metrics"
	"github.com/Dosada05/tkd-competition/models"
	"github.com/Dosada05/tkd-competition/services"
	"github.com/Dosada05/tkd-competition/storage"
)

// MatchCommands is the part of services.MatchService the ingest drives.
type MatchCommands interface {
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	RecordAction(ctx context.Context, matchID int, input services.ActionInput) (*models.MatchAction, error)
	SubmitResult(ctx context.Context, matchID int, input services.ResultInput) (*models.MatchResult, error)
	GetConfiguration(ctx context.Context, matchID int) (*models.MatchConfiguration, error)
	UpsertConfiguration(ctx context.Context, matchID int, cfg models.MatchConfiguration) (*models.MatchConfiguration, error)
}

type Archiver interface {
	Archive(ctx context.Context, reason string, raw []byte, binary bool) (*storage.UploadResult, error)
}

// Configuration pushed by the device always runs under WT competition rules.
const (
	deviceVideoReplayQuota = 1
	deviceMaxDifference    = 12
	deviceMaxPenalties     = 5
)

// Ingestor turns PSS frames into match commands. Every failure is logged and counted here;
// the returned error is informational and is never sent back to the device.
type Ingestor struct {
	matches  MatchCommands
	archiver Archiver
	metrics  metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewIngestor builds an ingestor. archiver may be nil, rejected frames are then only logged.
func NewIngestor(matches MatchCommands, archiver Archiver, m metrics.Metrics, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		matches:  matches,
		archiver: archiver,
		metrics:  m,
		logger:   logger.With(slog.String("component", "pss_ingest")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes one raw frame. Duplicates are not errors.
func (in *Ingestor) Handle(ctx context.Context, raw []byte, binary bool) error {
	start := time.Now()
	defer func() { in.metrics.ObserveIngestDuration(time.Since(start).Seconds()) }()

	frame, err := Decode(raw, binary)
	if err != nil {
		in.metrics.IncIngestErrors("decode")
		in.logger.ErrorContext(ctx, "Rejected PSS frame", slog.Any("error", err), slog.String("raw", rawForLog(raw, binary)))
		in.archive(ctx, "malformed", raw, binary)
		return err
	}

	err = in.dispatch(ctx, frame)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrDuplicateAction):
		// Повторная доставка: сервис уже посчитал и залогировал дубликат.
		return nil
	case errors.Is(err, ErrUnmappedAction):
		in.metrics.IncUnmappedActions()
		in.metrics.IncIngestErrors(string(frame.Event))
		in.logger.ErrorContext(ctx, "PSS action has no mapping",
			slog.Any("error", err), slog.String("raw", rawForLog(raw, binary)))
		in.archive(ctx, "unmapped", raw, binary)
		return err
	default:
		in.metrics.IncIngestErrors(string(frame.Event))
		in.logger.ErrorContext(ctx, "Failed to process PSS frame",
			slog.String("event", string(frame.Event)),
			slog.Int("match_id", int(frame.Payload.header().MatchID)),
			slog.Any("error", err))
		return err
	}
}

func (in *Ingestor) dispatch(ctx context.Context, f *Frame) error {
	switch p := f.Payload.(type) {
	case *StartData:
		return in.handleStart(ctx, p)
	case *StopData:
		return in.handleStop(ctx, p)
	case *ActionData:
		return in.handleAction(ctx, p)
	case *ConfigData:
		return in.handleConfig(ctx, p)
	}
	return fmt.Errorf("%w: unexpected payload %T", ErrMalformedFrame, f.Payload)
}

func (in *Ingestor) handleStart(ctx context.Context, p *StartData) error {
	ts, err := p.Time(in.now())
	if err != nil {
		return err
	}
	_, err = in.matches.RecordAction(ctx, int(p.MatchID), services.ActionInput{
		Action:    models.ActionMatchStart,
		Source:    models.SourceCR,
		Timestamp: ts,
	})
	if err != nil {
		return err
	}
	in.logger.InfoContext(ctx, "Match started by PSS", slog.Int("match_id", int(p.MatchID)))
	return nil
}

// handleStop ends the match. Final scores in the frame are kept as an UNOFFICIAL result;
// only an operator makes it official.
func (in *Ingestor) handleStop(ctx context.Context, p *StopData) error {
	ts, err := p.Time(in.now())
	if err != nil {
		return err
	}
	matchID := int(p.MatchID)
	if _, err := in.matches.RecordAction(ctx, matchID, services.ActionInput{
		Action:    models.ActionMatchEnd,
		Source:    models.SourceCR,
		Timestamp: ts,
	}); err != nil {
		return err
	}
	in.logger.InfoContext(ctx, "Match stopped by PSS", slog.Int("match_id", matchID))

	if p.HomeScore == nil || p.AwayScore == nil {
		return nil
	}
	decision := models.VictoryFinalScore
	if p.Decision != nil && models.VictoryType(*p.Decision).IsValid() {
		decision = models.VictoryType(*p.Decision)
	}
	_, err = in.matches.SubmitResult(ctx, matchID, services.ResultInput{
		Status:    models.ResultUnofficial,
		Decision:  decision,
		HomeScore: *p.HomeScore,
		AwayScore: *p.AwayScore,
		Timestamp: ts,
	})
	return err
}

func (in *Ingestor) handleAction(ctx context.Context, p *ActionData) error {
	ts, err := p.Time(in.now())
	if err != nil {
		return err
	}
	matchID := int(p.MatchID)
	match, err := in.matches.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	competitorID := int(p.CompetitorID)
	side := match.Side(competitorID)
	if side == "" {
		return fmt.Errorf("%w: competitor %d, match %d", services.ErrCompetitorNotInMatch, competitorID, matchID)
	}

	action, fallback, err := MapAction(p.ActionType, side, p.Points)
	if err != nil {
		return err
	}
	if fallback {
		in.logger.WarnContext(ctx, "Unknown PSS action, recorded as ADJUST_SCORE",
			slog.String("code", string(p.ActionType)), slog.Int("match_id", matchID))
	}

	d := ActionDelta(p.ActionType, side, p.Points)
	_, err = in.matches.RecordAction(ctx, matchID, services.ActionInput{
		Action:        action,
		HitLevel:      p.HitLevel,
		Round:         p.RoundNumber,
		RoundTime:     p.RoundTime,
		HomeScore:     d.HomeScore,
		AwayScore:     d.AwayScore,
		HomePenalties: d.HomePenalties,
		AwayPenalties: d.AwayPenalties,
		Source:        models.SourceCR,
		CompetitorID:  &competitorID,
		Timestamp:     ts,
	})
	return err
}

func (in *Ingestor) handleConfig(ctx context.Context, p *ConfigData) error {
	matchID := int(p.MatchID)
	cfg, err := in.matches.GetConfiguration(ctx, matchID)
	if err != nil {
		if !errors.Is(err, services.ErrConfigurationNotFound) {
			return err
		}
		cfg = &models.MatchConfiguration{}
	}

	next := *cfg
	next.Rules = models.RulesWTCompetition
	next.Rounds = p.NumberOfRounds
	next.RoundTime = clock(p.RoundDuration)
	next.RestTime = clock(p.BreakDuration)
	next.InjuryTime = clock(p.KyeShiDuration)
	next.GoldenPointEnabled = p.GoldenPointEnabled != nil && *p.GoldenPointEnabled
	next.GoldenPointTime = nil
	if p.GoldenPointDuration != nil {
		gp := clock(*p.GoldenPointDuration)
		next.GoldenPointTime = &gp
	}
	if v, ok := p.SensorThresholds["body"]; ok {
		next.BodyThreshold = v
	}
	if v, ok := p.SensorThresholds["head"]; ok {
		next.HeadThreshold = v
	}
	next.HomeVideoReplayQuota = deviceVideoReplayQuota
	next.AwayVideoReplayQuota = deviceVideoReplayQuota
	next.MaxDifference = deviceMaxDifference
	next.MaxPenalties = deviceMaxPenalties

	if _, err := in.matches.UpsertConfiguration(ctx, matchID, next); err != nil {
		return err
	}
	in.logger.InfoContext(ctx, "Match configuration received from PSS", slog.Int("match_id", matchID))
	return nil
}

func (in *Ingestor) archive(ctx context.Context, reason string, raw []byte, binary bool) {
	if in.archiver == nil {
		return
	}
	res, err := in.archiver.Archive(ctx, reason, raw, binary)
	if err != nil {
		in.logger.ErrorContext(ctx, "Failed to archive rejected PSS frame", slog.Any("error", err))
		return
	}
	in.logger.InfoContext(ctx, "Rejected PSS frame archived", slog.String("key", res.Key))
}

// clock formats seconds as mm:ss.
func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func rawForLog(raw []byte, binary bool) string {
	if binary {
		return fmt.Sprintf("%x", raw)
	}
	return string(raw)
}
