package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Dosada05/tkd-competition/metrics"
	"github.com/Dosada05/tkd-competition/models"
	"github.com/Dosada05/tkd-competition/repositories"
)

// In-memory doubles of the repositories. Reads hand out copies so that only
// explicit writes change what is stored, like the database would.

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

type notification struct {
	Room    string
	Type    string
	Payload interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(roomID, msgType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{Room: roomID, Type: msgType, Payload: payload})
}

func (n *recordingNotifier) count(room, msgType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, s := range n.sent {
		if s.Room == room && s.Type == msgType {
			c++
		}
	}
	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeEventRepo struct {
	mu       sync.Mutex
	events   map[int]*models.Event
	sessions map[int]*models.Session
	nextID   int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int]*models.Event{}, sessions: map[int]*models.Session{}}
}

func (r *fakeEventRepo) Create(ctx context.Context, exec repositories.SQLExecutor, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) LockByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Event, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeEventRepo) List(ctx context.Context, exec repositories.SQLExecutor) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Event, 0, len(r.events))
	for _, e := range r.events {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeEventRepo) CreateSession(ctx context.Context, exec repositories.SQLExecutor, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[s.EventID]; !ok {
		return repositories.ErrSessionInvalid
	}
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetSession(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

type fakeCompetitorRepo struct {
	mu          sync.Mutex
	competitors map[int]*models.Competitor
	nextID      int
}

func newFakeCompetitorRepo() *fakeCompetitorRepo {
	return &fakeCompetitorRepo{competitors: map[int]*models.Competitor{}}
}

func (r *fakeCompetitorRepo) Create(ctx context.Context, exec repositories.SQLExecutor, c *models.Competitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.competitors[c.ID] = &cp
	return nil
}

func (r *fakeCompetitorRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Competitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.competitors[id]
	if !ok {
		return nil, repositories.ErrCompetitorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCompetitorRepo) ListByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) ([]*models.Competitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Competitor, 0)
	for _, c := range r.competitors {
		if c.EventID == eventID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCompetitorRepo) UpdateSeed(ctx context.Context, exec repositories.SQLExecutor, id int, seed *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.competitors[id]
	if !ok {
		return repositories.ErrCompetitorNotFound
	}
	c.Seed = seed
	return nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[int]*models.Match
	configs map[int]*models.MatchConfiguration
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: map[int]*models.Match{}, configs: map[int]*models.MatchConfiguration{}}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.matches {
		if existing.EventID == m.EventID && existing.Number == m.Number {
			return repositories.ErrMatchNumberConflict
		}
	}
	r.nextID++
	m.ID = r.nextID
	cp := *m
	cp.Configuration = nil
	r.matches[m.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) LockByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeMatchRepo) ListByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int, phase *models.Phase) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.EventID != eventID || (phase != nil && m.Phase != *phase) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) CountBracketMatches(ctx context.Context, exec repositories.SQLExecutor, eventID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.matches {
		if m.EventID == eventID && m.Phase != models.PhasePool {
			n++
		}
	}
	return n, nil
}

func (r *fakeMatchRepo) UpdateState(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[m.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	cp := *m
	cp.Configuration, cp.Actions, cp.Results = nil, nil, nil
	r.matches[m.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) CreateConfiguration(ctx context.Context, exec repositories.SQLExecutor, c *models.MatchConfiguration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.configs[c.MatchID]; ok {
		return repositories.ErrMatchConfigurationExist
	}
	c.ID = c.MatchID
	cp := *c
	r.configs[c.MatchID] = &cp
	return nil
}

func (r *fakeMatchRepo) UpsertConfiguration(ctx context.Context, exec repositories.SQLExecutor, c *models.MatchConfiguration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = c.MatchID
	cp := *c
	r.configs[c.MatchID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetConfiguration(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*models.MatchConfiguration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.configs[matchID]
	if !ok {
		return nil, repositories.ErrMatchConfigNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeMatchRepo) DeleteConfiguration(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.configs, matchID)
	return nil
}

type fakeActionRepo struct {
	mu      sync.Mutex
	actions []models.MatchAction
	nextID  int
}

func (r *fakeActionRepo) Create(ctx context.Context, exec repositories.SQLExecutor, a *models.MatchAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.actions {
		if existing.MatchID == a.MatchID && existing.Position == a.Position {
			return repositories.ErrMatchActionPositionConflict
		}
	}
	r.nextID++
	a.ID = r.nextID
	r.actions = append(r.actions, *a)
	return nil
}

func (r *fakeActionRepo) ExistsWithin(ctx context.Context, exec repositories.SQLExecutor, matchID int, action models.ActionType, ts time.Time, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.actions {
		if a.MatchID != matchID || a.Action != action {
			continue
		}
		d := a.Timestamp.Sub(ts)
		if d < 0 {
			d = -d
		}
		if d <= window {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeActionRepo) NextPosition(ctx context.Context, exec repositories.SQLExecutor, matchID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maxPos := 0
	for _, a := range r.actions {
		if a.MatchID == matchID && a.Position > maxPos {
			maxPos = a.Position
		}
	}
	return maxPos + 1, nil
}

func (r *fakeActionRepo) ListByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]models.MatchAction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.MatchAction, 0)
	for _, a := range r.actions {
		if a.MatchID == matchID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeActionRepo) DeleteByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.actions[:0]
	for _, a := range r.actions {
		if a.MatchID != matchID {
			kept = append(kept, a)
		}
	}
	r.actions = kept
	return nil
}

type fakeResultRepo struct {
	mu      sync.Mutex
	results []models.MatchResult
	nextID  int
}

func (r *fakeResultRepo) Create(ctx context.Context, exec repositories.SQLExecutor, res *models.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.results {
		if existing.MatchID == res.MatchID && existing.Position == res.Position {
			return repositories.ErrMatchResultPositionConflict
		}
	}
	r.nextID++
	res.ID = r.nextID
	r.results = append(r.results, *res)
	return nil
}

func (r *fakeResultRepo) MaxPosition(ctx context.Context, exec repositories.SQLExecutor, matchID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maxPos := 0
	for _, res := range r.results {
		if res.MatchID == matchID && res.Position > maxPos {
			maxPos = res.Position
		}
	}
	return maxPos, nil
}

func (r *fakeResultRepo) ListByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]models.MatchResult, error) {
	return r.ListByMatches(ctx, exec, []int{matchID})
}

func (r *fakeResultRepo) ListByMatches(ctx context.Context, exec repositories.SQLExecutor, matchIDs []int) ([]models.MatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = true
	}
	out := make([]models.MatchResult, 0)
	for _, res := range r.results {
		if wanted[res.MatchID] {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].Position > out[j].Position
	})
	return out, nil
}

func (r *fakeResultRepo) DeleteByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.results[:0]
	for _, res := range r.results {
		if res.MatchID != matchID {
			kept = append(kept, res)
		}
	}
	r.results = kept
	return nil
}

type fakePoolRepo struct {
	mu      sync.Mutex
	pools   map[int]*models.Pool
	members map[int][]int
	links   []models.PoolMatch
	matches *fakeMatchRepo
	nextID  int
}

func newFakePoolRepo(matches *fakeMatchRepo) *fakePoolRepo {
	return &fakePoolRepo{pools: map[int]*models.Pool{}, members: map[int][]int{}, matches: matches}
}

func (r *fakePoolRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Pool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.pools[p.ID] = &cp
	return nil
}

func (r *fakePoolRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pools[id]
	if !ok {
		return nil, repositories.ErrPoolNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePoolRepo) LockByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Pool, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakePoolRepo) AddCompetitor(ctx context.Context, exec repositories.SQLExecutor, pc *models.PoolCompetitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.members[pc.PoolID] {
		if id == pc.CompetitorID {
			return repositories.ErrPoolCompetitorExists
		}
	}
	r.members[pc.PoolID] = append(r.members[pc.PoolID], pc.CompetitorID)
	r.nextID++
	pc.ID = r.nextID
	return nil
}

func (r *fakePoolRepo) RemoveCompetitor(ctx context.Context, exec repositories.SQLExecutor, poolID, competitorID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.members[poolID]
	for i, id := range ids {
		if id == competitorID {
			r.members[poolID] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPoolCompetitorNotFound
}

func (r *fakePoolRepo) CountCompetitors(ctx context.Context, exec repositories.SQLExecutor, poolID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members[poolID]), nil
}

func (r *fakePoolRepo) ListCompetitorIDs(ctx context.Context, exec repositories.SQLExecutor, poolID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.members[poolID]...), nil
}

func (r *fakePoolRepo) CreatePoolMatch(ctx context.Context, exec repositories.SQLExecutor, pm *models.PoolMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.PoolID == pm.PoolID && l.MatchOrder == pm.MatchOrder {
			return repositories.ErrPoolMatchOrderConflict
		}
	}
	r.nextID++
	pm.ID = r.nextID
	r.links = append(r.links, *pm)
	return nil
}

func (r *fakePoolRepo) CountPoolMatches(ctx context.Context, exec repositories.SQLExecutor, poolID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.links {
		if l.PoolID == poolID {
			n++
		}
	}
	return n, nil
}

func (r *fakePoolRepo) ListMatches(ctx context.Context, exec repositories.SQLExecutor, poolID int) ([]*models.Match, error) {
	r.mu.Lock()
	links := make([]models.PoolMatch, 0)
	for _, l := range r.links {
		if l.PoolID == poolID {
			links = append(links, l)
		}
	}
	r.mu.Unlock()

	sort.Slice(links, func(i, j int) bool { return links[i].MatchOrder < links[j].MatchOrder })
	out := make([]*models.Match, 0, len(links))
	for _, l := range links {
		m, err := r.matches.GetByID(ctx, exec, l.MatchID)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakePoolRepo) DeletePoolMatchByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.links[:0]
	for _, l := range r.links {
		if l.MatchID != matchID {
			kept = append(kept, l)
		}
	}
	r.links = kept
	return nil
}

type fakeStandingRepo struct {
	mu   sync.Mutex
	rows map[[2]int]*models.PoolStanding
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{rows: map[[2]int]*models.PoolStanding{}}
}

func (r *fakeStandingRepo) Create(ctx context.Context, exec repositories.SQLExecutor, s *models.PoolStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.rows[[2]int{s.PoolID, s.CompetitorID}] = &cp
	return nil
}

func (r *fakeStandingRepo) BatchUpsert(ctx context.Context, exec repositories.SQLExecutor, standings []*models.PoolStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range standings {
		cp := *s
		r.rows[[2]int{s.PoolID, s.CompetitorID}] = &cp
	}
	return nil
}

func (r *fakeStandingRepo) ListByPool(ctx context.Context, exec repositories.SQLExecutor, poolID int) ([]*models.PoolStanding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.PoolStanding, 0)
	for k, s := range r.rows {
		if k[0] == poolID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Rank, out[j].Rank
		switch {
		case ri == nil && rj == nil:
			return out[i].CompetitorID < out[j].CompetitorID
		case ri == nil:
			return false
		case rj == nil:
			return true
		}
		return *ri < *rj
	})
	return out, nil
}

func (r *fakeStandingRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, poolID, competitorID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, [2]int{poolID, competitorID})
	return nil
}

type fakeMedalRepo struct {
	mu          sync.Mutex
	medals      []*models.MedalWinner
	competitors *fakeCompetitorRepo
	nextID      int
}

func (r *fakeMedalRepo) CreateIfAbsent(ctx context.Context, exec repositories.SQLExecutor, m *models.MedalWinner) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.medals {
		if existing.CompetitorID == m.CompetitorID {
			return false, nil
		}
	}
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.medals = append(r.medals, &cp)
	return true, nil
}

func (r *fakeMedalRepo) ListByEvent(ctx context.Context, exec repositories.SQLExecutor, eventID int) ([]*models.MedalWinner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.MedalWinner, 0)
	for _, m := range r.medals {
		if m.EventID == eventID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeMedalRepo) ListCountryMedals(ctx context.Context, exec repositories.SQLExecutor, eventIDs []int) ([]repositories.CountryMedal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[int]bool, len(eventIDs))
	for _, id := range eventIDs {
		wanted[id] = true
	}
	out := make([]repositories.CountryMedal, 0)
	for _, m := range r.medals {
		if len(eventIDs) > 0 && !wanted[m.EventID] {
			continue
		}
		c, err := r.competitors.GetByID(ctx, exec, m.CompetitorID)
		if err != nil {
			return nil, err
		}
		out = append(out, repositories.CountryMedal{Country: c.Country, MedalType: m.MedalType})
	}
	return out, nil
}

type fakeAssignmentRepo struct {
	mu        sync.Mutex
	referees  map[int]*models.RefereeAssignment
	equipment map[[2]int]*models.EquipmentAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		referees:  map[int]*models.RefereeAssignment{},
		equipment: map[[2]int]*models.EquipmentAssignment{},
	}
}

func (r *fakeAssignmentRepo) UpsertReferees(ctx context.Context, exec repositories.SQLExecutor, a *models.RefereeAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.referees[a.MatchID] = &cp
	return nil
}

func (r *fakeAssignmentRepo) GetReferees(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*models.RefereeAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.referees[matchID]
	if !ok {
		return nil, repositories.ErrRefereeAssignmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) UpsertEquipment(ctx context.Context, exec repositories.SQLExecutor, a *models.EquipmentAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.equipment[[2]int{a.MatchID, a.CompetitorID}] = &cp
	return nil
}

func (r *fakeAssignmentRepo) ListEquipment(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]models.EquipmentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.EquipmentAssignment, 0)
	for k, a := range r.equipment {
		if k[0] == matchID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) DeleteByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.referees, matchID)
	for k := range r.equipment {
		if k[0] == matchID {
			delete(r.equipment, k)
		}
	}
	return nil
}

// testEnv wires every service against one set of fakes.
type testEnv struct {
	events      *fakeEventRepo
	competitors *fakeCompetitorRepo
	matches     *fakeMatchRepo
	actions     *fakeActionRepo
	results     *fakeResultRepo
	pools       *fakePoolRepo
	standings   *fakeStandingRepo
	medals      *fakeMedalRepo
	assignments *fakeAssignmentRepo

	tx       *fakeTx
	notifier *recordingNotifier
	metrics  *metrics.Mock

	matchSvc   MatchService
	medalSvc   MedalService
	bracketSvc BracketService
	poolSvc    PoolService
	eventSvc   EventService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		events:      newFakeEventRepo(),
		competitors: newFakeCompetitorRepo(),
		matches:     newFakeMatchRepo(),
		actions:     &fakeActionRepo{},
		results:     &fakeResultRepo{},
		standings:   newFakeStandingRepo(),
		assignments: newFakeAssignmentRepo(),
		tx:          &fakeTx{},
		notifier:    &recordingNotifier{},
		metrics:     metrics.NewMock(),
	}
	env.pools = newFakePoolRepo(env.matches)
	env.medals = &fakeMedalRepo{competitors: env.competitors}

	repos := MatchRepositories{
		Events:      env.events,
		Competitors: env.competitors,
		Matches:     env.matches,
		Actions:     env.actions,
		Results:     env.results,
		Pools:       env.pools,
		Assignments: env.assignments,
	}
	logger := discardLogger()
	env.medalSvc = NewMedalService(env.medals, env.events, logger)
	env.matchSvc = NewMatchService(repos, env.tx, env.medalSvc, env.notifier, env.metrics, logger)
	env.bracketSvc = NewBracketService(env.tx, env.events, env.competitors, env.matches, env.notifier, env.metrics, logger)
	env.poolSvc = NewPoolService(repos, env.standings, env.tx, env.notifier, env.metrics, logger)
	env.eventSvc = NewEventService(env.events, env.competitors, logger)
	return env
}

func (env *testEnv) seedEvent(discipline models.Discipline, division models.Division) *models.Event {
	e := &models.Event{Name: "M -68kg", Discipline: discipline, Division: division}
	_ = env.events.Create(context.Background(), nil, e)
	return e
}

func (env *testEnv) seedSession(eventID int) *models.Session {
	s := &models.Session{EventID: eventID, Name: "Morning"}
	_ = env.events.CreateSession(context.Background(), nil, s)
	return s
}

func (env *testEnv) seedCompetitor(eventID int, name, country string, seed *int) *models.Competitor {
	c := &models.Competitor{EventID: eventID, Name: name, Country: country, Seed: seed}
	_ = env.competitors.Create(context.Background(), nil, c)
	return c
}

func (env *testEnv) seedMatch(eventID int, phase models.Phase, home, away int) *models.Match {
	h, a := home, away
	m := &models.Match{
		EventID:          eventID,
		Number:           "T" + strconv.Itoa(env.matches.nextID+1),
		Phase:            phase,
		HomeCompetitorID: &h,
		AwayCompetitorID: &a,
		ScheduleStatus:   models.ScheduleScheduled,
		ResultStatus:     models.ResultUnconfirmed,
	}
	_ = env.matches.Create(context.Background(), nil, m)
	return m
}

func (env *testEnv) storedMatch(id int) *models.Match {
	m, _ := env.matches.GetByID(context.Background(), nil, id)
	return m
}
