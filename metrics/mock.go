package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	actionsRecorded  map[string]int
	duplicateActions int
	unmappedActions  int
	ingestErrors     map[string]int
	ingestDurations  []float64
	resultsSubmitted map[string]int
	matchesGenerated map[string]int
	medalsAwarded    map[string]int
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		actionsRecorded:  make(map[string]int),
		ingestErrors:     make(map[string]int),
		resultsSubmitted: make(map[string]int),
		matchesGenerated: make(map[string]int),
		medalsAwarded:    make(map[string]int),
	}
}

func (m *Mock) IncActionsRecorded(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionsRecorded[source]++
}

func (m *Mock) IncDuplicateActions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duplicateActions++
}

func (m *Mock) IncUnmappedActions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unmappedActions++
}

func (m *Mock) IncIngestErrors(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestErrors[event]++
}

func (m *Mock) ObserveIngestDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingestDurations = append(m.ingestDurations, seconds)
}

func (m *Mock) IncResultsSubmitted(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsSubmitted[status]++
}

func (m *Mock) AddMatchesGenerated(kind string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesGenerated[kind] += n
}

func (m *Mock) IncMedalsAwarded(medal string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.medalsAwarded[medal]++
}

func (m *Mock) ActionsRecorded(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actionsRecorded[source]
}

func (m *Mock) DuplicateActions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duplicateActions
}

func (m *Mock) UnmappedActions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unmappedActions
}

func (m *Mock) IngestErrors(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ingestErrors[event]
}

func (m *Mock) IngestDurations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ingestDurations)
}

func (m *Mock) ResultsSubmitted(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsSubmitted[status]
}

func (m *Mock) MatchesGenerated(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesGenerated[kind]
}

func (m *Mock) MedalsAwarded(medal string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.medalsAwarded[medal]
}
