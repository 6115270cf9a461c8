package metrics

import (
	"math"
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one search for one move.
type SearchMetric struct {
	Budget       int
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
	StoreAssists int
	EarlyStop    bool
	Certainty    float64 // NaN when the root had fewer than two children
}

type MoveMetric struct {
	Step   int
	Player int // 1 or 2
	Column int // 0-based, -1 when no move was played
	SearchMetric
}

type GameMetric struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Outcome    int // game.Outcome code
	Position   string
}

type Collector interface {
	Start(budget int)
	AddEpisode()
	AddFullPlayout()
	AddStoreAssist()
	SetEarlyStop(certainty float64)
	Complete() SearchMetric
}

type collector struct {
	budget       int
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	storeAssists atomic.Int32
	earlyStop    atomic.Bool
	certainty    atomic.Uint64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(budget int) {
	m.startTime = time.Now()
	m.budget = budget
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.storeAssists.Store(0)
	m.earlyStop.Store(false)
	m.certainty.Store(math.Float64bits(math.NaN()))
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddStoreAssist() {
	m.storeAssists.Add(1)
}

func (m *collector) SetEarlyStop(certainty float64) {
	m.earlyStop.Store(true)
	m.certainty.Store(math.Float64bits(certainty))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Budget:       m.budget,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		StoreAssists: int(m.storeAssists.Load()),
		EarlyStop:    m.earlyStop.Load(),
		Certainty:    math.Float64frombits(m.certainty.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(budget int)               {}
func (m *dummyCollector) AddEpisode()                    {}
func (m *dummyCollector) AddFullPlayout()                {}
func (m *dummyCollector) AddStoreAssist()                {}
func (m *dummyCollector) SetEarlyStop(certainty float64) {}
func (m *dummyCollector) Complete() SearchMetric         { return SearchMetric{} }
