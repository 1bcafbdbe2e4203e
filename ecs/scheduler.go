package ecs

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnknownDependency is returned by Build when a system depends on a name that was never registered.
	ErrUnknownDependency = errors.New("dependency on unregistered system")
	// ErrCyclicDependency is returned by Build when the dependency edges form a cycle.
	ErrCyclicDependency = errors.New("cyclic system dependencies")
	// ErrDuplicateSystem is returned by Build when two systems share a name.
	ErrDuplicateSystem = errors.New("duplicate system name")
	// ErrEmptySystemName is returned by Build when a system is added without a name.
	ErrEmptySystemName = errors.New("empty system name")
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (st *systemStatsInternal) record(duration time.Duration) {
	st.executionCount++
	st.lastDuration = duration
	st.totalDuration += duration

	if duration < st.minDuration {
		st.minDuration = duration
	}
	if duration > st.maxDuration {
		st.maxDuration = duration
	}
}

type queryExecutor interface {
	Execute()
}

// edge makes system run after dependency, added after registration.
type edge struct {
	system     string
	dependency string
}

type registration struct {
	name         string
	system       System
	dependencies []string
	queries      []queryExecutor
	stats        *systemStatsInternal
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithWorkers lets up to n systems of one batch run concurrently.
// With n <= 1 (the default) systems run one at a time in dependency order.
func WithWorkers(n int) SchedulerOption {
	return func(s *Scheduler) {
		s.workers = n
	}
}

// WithLogger sets the logger used for schedule construction and dropped commands.
func WithLogger(logger *zap.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scheduler collects named systems and their dependency edges and builds
// them into a Schedule.
type Scheduler struct {
	storage       *Storage
	registrations []*registration
	names         map[string]int
	edges         []edge
	errs          []error
	workers       int
	logger        *zap.Logger
	schedule      *Schedule
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		storage: storage,
		names:   make(map[string]int),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a system under its type name with no dependencies.
// Without dependencies, systems run in registration order.
func (s *Scheduler) Register(system System) {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	name := systemType.Name()
	for n := 2; s.Has(name); n++ {
		name = fmt.Sprintf("%s#%d", systemType.Name(), n)
	}
	s.Add(system, name)
}

// Add registers a system under the given name. The system runs only after
// every named dependency has finished in the same frame. Misconfiguration is
// reported by Build.
func (s *Scheduler) Add(system System, name string, dependencies ...string) {
	if name == "" {
		s.errs = append(s.errs, fmt.Errorf("register %T: %w", system, ErrEmptySystemName))
		return
	}
	if s.Has(name) {
		s.errs = append(s.errs, fmt.Errorf("register %q: %w", name, ErrDuplicateSystem))
		return
	}

	s.names[name] = len(s.registrations)
	s.registrations = append(s.registrations, &registration{
		name:         name,
		system:       system,
		dependencies: append([]string(nil), dependencies...),
		queries:      s.initializeQueries(system),
		stats: &systemStatsInternal{
			name:        name,
			minDuration: time.Duration(1<<63 - 1),
		},
	})
	s.schedule = nil
}

// Depend makes the named system run after dependency, whichever of the two
// was registered first. Either name may be registered later; unknown names
// are reported by Build.
func (s *Scheduler) Depend(system, dependency string) {
	s.edges = append(s.edges, edge{system: system, dependency: dependency})
	s.schedule = nil
}

// Has reports whether a system with the given name was registered.
func (s *Scheduler) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

func (s *Scheduler) initializeQueries(system System) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	systemType := systemValue.Type()

	var queries []queryExecutor
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()

		if strings.HasPrefix(typeName, "Query[") || strings.HasPrefix(typeName, "Singleton[") {
			initMethod := field.Addr().MethodByName("Init")
			if !initMethod.IsValid() {
				panic("Init method not found on field: " + fieldType.Name)
			}

			initMethod.Call([]reflect.Value{
				reflect.ValueOf(s.storage),
			})

			if query, ok := field.Addr().Interface().(queryExecutor); ok {
				queries = append(queries, query)
			}
		}
	}
	return queries
}

// Build validates the dependency graph and freezes it into a Schedule.
// It fails on duplicate or empty names, dependencies on unregistered
// systems and cycles.
func (s *Scheduler) Build() (*Schedule, error) {
	if len(s.errs) > 0 {
		return nil, errors.Join(s.errs...)
	}

	n := len(s.registrations)
	dependencies := make([][]int, n)
	dependents := make([][]int, n)
	indegree := make([]int, n)

	for i, reg := range s.registrations {
		for _, dep := range reg.dependencies {
			j, ok := s.names[dep]
			if !ok {
				return nil, fmt.Errorf("system %q depends on %q: %w", reg.name, dep, ErrUnknownDependency)
			}
			dependencies[i] = append(dependencies[i], j)
			dependents[j] = append(dependents[j], i)
			indegree[i]++
		}
	}
	for _, e := range s.edges {
		i, ok := s.names[e.system]
		if !ok {
			return nil, fmt.Errorf("unregistered system %q depends on %q: %w", e.system, e.dependency, ErrUnknownDependency)
		}
		j, ok := s.names[e.dependency]
		if !ok {
			return nil, fmt.Errorf("system %q depends on %q: %w", e.system, e.dependency, ErrUnknownDependency)
		}
		dependencies[i] = append(dependencies[i], j)
		dependents[j] = append(dependents[j], i)
		indegree[i]++
	}

	// Kahn's algorithm, always taking the earliest registered ready system
	order := make([]int, 0, n)
	done := make([]bool, n)
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next == -1 {
			var cycle []string
			for i, reg := range s.registrations {
				if !done[i] {
					cycle = append(cycle, reg.name)
				}
			}
			return nil, fmt.Errorf("%w among: %s", ErrCyclicDependency, strings.Join(cycle, ", "))
		}

		done[next] = true
		order = append(order, next)
		for _, d := range dependents[next] {
			indegree[d]--
		}
	}

	units := make([]*unit, n)
	for i, reg := range s.registrations {
		u := &unit{registration: reg}
		if declarer, ok := reg.system.(AccessDeclarer); ok {
			u.access = declarer.Access()
			u.declared = true
		}
		units[i] = u
	}

	schedule := &Schedule{
		storage: s.storage,
		workers: s.workers,
		logger:  s.logger,
	}
	for _, i := range order {
		schedule.units = append(schedule.units, units[i])
	}
	if s.workers > 1 {
		schedule.batches = buildBatches(order, dependencies, units)
	}

	s.logger.Info("schedule built",
		zap.Strings("order", schedule.Order()),
		zap.Int("batches", len(schedule.batches)),
		zap.Int("workers", s.workers),
	)

	s.schedule = schedule
	return schedule, nil
}

// buildBatches groups units into batches that may run concurrently. A unit
// lands in the first batch after all of its dependencies whose members it
// does not conflict with.
func buildBatches(order []int, dependencies [][]int, units []*unit) [][]*unit {
	batchOf := make([]int, len(units))
	var batches [][]*unit

	for _, i := range order {
		minBatch := 0
		for _, dep := range dependencies[i] {
			minBatch = max(minBatch, batchOf[dep]+1)
		}

		b := minBatch
		for b < len(batches) && conflictsWithBatch(units[i], batches[b]) {
			b++
		}
		if b == len(batches) {
			batches = append(batches, nil)
		}

		batches[b] = append(batches[b], units[i])
		batchOf[i] = b
	}
	return batches
}

func conflictsWithBatch(u *unit, batch []*unit) bool {
	for _, other := range batch {
		if !u.declared || !other.declared || u.access.ConflictsWith(other.access) {
			return true
		}
	}
	return false
}

func (s *Scheduler) mustBuild() *Schedule {
	if s.schedule != nil {
		return s.schedule
	}
	schedule, err := s.Build()
	if err != nil {
		panic(err)
	}
	return schedule
}

// Once executes all registered systems once with the given delta time.
// Panics if the dependency graph is invalid; call Build first to handle the error.
func (s *Scheduler) Once(dt float64) {
	s.mustBuild().Once(dt)
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	s.mustBuild().Run(ctx, interval)
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	return collectStats(s.registrations)
}

type unit struct {
	*registration
	access   Access
	declared bool
}

// Schedule is a validated, immutable execution plan.
type Schedule struct {
	storage *Storage
	units   []*unit
	batches [][]*unit
	workers int
	logger  *zap.Logger
	frames  uint64
}

// Order returns the system names in execution order.
func (s *Schedule) Order() []string {
	names := make([]string, len(s.units))
	for i, u := range s.units {
		names[i] = u.name
	}
	return names
}

// Batches returns the system names grouped by parallel batch.
// Empty when the schedule runs sequentially.
func (s *Schedule) Batches() [][]string {
	out := make([][]string, len(s.batches))
	for i, batch := range s.batches {
		for _, u := range batch {
			out[i] = append(out[i], u.name)
		}
	}
	return out
}

// Once executes every system once, honoring dependency order, then flushes deferred commands.
func (s *Schedule) Once(dt float64) {
	s.frames++
	frame := newUpdateFrame(dt, s.frames, s.storage)

	if len(s.batches) == 0 {
		for _, u := range s.units {
			s.runUnit(u, frame)
		}
	} else {
		for _, batch := range s.batches {
			s.runBatch(batch, frame)
		}
	}

	for _, err := range frame.Commands.Flush(s.storage) {
		s.logger.Warn("dropped deferred command", zap.Error(err))
	}
}

func (s *Schedule) runBatch(batch []*unit, frame *UpdateFrame) {
	if len(batch) == 1 {
		s.runUnit(batch[0], frame)
		return
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, u := range batch {
		g.Go(func() error {
			s.runUnit(u, frame)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Schedule) runUnit(u *unit, frame *UpdateFrame) {
	start := time.Now()
	for _, query := range u.queries {
		query.Execute()
	}
	u.system.Execute(frame)
	u.stats.record(time.Since(start))
}

// Run executes the schedule repeatedly at the given interval until the context is cancelled.
func (s *Schedule) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution, in execution order.
func (s *Schedule) GetStats() *SchedulerStats {
	regs := make([]*registration, len(s.units))
	for i, u := range s.units {
		regs[i] = u.registration
	}
	return collectStats(regs)
}

func collectStats(regs []*registration) *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(regs),
		Systems:     make([]SystemStats, len(regs)),
	}

	var totalExecs int64
	for i, reg := range regs {
		internal := reg.stats
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
