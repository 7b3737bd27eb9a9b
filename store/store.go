package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/indent_tracker/config"
	"bitbucket.org/mmdatafocus/indent_tracker/sheets"
)

// Fetcher reads one sheet from the gateway. *sheets.Client satisfies it.
type Fetcher interface {
	FetchSheet(ctx context.Context, name sheets.SheetName) (sheets.FetchResult, error)
}

type sheetState struct {
	rows        []sheets.Row
	settled     bool
	inflight    int
	issued      uint64
	applied     uint64
	version     uint64
	lastErr     error
	refreshedAt time.Time
}

// Store holds the last resolved snapshot of every sheet for the lifetime of
// the process. Snapshots are only ever replaced wholesale.
type Store struct {
	ctx        context.Context
	fetcher    Fetcher
	logger     *logrus.Logger
	names      []sheets.SheetName
	staleGuard bool

	mu      sync.RWMutex
	state   map[sheets.SheetName]*sheetState
	master  *sheets.MasterSheet
	batches int
}

type Option func(*Store)

// WithStaleGuard toggles discarding of responses that resolve after a newer one was applied.
func WithStaleGuard(on bool) Option {
	return func(s *Store) { s.staleGuard = on }
}

// WithSheets limits the store to the given sheets instead of sheets.All.
func WithSheets(names ...sheets.SheetName) Option {
	return func(s *Store) { s.names = names }
}

// New builds an empty store. ctx is the base context for delayed refreshes and
// should live as long as the process.
func New(ctx context.Context, fetcher Fetcher, logger *logrus.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = config.GetLogger()
	}
	s := &Store{
		ctx:        ctx,
		fetcher:    fetcher,
		logger:     logger,
		names:      sheets.All,
		staleGuard: config.StaleRefreshGuard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = make(map[sheets.SheetName]*sheetState, len(s.names))
	for _, n := range s.names {
		s.state[n] = &sheetState{}
	}
	return s
}

// Names returns the sheets this store tracks, in refresh order.
func (s *Store) Names() []sheets.SheetName {
	return append([]sheets.SheetName(nil), s.names...)
}

func (s *Store) stateOf(name sheets.SheetName) (*sheetState, bool) {
	st, ok := s.state[name]
	return st, ok
}

// Refresh fetches one sheet and replaces its snapshot on success. On failure
// the previous snapshot is kept and the error is returned.
func (s *Store) Refresh(ctx context.Context, name sheets.SheetName) error {
	s.mu.Lock()
	st, ok := s.stateOf(name)
	if !ok {
		s.mu.Unlock()
		return &sheets.FetchError{Sheet: name, Reason: "unknown sheet"}
	}
	st.issued++
	seq := st.issued
	st.inflight++
	s.mu.Unlock()

	res, err := s.fetcher.FetchSheet(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	st.inflight--
	st.settled = true

	if err != nil {
		st.lastErr = err
		config.LogError(s.logger, "store", "Refresh", "fetching "+name.String(), nil, err)
		return err
	}

	if s.staleGuard && seq < st.applied {
		s.logger.WithFields(logrus.Fields{
			"module":  "store",
			"sheet":   name.String(),
			"seq":     seq,
			"applied": st.applied,
		}).Debug("discarding stale sheet response")
		return nil
	}

	st.applied = seq
	st.version++
	st.lastErr = nil
	st.refreshedAt = time.Now()
	if name == sheets.Master {
		st.rows = nil
		s.master = res.Master
	} else {
		st.rows = res.Rows
	}
	return nil
}

// UpdateAll refreshes every sheet concurrently and returns at once. The
// returned channel closes after all of them have settled.
func (s *Store) UpdateAll(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	s.batches++
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, name := range s.names {
		wg.Add(1)
		go func(name sheets.SheetName) {
			defer wg.Done()
			_ = s.Refresh(ctx, name)
		}(name)
	}

	go func() {
		wg.Wait()
		s.mu.Lock()
		s.batches--
		s.mu.Unlock()
		close(done)
	}()
	return done
}

// RefreshAfter schedules a refresh of name on the store's base context.
func (s *Store) RefreshAfter(name sheets.SheetName, delay time.Duration) *time.Timer {
	return time.AfterFunc(delay, func() {
		_ = s.Refresh(s.ctx, name)
	})
}

// Snapshot returns the current rows of a sheet. The slice is shared and must
// not be modified; an unknown or never-loaded sheet yields nil.
func (s *Store) Snapshot(name sheets.SheetName) []sheets.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.stateOf(name); ok {
		return st.rows
	}
	return nil
}

// Loading is true until the first fetch settles and while any fetch is in flight.
func (s *Store) Loading(name sheets.SheetName) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stateOf(name)
	if !ok {
		return false
	}
	return !st.settled || st.inflight > 0
}

// AllLoading is true while an UpdateAll batch has refreshes outstanding.
func (s *Store) AllLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batches > 0
}

// Master returns the MASTER aggregate, or nil before it first loads.
func (s *Store) Master() *sheets.MasterSheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.master
}

// Version counts applied snapshots of a sheet.
func (s *Store) Version(name sheets.SheetName) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.stateOf(name); ok {
		return st.version
	}
	return 0
}

type SheetStatus struct {
	Sheet       sheets.SheetName `json:"sheet"`
	Rows        int              `json:"rows"`
	Loading     bool             `json:"loading"`
	Version     uint64           `json:"version"`
	RefreshedAt *time.Time       `json:"refreshedAt,omitempty"`
	LastError   string           `json:"lastError,omitempty"`
}

func (s *Store) Status() []SheetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SheetStatus, 0, len(s.names))
	for _, n := range s.names {
		st := s.state[n]
		item := SheetStatus{
			Sheet:   n,
			Rows:    len(st.rows),
			Loading: !st.settled || st.inflight > 0,
			Version: st.version,
		}
		if !st.refreshedAt.IsZero() {
			at := st.refreshedAt
			item.RefreshedAt = &at
		}
		if st.lastErr != nil {
			item.LastError = st.lastErr.Error()
		}
		out = append(out, item)
	}
	return out
}
