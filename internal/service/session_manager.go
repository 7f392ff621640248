package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sci-crm-api/internal/identity"
	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	"github.com/noah-isme/sci-crm-api/pkg/docstore"
)

const defaultReadyTimeout = 5 * time.Second

// ErrSessionNotReady is returned when the initial collection values did not
// arrive before the ready deadline.
var ErrSessionNotReady = errors.New("session snapshot not ready")

type collectionSubscriber interface {
	Subscribe(ctx context.Context, collection repository.Collection, fn docstore.Listener) (docstore.Unsubscribe, error)
}

// Session is the server-side state of one admitted sign-in: the identity, the
// live collection subscriptions and the snapshot they maintain.
type Session struct {
	ID         string
	Identity   models.Identity
	EmployeeID string
	Employee   *models.Employee
	OpenedAt   time.Time
	ExpiresAt  time.Time

	logger       *zap.Logger
	feeds        map[repository.Collection]chan docstore.Value
	view         atomic.Pointer[models.Snapshot]
	ready        chan struct{}
	done         chan struct{}
	cancel       context.CancelFunc
	unsubscribes []docstore.Unsubscribe
	closeOnce    sync.Once
	closed       atomic.Bool
}

func newSession(id string, ident models.Identity, decision Decision, expiresAt time.Time, logger *zap.Logger) *Session {
	s := &Session{
		ID:         id,
		Identity:   ident,
		EmployeeID: decision.EmployeeID,
		Employee:   decision.Employee,
		OpenedAt:   time.Now().UTC(),
		ExpiresAt:  expiresAt,
		logger:     logger.With(zap.String("session_id", id), zap.String("uid", ident.UID)),
		feeds:      make(map[repository.Collection]chan docstore.Value, len(repository.SnapshotCollections)),
		ready:      make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, collection := range repository.SnapshotCollections {
		s.feeds[collection] = make(chan docstore.Value, 1)
	}
	return s
}

// View returns the latest snapshot, or nil before the first full load.
func (s *Session) View() *models.Snapshot {
	return s.view.Load()
}

// Ready is closed once every collection has delivered its first value.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Closed reports whether the session was torn down.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// listener feeds one collection's channel, dropping any value the session
// goroutine has not consumed yet.
func (s *Session) listener(collection repository.Collection) docstore.Listener {
	ch := s.feeds[collection]
	return func(value docstore.Value, _ bool) {
		offer(ch, value)
	}
}

func offer(ch chan docstore.Value, value docstore.Value) {
	for {
		select {
		case ch <- value:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	var (
		working models.Snapshot
		version uint64
		loaded  = make(map[repository.Collection]bool, len(s.feeds))
	)

	for {
		var (
			collection repository.Collection
			value      docstore.Value
		)
		select {
		case <-ctx.Done():
			return
		case value = <-s.feeds[repository.CollectionStudents]:
			collection = repository.CollectionStudents
		case value = <-s.feeds[repository.CollectionPrograms]:
			collection = repository.CollectionPrograms
		case value = <-s.feeds[repository.CollectionInquiries]:
			collection = repository.CollectionInquiries
		case value = <-s.feeds[repository.CollectionPotentials]:
			collection = repository.CollectionPotentials
		case value = <-s.feeds[repository.CollectionBatches]:
			collection = repository.CollectionBatches
		case value = <-s.feeds[repository.CollectionExams]:
			collection = repository.CollectionExams
		case value = <-s.feeds[repository.CollectionEmployees]:
			collection = repository.CollectionEmployees
		}

		if err := s.replace(&working, collection, value); err != nil {
			s.logger.Warn("collection decoded with errors", zap.String("collection", string(collection)), zap.Error(err))
		}
		loaded[collection] = true
		if len(loaded) < len(s.feeds) {
			continue
		}

		version++
		published := working
		published.Version = version
		s.view.Store(&published)
		if version == 1 {
			close(s.ready)
		}
	}
}

// replace swaps one collection of working wholesale. Slices from earlier
// versions are never written to again, so published snapshots stay immutable.
func (s *Session) replace(working *models.Snapshot, collection repository.Collection, value docstore.Value) error {
	var err error
	switch collection {
	case repository.CollectionStudents:
		working.Students, err = repository.DecodeStudents(value)
	case repository.CollectionPrograms:
		working.Programs, err = repository.DecodePrograms(value)
	case repository.CollectionInquiries:
		working.Inquiries, err = repository.DecodeInquiries(value)
	case repository.CollectionPotentials:
		working.Potentials, err = repository.DecodePotentials(value)
	case repository.CollectionBatches:
		working.Batches, err = repository.DecodeBatches(value)
	case repository.CollectionExams:
		var exams models.ExamResults
		exams, err = repository.DecodeExams(value)
		working.ExamsErr = err
		switch {
		case err == nil:
			working.Exams = exams
		case working.Exams == nil:
			working.Exams = models.ExamResults{}
		}
	case repository.CollectionEmployees:
		working.Employees, err = repository.DecodeEmployees(value)
	}
	return err
}

// close unsubscribes every collection, then stops the session goroutine. It
// runs once no matter how many teardown paths race.
func (s *Session) close() bool {
	first := false
	s.closeOnce.Do(func() {
		first = true
		s.closed.Store(true)
		for _, unsubscribe := range s.unsubscribes {
			unsubscribe()
		}
		if s.cancel != nil {
			s.cancel()
			<-s.done
		}
	})
	return first
}

// SessionManager owns every open session.
type SessionManager struct {
	records      collectionSubscriber
	metrics      *MetricsService
	logger       *zap.Logger
	readyTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(records collectionSubscriber, metrics *MetricsService, logger *zap.Logger, readyTimeout time.Duration) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if readyTimeout <= 0 {
		readyTimeout = defaultReadyTimeout
	}
	return &SessionManager{
		records:      records,
		metrics:      metrics,
		logger:       logger,
		readyTimeout: readyTimeout,
		sessions:     make(map[string]*Session),
	}
}

// Open subscribes to every collection for an admitted identity and waits for
// the first complete snapshot.
func (m *SessionManager) Open(ctx context.Context, ident models.Identity, decision Decision, expiresAt time.Time) (*Session, error) {
	if !decision.Admitted {
		return nil, decision.Err()
	}

	session := newSession(uuid.NewString(), ident, decision, expiresAt, m.logger)
	runCtx, cancel := context.WithCancel(context.Background())
	session.cancel = cancel
	go session.run(runCtx)

	for _, collection := range repository.SnapshotCollections {
		unsubscribe, err := m.records.Subscribe(ctx, collection, session.listener(collection))
		if err != nil {
			session.close()
			return nil, fmt.Errorf("open session: %w", err)
		}
		session.unsubscribes = append(session.unsubscribes, unsubscribe)
	}

	timer := time.NewTimer(m.readyTimeout)
	defer timer.Stop()
	select {
	case <-session.Ready():
	case <-ctx.Done():
		session.close()
		return nil, ctx.Err()
	case <-timer.C:
		session.close()
		return nil, ErrSessionNotReady
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()
	m.metrics.SessionOpened()

	m.logger.Info("session opened",
		zap.String("session_id", session.ID),
		zap.String("uid", ident.UID),
		zap.String("employee_id", decision.EmployeeID),
	)
	return session, nil
}

// Get returns an open session.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Count returns the number of open sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close tears down one session. It reports whether the session was open.
func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	m.teardown(session, "closed")
	return true
}

// CloseByUID tears down every session of one principal.
func (m *SessionManager) CloseByUID(uid string) int {
	m.mu.Lock()
	var matched []*Session
	for id, session := range m.sessions {
		if session.Identity.UID == uid {
			matched = append(matched, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range matched {
		m.teardown(session, "identity signed out")
	}
	return len(matched)
}

// CloseAll tears down every session, e.g. on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		m.teardown(session, "shutdown")
	}
}

// HandleIdentityChange closes the sessions of a principal once the identity
// gateway reports it signed out.
func (m *SessionManager) HandleIdentityChange(evt identity.Event) {
	if evt.UID == "" || evt.Identity != nil {
		return
	}
	m.CloseByUID(evt.UID)
}

// Sweep closes sessions whose token lifetime has passed.
func (m *SessionManager) Sweep(now time.Time) int {
	m.mu.Lock()
	var expired []*Session
	for id, session := range m.sessions {
		if !session.ExpiresAt.IsZero() && !now.Before(session.ExpiresAt) {
			expired = append(expired, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		m.teardown(session, "expired")
	}
	return len(expired)
}

// StartSweeper runs Sweep every interval until ctx is done.
func (m *SessionManager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.Sweep(now)
			}
		}
	}()
}

func (m *SessionManager) teardown(session *Session, reason string) {
	if !session.close() {
		return
	}
	m.metrics.SessionClosed()
	m.logger.Info("session closed", zap.String("session_id", session.ID), zap.String("reason", reason))
}
