package editing

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursehub-backend/domain/core/entities"
	"coursehub-backend/domain/core/valueobjects"
	apperrors "coursehub-backend/pkg/errors"
	"coursehub-backend/pkg/observability"
)

// Manager tracks open editing sessions by id for the HTTP layer
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	svc     *ContentService
	cfg     SessionConfig
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewManager creates a session manager
func NewManager(svc *ContentService, cfg SessionConfig, logger *zap.Logger, metrics *observability.Metrics) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		svc:      svc,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// Open starts a session over an existing entity (id set) or a fresh
// draft (id empty) and returns the session handle
func (m *Manager) Open(ctx context.Context, kind valueobjects.ContentKind, id, actor string) (string, *Session, error) {
	var draft *entities.ContentDraft
	if id == "" {
		draft = &entities.ContentDraft{Kind: kind, Status: valueobjects.StatusDraft}
	} else {
		loaded, err := m.svc.LoadDraft(ctx, kind, id)
		if err != nil {
			return "", nil, err
		}
		draft = loaded
	}

	session := NewSession(draft, actor, m.svc, m.cfg, m.logger, m.metrics)
	sessionID := uuid.New().String()

	m.mu.Lock()
	m.sessions[sessionID] = session
	m.mu.Unlock()

	m.logger.Info("editing session opened",
		zap.String("session_id", sessionID),
		zap.String("kind", kind.String()),
		zap.String("entity_id", id))

	return sessionID, session, nil
}

// Get returns an open session by id
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("editing session")
	}
	return session, nil
}

// Close ends a session; idempotent
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[sessionID]; ok {
		session.Close()
		delete(m.sessions, sessionID)
	}
}
