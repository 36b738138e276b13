package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/callumw/snagshare/internal/apperr"
)

// MemoryGateway is an in-memory Gateway used to test broker logic without
// calling the real payment provider.
type MemoryGateway struct {
	mu        sync.Mutex
	sessions  map[string]Session
	nextID    int
	createErr error
	getErr    error
}

// NewMemoryGateway instantiates an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{sessions: make(map[string]Session)}
}

// WithCreateError configures CreateSession to fail with err.
func (m *MemoryGateway) WithCreateError(err error) *MemoryGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
	return m
}

// WithGetError configures GetSession to fail with err.
func (m *MemoryGateway) WithGetError(err error) *MemoryGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
	return m
}

func (m *MemoryGateway) CreateSession(_ context.Context, in SessionInput) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return Session{}, fmt.Errorf("%w: %w", apperr.ErrGateway, m.createErr)
	}

	m.nextID++
	sess := Session{
		ID:            fmt.Sprintf("cs_test_%03d", m.nextID),
		URL:           fmt.Sprintf("https://checkout.example.com/%03d", m.nextID),
		ClientSecret:  fmt.Sprintf("secret_%03d", m.nextID),
		PaymentStatus: StatusUnpaid,
		Metadata:      map[string]string{MetadataShareID: in.ShareID},
	}
	m.sessions[sess.ID] = sess
	return sess, nil
}

func (m *MemoryGateway) GetSession(_ context.Context, sessionID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return Session{}, fmt.Errorf("%w: %w", apperr.ErrGateway, m.getErr)
	}

	sess, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, fmt.Errorf("checkout session %s: %w", sessionID, apperr.ErrNotFound)
	}
	return sess, nil
}

// MarkPaid simulates the shopper completing payment out-of-band.
func (m *MemoryGateway) MarkPaid(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[sessionID]; ok {
		sess.PaymentStatus = StatusPaid
		m.sessions[sessionID] = sess
	}
}

// DropMetadata removes the share linkage from a stored session, simulating a
// gateway-side metadata loss.
func (m *MemoryGateway) DropMetadata(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[sessionID]; ok {
		sess.Metadata = nil
		m.sessions[sessionID] = sess
	}
}
