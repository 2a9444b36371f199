package memory

import (
	"context"
	"strings"
	"sync"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

// ViewStateRepository holds per-browsing-session navigation state.
type ViewStateRepository struct {
	mu     sync.RWMutex
	states map[string]domain.ViewState
}

var _ repositories.ViewStateRepository = (*ViewStateRepository)(nil)

// NewViewStateRepository constructs an empty view-state store.
func NewViewStateRepository() *ViewStateRepository {
	return &ViewStateRepository{states: make(map[string]domain.ViewState)}
}

// Get returns the stored view state for the browsing session.
func (r *ViewStateRepository) Get(_ context.Context, sessionID string) (domain.ViewState, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return domain.ViewState{}, invalidError("view state repository: get", "session id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[id]
	if !ok {
		return domain.ViewState{}, notFoundError("view state repository: get", "no state for session %s", id)
	}
	return state, nil
}

// Save stores the view state keyed by its session id.
func (r *ViewStateRepository) Save(_ context.Context, state domain.ViewState) (domain.ViewState, error) {
	id := strings.TrimSpace(state.SessionID)
	if id == "" {
		return domain.ViewState{}, invalidError("view state repository: save", "session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[id] = state
	return state, nil
}
