// Package editsession manages one row's edit lifecycle: fetch the full
// detail, populate the form, pre-warm a session-private cascade resolver so
// the dropdowns show current values on first paint, and tear everything down
// on close. Row summaries are never edited directly; they lack the ancestor
// ids the cascade needs.
package editsession

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"epolice/internal/logger"
	"epolice/pkg/cascade"
	"epolice/pkg/notify"
	"epolice/pkg/restclient"
)

// Detail is the full entity as needed by the edit form: scalar field values
// plus the ancestor chain with display labels.
type Detail struct {
	Values map[string]string
	Chain  []cascade.Selection
}

// DetailFunc loads one entity's full detail by id.
type DetailFunc func(ctx context.Context, id string) (Detail, error)

// Session is one edit modal. Each session owns its resolver; closing the
// session drops it so nothing leaks into the next session or the add form.
type Session struct {
	mu         sync.Mutex
	id         string
	entityID   string
	values     map[string]string
	resolver   *cascade.Resolver
	open       bool
	loadDetail DetailFunc
	newRes     func() *cascade.Resolver
	notifier   notify.Notifier
	l          *slog.Logger
}

func New(load DetailFunc, newResolver func() *cascade.Resolver, notifier notify.Notifier) *Session {
	s := &Session{
		id:         uuid.NewString(),
		loadDetail: load,
		newRes:     newResolver,
		notifier:   notifier,
		l:          logger.L(),
	}
	if s.notifier == nil {
		s.notifier = &notify.LogNotifier{L: s.l}
	}
	return s
}

// Open fetches the detail and opens the session. A failed detail fetch
// notifies and leaves the session closed: the modal must not open on
// summary data alone.
func (s *Session) Open(ctx context.Context, entityID string) error {
	d, err := s.loadDetail(ctx, entityID)
	if err != nil {
		msg := restclient.UserMessage(err, "failed to load record details")
		s.notifier.Notify(notify.Error, msg)
		s.l.Debug("edit_open_error", "session", s.id, "entity", entityID, "err", err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entityID = entityID
	s.values = make(map[string]string, len(d.Values))
	for k, v := range d.Values {
		s.values[k] = v
	}
	s.resolver = s.newRes()
	if err := s.resolver.Prewarm(d.Chain); err != nil {
		s.resolver = nil
		return err
	}
	s.open = true
	s.l.Debug("edit_open", "session", s.id, "entity", entityID)
	return nil
}

// Close clears all edit-local state: form values, the prewarmed resolver,
// the entity binding.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = nil
	s.resolver = nil
	s.entityID = ""
	s.open = false
	s.l.Debug("edit_close", "session", s.id)
}

func (s *Session) ID() string { return s.id }

func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Session) EntityID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entityID
}

// Resolver exposes the session's cascade state; nil while closed.
func (s *Session) Resolver() *cascade.Resolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolver
}

// Value reads one form field.
func (s *Session) Value(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[name]
}

// SetValue records a user edit.
func (s *Session) SetValue(name, v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		return
	}
	s.values[name] = v
}

// Values returns a copy of the current form values.
func (s *Session) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
