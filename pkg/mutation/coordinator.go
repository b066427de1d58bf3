// Package mutation serializes create, update and delete calls for one
// screen, validates client-side before anything touches the wire, and keeps
// the paginated list consistent afterwards.
package mutation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"epolice/internal/logger"
	"epolice/internal/metrics"
	"epolice/pkg/cascade"
	"epolice/pkg/editsession"
	"epolice/pkg/formspec"
	"epolice/pkg/notify"
	"epolice/pkg/restclient"
)

// List is the slice of the list controller the coordinator needs: refresh,
// page stepping, and enough state for the delete-last-row rule.
type List interface {
	Refresh(ctx context.Context)
	SetPage(ctx context.Context, index int)
	Page() int
	RowCount() int
}

// Ops binds the coordinator to one resource's endpoints.
type Ops struct {
	Create func(ctx context.Context, payload map[string]any) error
	Update func(ctx context.Context, id string, payload map[string]any) error
	Delete func(ctx context.Context, id string) error
}

// ValidationError carries per-field messages for a submission blocked before
// any network call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

type Coordinator struct {
	mu           sync.Mutex
	ops          Ops
	list         List
	form         *formspec.Form
	addResolver  *cascade.Resolver
	notifier     notify.Notifier
	resetToFirst bool
	l            *slog.Logger
}

type Option func(*Coordinator)

// WithAddResolver registers the add form's cascade state so it can be reset
// after a successful create.
func WithAddResolver(r *cascade.Resolver) Option {
	return func(c *Coordinator) { c.addResolver = r }
}

func WithNotifier(n notify.Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

// WithResetToFirstPage makes a successful add jump back to the first page,
// the behavior of the screens that re-anchor after create.
func WithResetToFirstPage() Option {
	return func(c *Coordinator) { c.resetToFirst = true }
}

func New(ops Ops, list List, form *formspec.Form, opts ...Option) *Coordinator {
	c := &Coordinator{
		ops:  ops,
		list: list,
		form: form,
		l:    logger.L(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.notifier == nil {
		c.notifier = &notify.LogNotifier{L: c.l}
	}
	return c
}

// payload merges the string form values with their parsed numeric
// counterparts so numeric fields cross the wire as numbers.
func (c *Coordinator) payload(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	for k, n := range c.form.Numbers(values) {
		out[k] = n
	}
	return out
}

// validate blocks a submission with bad input before the network call; the
// caller keeps the form populated for retry.
func (c *Coordinator) validate(values map[string]string) error {
	if errs := c.form.Validate(values); len(errs) > 0 {
		for f, msg := range errs {
			c.l.Debug("validation_error", "field", f, "msg", msg)
		}
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Add validates and creates. On success the list re-fetches (current page
// unless reset-to-first is configured) and the add form's cascade state is
// reset; on failure the server message surfaces and the form stays intact.
func (c *Coordinator) Add(ctx context.Context, values map[string]string) error {
	if err := c.validate(values); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("add").Inc()
	if err := c.ops.Create(ctx, c.payload(values)); err != nil {
		metrics.MutationFailTotal.WithLabelValues("add").Inc()
		c.notifier.Notify(notify.Error, restclient.UserMessage(err, "failed to add record"))
		return err
	}
	c.notifier.Notify(notify.Success, "record added")
	if c.addResolver != nil {
		c.addResolver.Reset()
	}
	if c.resetToFirst && c.list.Page() != 0 {
		c.list.SetPage(ctx, 0)
	} else {
		c.list.Refresh(ctx)
	}
	return nil
}

// Update validates the session's form values and PUTs the full replacement
// body. Unparseable numeric input aborts with a field error and zero network
// calls. Success refreshes the current page and closes the session.
func (c *Coordinator) Update(ctx context.Context, s *editsession.Session) error {
	values := s.Values()
	if err := c.validate(values); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("update").Inc()
	if err := c.ops.Update(ctx, s.EntityID(), c.payload(values)); err != nil {
		metrics.MutationFailTotal.WithLabelValues("update").Inc()
		c.notifier.Notify(notify.Error, restclient.UserMessage(err, "failed to update record"))
		return err
	}
	c.notifier.Notify(notify.Success, "record updated")
	c.list.Refresh(ctx)
	s.Close()
	return nil
}

// Remove deletes a row. When the deleted row was the last one on a page
// beyond the first, the list steps back a page before re-fetching so the
// user never lands on a confirmed-empty page.
func (c *Coordinator) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	metrics.MutationsTotal.WithLabelValues("delete").Inc()
	if err := c.ops.Delete(ctx, id); err != nil {
		metrics.MutationFailTotal.WithLabelValues("delete").Inc()
		c.notifier.Notify(notify.Error, restclient.UserMessage(err, "failed to delete record"))
		return err
	}
	c.notifier.Notify(notify.Success, "record deleted")
	if c.list.RowCount() == 1 && c.list.Page() > 0 {
		c.list.SetPage(ctx, c.list.Page()-1)
	} else {
		c.list.Refresh(ctx)
	}
	return nil
}
