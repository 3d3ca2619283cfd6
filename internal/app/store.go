package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"voyage_backoffice/internal/adapters/observability"
	"voyage_backoffice/internal/domain"
	"voyage_backoffice/internal/shared"
)

// insertPos is where an acknowledged create lands in the list. Four stores
// prepend; the requirement store appends. The asymmetry is inherited from
// the screens' observed behavior and preserved literally.
type insertPos int

const (
	insertHead insertPos = iota
	insertTail
)

// Snapshot is the screen-facing view of a store: the item list plus the
// flags the dialogs and banners render from.
type Snapshot[T any] struct {
	Items    []T    `json:"items"`
	Loading  bool   `json:"loading"`
	Creating bool   `json:"creating"`
	Error    string `json:"error,omitempty"`
}

// EntityStore holds one entity type's list state. Fetches replace the list
// wholesale; creates insert only the server-acknowledged entity. A failed
// operation keeps the previous items and records a localized message.
//
// Refresh is single-flight: starting a new fetch cancels the previous one,
// and a late result from a canceled fetch never overwrites newer state.
type EntityStore[P, T any] struct {
	name      string
	pos       insertPos
	list      func(ctx context.Context, c domain.BackofficeClient) ([]T, error)
	create    func(ctx context.Context, c domain.BackofficeClient, p P) (T, error)
	entityID  func(T) int64
	client    domain.BackofficeClient
	msgs      shared.Messages
	fetchMsg  shared.MessageKey
	createMsg shared.MessageKey

	mu          sync.Mutex
	items       []T
	loading     bool
	creating    bool
	errMsg      string
	fetchSeq    uint64
	cancelFetch context.CancelFunc
}

// Refresh fetches the full collection and replaces items on success. On
// failure the prior items stay visible behind the error banner.
func (s *EntityStore[P, T]) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.cancelFetch != nil {
		s.cancelFetch() // supersede the in-flight fetch
	}
	fctx, cancel := context.WithCancel(ctx)
	s.cancelFetch = cancel
	s.fetchSeq++
	seq := s.fetchSeq
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	items, err := s.list(fctx, s.client)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		// a newer fetch owns the state now
		observability.ObserveStore(s.name, "fetch", "stale")
		return nil
	}
	s.loading = false
	s.cancelFetch = nil
	if err != nil {
		if errors.Is(err, context.Canceled) {
			observability.ObserveStore(s.name, "fetch", "stale")
			return nil
		}
		s.errMsg = s.failureMessage(s.fetchMsg, err)
		observability.ObserveStore(s.name, "fetch", "error")
		log.Warn().Str("store", s.name).Err(err).Msg("fetch failed")
		return err
	}
	s.items = items
	observability.ObserveStore(s.name, "fetch", "ok")
	return nil
}

// Create submits the payload and, only after the server acknowledges with
// an identifier, inserts the entity at the store's configured position.
func (s *EntityStore[P, T]) Create(ctx context.Context, p P) (T, error) {
	s.mu.Lock()
	s.creating = true
	s.errMsg = ""
	s.mu.Unlock()

	out, err := s.create(ctx, s.client, p)
	if err == nil && s.entityID(out) == 0 {
		err = domain.ErrInvalidResponse
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creating = false
	if err != nil {
		s.errMsg = s.failureMessage(s.createMsg, err)
		observability.ObserveStore(s.name, "create", "error")
		log.Warn().Str("store", s.name).Err(err).Msg("create failed")
		var zero T
		return zero, err
	}
	if s.pos == insertTail {
		s.items = append(s.items, out)
	} else {
		s.items = append([]T{out}, s.items...)
	}
	observability.ObserveStore(s.name, "create", "ok")
	return out, nil
}

// Snapshot returns a copy safe to hand to the presentation layer.
func (s *EntityStore[P, T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return Snapshot[T]{Items: items, Loading: s.loading, Creating: s.creating, Error: s.errMsg}
}

func (s *EntityStore[P, T]) failureMessage(op shared.MessageKey, err error) string {
	return failureText(s.msgs, op, err)
}

// failureText prefers the server-supplied message, then the taxonomy
// defaults, then the per-operation fallback.
func failureText(msgs shared.Messages, op shared.MessageKey, err error) string {
	var re *domain.RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return msgs.Get(shared.MsgRequiredFields)
	}
	if errors.Is(err, domain.ErrInvalidResponse) {
		return msgs.Get(shared.MsgInvalidResponse)
	}
	return msgs.Get(op)
}
