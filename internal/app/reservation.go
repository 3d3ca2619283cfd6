package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"voyage_backoffice/internal/domain"
	"voyage_backoffice/internal/shared"
)

// ReservationService drives the hotel-reservation workflow. Every action is
// gated by the last server-read status: a forbidden action returns a
// TransitionError without touching the backend, and every successful
// transition re-fetches the whole header+lines aggregate so the displayed
// status always reflects the last server read. Nothing is mutated
// optimistically and nothing is retried automatically.
type ReservationService struct {
	client domain.BackofficeClient
	msgs   shared.Messages
	forms  *FormValidator

	mu      sync.Mutex
	headers map[int64]domain.ReservationHeader
}

func NewReservationService(c domain.BackofficeClient, msgs shared.Messages, forms *FormValidator) *ReservationService {
	return &ReservationService{
		client:  c,
		msgs:    msgs,
		forms:   forms,
		headers: make(map[int64]domain.ReservationHeader),
	}
}

// Load fetches the aggregate and records it as the current server read.
func (s *ReservationService) Load(ctx context.Context, id int64) (domain.ReservationHeader, error) {
	h, err := s.client.GetReservation(ctx, id)
	if err != nil {
		return domain.ReservationHeader{}, err
	}
	s.mu.Lock()
	s.headers[id] = h
	s.mu.Unlock()
	return h, nil
}

// Current returns the last-read aggregate, if any.
func (s *ReservationService) Current(id int64) (domain.ReservationHeader, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.headers[id]
	return h, ok
}

// PrefillTotals returns the approve dialog's pre-filled sums over lines.
// The operator can still override both values before submitting.
func (s *ReservationService) PrefillTotals(id int64) (hotel, commission float64, ok bool) {
	h, ok := s.Current(id)
	if !ok {
		return 0, 0, false
	}
	hotel, commission = h.TotalsOverLines()
	return hotel, commission, true
}

func (s *ReservationService) Approve(ctx context.Context, id int64, in domain.ApproveInput) (domain.ReservationHeader, error) {
	return s.transition(ctx, id, domain.ActionApprove, &in, func(ctx context.Context) error {
		return s.client.Approve(ctx, id, in)
	})
}

func (s *ReservationService) IssueTicket(ctx context.Context, id int64, in domain.TicketInput) (domain.ReservationHeader, error) {
	return s.transition(ctx, id, domain.ActionIssueTicket, &in, func(ctx context.Context) error {
		return s.client.IssueTicket(ctx, id, in)
	})
}

func (s *ReservationService) IssueInvoice(ctx context.Context, id int64, in domain.InvoiceInput) (domain.ReservationHeader, error) {
	return s.transition(ctx, id, domain.ActionIssueInvoice, &in, func(ctx context.Context) error {
		return s.client.IssueInvoice(ctx, id, in)
	})
}

func (s *ReservationService) Settle(ctx context.Context, id int64) (domain.ReservationHeader, error) {
	return s.transition(ctx, id, domain.ActionSettle, nil, func(ctx context.Context) error {
		return s.client.Settle(ctx, id)
	})
}

func (s *ReservationService) Cancel(ctx context.Context, id int64, in domain.CancelInput) (domain.ReservationHeader, error) {
	return s.transition(ctx, id, domain.ActionCancel, &in, func(ctx context.Context) error {
		return s.client.Cancel(ctx, id, in)
	})
}

// ReserveLine opens the reservation capture for one line; allowed only
// while the line is still CREER.
func (s *ReservationService) ReserveLine(ctx context.Context, id int64, in domain.LineReserveInput) (domain.ReservationHeader, error) {
	h, err := s.currentOrLoad(ctx, id)
	if err != nil {
		return domain.ReservationHeader{}, err
	}
	line, err := findLine(h, in.LineID)
	if err != nil {
		return h, err
	}
	if !domain.CanReserveLine(line.Status) {
		return h, &domain.TransitionError{Action: domain.ActionReserveLine, Status: line.Status}
	}
	if err := s.forms.Check(&in); err != nil {
		return h, err
	}
	if err := s.client.ReserveLine(ctx, id, in); err != nil {
		return h, err
	}
	return s.Load(ctx, id)
}

// ConfirmLine is allowed only while the line is FAIT and the header is
// still awaiting PO approval.
func (s *ReservationService) ConfirmLine(ctx context.Context, id int64, in domain.LineConfirmInput) (domain.ReservationHeader, error) {
	h, err := s.currentOrLoad(ctx, id)
	if err != nil {
		return domain.ReservationHeader{}, err
	}
	line, err := findLine(h, in.LineID)
	if err != nil {
		return h, err
	}
	if !domain.CanConfirmLine(line.Status, h.Status) {
		return h, &domain.TransitionError{Action: domain.ActionConfirmLine, Status: line.Status}
	}
	if err := s.forms.Check(&in); err != nil {
		return h, err
	}
	if err := s.client.ConfirmLine(ctx, id, in); err != nil {
		return h, err
	}
	return s.Load(ctx, id)
}

// FailureMessage resolves the banner text for a failed workflow action.
func (s *ReservationService) FailureMessage(a domain.Action, err error) string {
	return failureText(s.msgs, actionMessage(a), err)
}

func actionMessage(a domain.Action) shared.MessageKey {
	switch a {
	case domain.ActionApprove:
		return shared.MsgApprove
	case domain.ActionIssueTicket:
		return shared.MsgIssueTicket
	case domain.ActionIssueInvoice:
		return shared.MsgIssueInvoice
	case domain.ActionSettle:
		return shared.MsgSettle
	case domain.ActionCancel:
		return shared.MsgCancel
	case domain.ActionReserveLine:
		return shared.MsgReserveLine
	case domain.ActionConfirmLine:
		return shared.MsgConfirmLine
	}
	return shared.MsgFetchReservation
}

func (s *ReservationService) transition(ctx context.Context, id int64, a domain.Action, in any, call func(context.Context) error) (domain.ReservationHeader, error) {
	h, err := s.currentOrLoad(ctx, id)
	if err != nil {
		return domain.ReservationHeader{}, err
	}
	if !domain.CanApply(a, h.Status) {
		return h, &domain.TransitionError{Action: a, Status: h.Status}
	}
	if in != nil {
		if err := s.forms.Check(in); err != nil {
			return h, err
		}
	}
	if err := call(ctx); err != nil {
		log.Warn().Int64("dossier", id).Str("action", string(a)).Err(err).Msg("transition failed")
		return h, err
	}
	// server is authoritative: always re-read after a transition
	return s.Load(ctx, id)
}

func (s *ReservationService) currentOrLoad(ctx context.Context, id int64) (domain.ReservationHeader, error) {
	if h, ok := s.Current(id); ok {
		return h, nil
	}
	return s.Load(ctx, id)
}

func findLine(h domain.ReservationHeader, lineID int64) (domain.ReservationLine, error) {
	for _, l := range h.Lines {
		if l.ID == lineID {
			return l, nil
		}
	}
	return domain.ReservationLine{}, fmt.Errorf("ligne %d introuvable dans le dossier %d", lineID, h.ID)
}
