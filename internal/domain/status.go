package domain

import "fmt"

// Status values come from the backend unchanged; the French vocabulary is
// part of the wire contract.
type Status string

const (
	StatusCreated       Status = "CREER"
	StatusPOToApprove   Status = "BC_CLIENT_A_APPROUVER"
	StatusTicketIssued  Status = "BILLET_EMIS"
	StatusInvoiceIssued Status = "FACTURE_EMISE"
	StatusSettled       Status = "FACTURE_REGLEE"
	StatusCancelled     Status = "ANNULER"

	// Line-level only.
	StatusDone Status = "FAIT"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCreated, StatusPOToApprove, StatusTicketIssued,
		StatusInvoiceIssued, StatusSettled, StatusCancelled, StatusDone:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

// Action is a workflow transition on a reservation header or line.
type Action string

const (
	ActionApprove      Action = "approuver-bc"
	ActionIssueTicket  Action = "emission-billet"
	ActionIssueInvoice Action = "emission-facture"
	ActionSettle       Action = "regler-facture"
	ActionCancel       Action = "annuler"

	ActionReserveLine Action = "reserver-ligne"
	ActionConfirmLine Action = "confirmer-ligne"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApprove, ActionIssueTicket, ActionIssueInvoice,
		ActionSettle, ActionCancel, ActionReserveLine, ActionConfirmLine:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action: %s", s)
	}
}

// headerGuards maps each header action to the single status it is allowed
// from. Cancel is handled separately: it is allowed from every status
// except ANNULER itself.
var headerGuards = map[Action]Status{
	ActionApprove:      StatusCreated,
	ActionIssueTicket:  StatusPOToApprove,
	ActionIssueInvoice: StatusTicketIssued,
	ActionSettle:       StatusInvoiceIssued,
}

// next encodes the happy-path successor for each header action.
var next = map[Action]Status{
	ActionApprove:      StatusPOToApprove,
	ActionIssueTicket:  StatusTicketIssued,
	ActionIssueInvoice: StatusInvoiceIssued,
	ActionSettle:       StatusSettled,
}

// CanApply reports whether a header action is permitted from the current
// header status. Attempting a forbidden action must have no effect.
func CanApply(a Action, current Status) bool {
	if a == ActionCancel {
		return current != StatusCancelled
	}
	want, ok := headerGuards[a]
	return ok && current == want
}

// NextStatus returns the status a header action leads to.
func NextStatus(a Action) Status {
	if a == ActionCancel {
		return StatusCancelled
	}
	return next[a]
}

// CanReserveLine gates the per-line "reserve" capture.
func CanReserveLine(line Status) bool { return line == StatusCreated }

// CanConfirmLine gates the per-line "confirm" capture: the line must be
// done AND the header must still be awaiting PO approval.
func CanConfirmLine(line, header Status) bool {
	return line == StatusDone && header == StatusPOToApprove
}
