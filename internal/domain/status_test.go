package domain_test

import (
	"testing"

	"voyage_backoffice/internal/domain"
)

func TestCanApply_GuardTable(t *testing.T) {
	all := []domain.Status{
		domain.StatusCreated, domain.StatusPOToApprove, domain.StatusTicketIssued,
		domain.StatusInvoiceIssued, domain.StatusSettled, domain.StatusCancelled,
	}
	allowed := map[domain.Action]domain.Status{
		domain.ActionApprove:      domain.StatusCreated,
		domain.ActionIssueTicket:  domain.StatusPOToApprove,
		domain.ActionIssueInvoice: domain.StatusTicketIssued,
		domain.ActionSettle:       domain.StatusInvoiceIssued,
	}

	for a, want := range allowed {
		for _, st := range all {
			got := domain.CanApply(a, st)
			if (st == want) != got {
				t.Errorf("CanApply(%s, %s) = %v", a, st, got)
			}
		}
	}
}

func TestCanApply_CancelFromAnyExceptCancelled(t *testing.T) {
	for _, st := range []domain.Status{
		domain.StatusCreated, domain.StatusPOToApprove, domain.StatusTicketIssued,
		domain.StatusInvoiceIssued, domain.StatusSettled,
	} {
		if !domain.CanApply(domain.ActionCancel, st) {
			t.Errorf("cancel should be allowed from %s", st)
		}
	}
	if domain.CanApply(domain.ActionCancel, domain.StatusCancelled) {
		t.Error("cancel must not be allowed from ANNULER")
	}
}

func TestNextStatus(t *testing.T) {
	cases := map[domain.Action]domain.Status{
		domain.ActionApprove:      domain.StatusPOToApprove,
		domain.ActionIssueTicket:  domain.StatusTicketIssued,
		domain.ActionIssueInvoice: domain.StatusInvoiceIssued,
		domain.ActionSettle:       domain.StatusSettled,
		domain.ActionCancel:       domain.StatusCancelled,
	}
	for a, want := range cases {
		if got := domain.NextStatus(a); got != want {
			t.Errorf("NextStatus(%s) = %s, want %s", a, got, want)
		}
	}
}

func TestLineGuards(t *testing.T) {
	if !domain.CanReserveLine(domain.StatusCreated) {
		t.Error("reserve should be allowed while the line is CREER")
	}
	if domain.CanReserveLine(domain.StatusDone) {
		t.Error("reserve must be blocked once the line is FAIT")
	}
	if !domain.CanConfirmLine(domain.StatusDone, domain.StatusPOToApprove) {
		t.Error("confirm should be allowed for FAIT line under BC_CLIENT_A_APPROUVER")
	}
	if domain.CanConfirmLine(domain.StatusDone, domain.StatusTicketIssued) {
		t.Error("confirm must be blocked once the header moved on")
	}
	if domain.CanConfirmLine(domain.StatusCreated, domain.StatusPOToApprove) {
		t.Error("confirm must be blocked while the line is CREER")
	}
}

func TestParse(t *testing.T) {
	if _, err := domain.ParseStatus("CREER"); err != nil {
		t.Fatalf("ParseStatus: %v", err)
	}
	if _, err := domain.ParseStatus("INCONNU"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if _, err := domain.ParseAction("annuler"); err != nil {
		t.Fatalf("ParseAction: %v", err)
	}
	if _, err := domain.ParseAction("detruire"); err == nil {
		t.Fatal("expected error for unknown action")
	}
}
