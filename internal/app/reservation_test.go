package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyage_backoffice/internal/domain"
	"voyage_backoffice/internal/shared"
)

func testReservations(fc *fakeClient) *ReservationService {
	msgs := shared.DefaultMessages()
	return NewReservationService(fc, msgs, NewFormValidator(msgs))
}

func header(st domain.Status, lines ...domain.ReservationLine) domain.ReservationHeader {
	return domain.ReservationHeader{ID: 42, Status: st, Lines: lines}
}

func TestApprove_FromCreated(t *testing.T) {
	fc := newFakeClient()
	fc.header = header(domain.StatusCreated)
	fc.onTransition = func(string) error {
		// backend moves the header; the re-fetch must observe it
		fc.setHeaderStatus(domain.StatusPOToApprove)
		return nil
	}
	svc := testReservations(fc)

	h, err := svc.Approve(context.Background(), 42, domain.ApproveInput{TotalHotel: 1200, TotalComm: 120})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPOToApprove, h.Status)
	assert.Equal(t, 1, fc.callCount("Approve"))
	// displayed status comes from the post-transition server read
	assert.GreaterOrEqual(t, fc.callCount("GetReservation"), 2)
}

func TestApprove_ZeroCommissionIsValid(t *testing.T) {
	fc := newFakeClient()
	fc.header = header(domain.StatusCreated, domain.ReservationLine{
		ID: 1, Status: domain.StatusCreated, TotalPrice: 800, CommissionAmt: 0,
	})
	fc.onTransition = func(string) error {
		fc.setHeaderStatus(domain.StatusPOToApprove)
		return nil
	}
	svc := testReservations(fc)

	_, err := svc.Load(context.Background(), 42)
	require.NoError(t, err)
	hotel, comm, ok := svc.PrefillTotals(42)
	require.True(t, ok)
	assert.Equal(t, 800.0, hotel)
	assert.Zero(t, comm)

	// a dossier with no commission submits the pre-filled zero as-is
	h, err := svc.Approve(context.Background(), 42, domain.ApproveInput{TotalHotel: hotel, TotalComm: comm})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPOToApprove, h.Status)
	assert.Equal(t, 1, fc.callCount("Approve"))
}

func TestDisabledActionHasNoEffect(t *testing.T) {
	fc := newFakeClient()
	fc.header = header(domain.StatusCreated)
	svc := testReservations(fc)

	// issue-ticket requires BC_CLIENT_A_APPROUVER, header is still CREER
	_, err := svc.IssueTicket(context.Background(), 42, domain.TicketInput{
		ClientPORef: "BC-1", TotalHotel: 1200, TotalComm: 120,
	})
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, domain.ActionIssueTicket, te.Action)
	assert.Zero(t, fc.callCount("IssueTicket"), "guarded action must not reach the backend")
}

func TestHappyPathSequence(t *testing.T) {
	fc := newFakeClient()
	fc.header = header(domain.StatusCreated)
	fc.onTransition = func(action string) error {
		switch action {
		case "Approve":
			fc.setHeaderStatus(domain.StatusPOToApprove)
		case "IssueTicket":
			fc.setHeaderStatus(domain.StatusTicketIssued)
		case "IssueInvoice":
			fc.setHeaderStatus(domain.StatusInvoiceIssued)
		case "Settle":
			fc.setHeaderStatus(domain.StatusSettled)
		}
		return nil
	}
	svc := testReservations(fc)
	ctx := context.Background()

	h, err := svc.Approve(ctx, 42, domain.ApproveInput{TotalHotel: 100, TotalComm: 10})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPOToApprove, h.Status)

	h, err = svc.IssueTicket(ctx, 42, domain.TicketInput{ClientPORef: "BC-9", TotalHotel: 100, TotalComm: 10})
	require.NoError(t, err)
	require.Equal(t, domain.StatusTicketIssued, h.Status)

	h, err = svc.IssueInvoice(ctx, 42, domain.InvoiceInput{InvoiceRef: "FA-3"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusInvoiceIssued, h.Status)

	h, err = svc.Settle(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, domain.StatusSettled, h.Status)
}

func TestCancel_Guards(t *testing.T) {
	for _, st := range []domain.Status{
		domain.StatusCreated, domain.StatusPOToApprove,
		domain.StatusTicketIssued, domain.StatusInvoiceIssued, domain.StatusSettled,
	} {
		t.Run(string(st), func(t *testing.T) {
			fc := newFakeClient()
			fc.header = header(st)
			fc.onTransition = func(string) error {
				fc.setHeaderStatus(domain.StatusCancelled)
				return nil
			}
			svc := testReservations(fc)
			h, err := svc.Cancel(context.Background(), 42, domain.CancelInput{ReasonID: 3, Condition: "sans frais"})
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, h.Status)
		})
	}

	t.Run("ANNULER is absorbing", func(t *testing.T) {
		fc := newFakeClient()
		fc.header = header(domain.StatusCancelled)
		svc := testReservations(fc)
		_, err := svc.Cancel(context.Background(), 42, domain.CancelInput{ReasonID: 3, Condition: "sans frais"})
		var te *domain.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Zero(t, fc.callCount("Cancel"))
	})
}

func TestCancel_RequiresReasonAndCondition(t *testing.T) {
	fc := newFakeClient()
	fc.header = header(domain.StatusCreated)
	svc := testReservations(fc)

	_, err := svc.Cancel(context.Background(), 42, domain.CancelInput{Condition: "   "})
	require.True(t, domain.IsValidation(err), "expected validation failure, got %v", err)
	assert.Zero(t, fc.callCount("Cancel"), "validation failure must not reach the backend")
}

func TestLineActions_Guards(t *testing.T) {
	lineCreated := domain.ReservationLine{ID: 1, Status: domain.StatusCreated, Reference: "L1"}
	lineDone := domain.ReservationLine{ID: 2, Status: domain.StatusDone, Reference: "L2"}

	t.Run("reserve only while line CREER", func(t *testing.T) {
		fc := newFakeClient()
		fc.header = header(domain.StatusCreated, lineCreated, lineDone)
		svc := testReservations(fc)

		_, err := svc.ReserveLine(context.Background(), 42, domain.LineReserveInput{LineID: 1, ReservationNum: "R-77"})
		require.NoError(t, err)
		assert.Equal(t, 1, fc.callCount("ReserveLine"))

		_, err = svc.ReserveLine(context.Background(), 42, domain.LineReserveInput{LineID: 2, ReservationNum: "R-78"})
		var te *domain.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 1, fc.callCount("ReserveLine"))
	})

	t.Run("confirm needs line FAIT and header BC_CLIENT_A_APPROUVER", func(t *testing.T) {
		fc := newFakeClient()
		fc.header = header(domain.StatusPOToApprove, lineDone)
		svc := testReservations(fc)

		_, err := svc.ConfirmLine(context.Background(), 42, domain.LineConfirmInput{
			LineID: 2, ConfirmedUnitPrice: 100, ConfirmedTotalPrice: 300,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, fc.callCount("ConfirmLine"))
	})

	t.Run("confirm blocked once header moved on", func(t *testing.T) {
		fc := newFakeClient()
		fc.header = header(domain.StatusTicketIssued, lineDone)
		svc := testReservations(fc)

		_, err := svc.ConfirmLine(context.Background(), 42, domain.LineConfirmInput{
			LineID: 2, ConfirmedUnitPrice: 100, ConfirmedTotalPrice: 300,
		})
		var te *domain.TransitionError
		require.ErrorAs(t, err, &te)
		assert.Zero(t, fc.callCount("ConfirmLine"))
	})
}

func TestPrefillTotals_SumsOverLines(t *testing.T) {
	fc := newFakeClient()
	fc.header = header(domain.StatusCreated,
		domain.ReservationLine{ID: 1, TotalPrice: 800, CommissionAmt: 80},
		domain.ReservationLine{ID: 2, TotalPrice: 400, CommissionAmt: 40},
	)
	svc := testReservations(fc)

	_, err := svc.Load(context.Background(), 42)
	require.NoError(t, err)

	hotel, comm, ok := svc.PrefillTotals(42)
	require.True(t, ok)
	assert.Equal(t, 1200.0, hotel)
	assert.Equal(t, 120.0, comm)
}

func TestTransitionFailureKeepsLastRead(t *testing.T) {
	fc := newFakeClient()
	fc.header = header(domain.StatusCreated)
	fc.onTransition = func(string) error {
		return &domain.RemoteError{Status: 500, Message: "indisponible"}
	}
	svc := testReservations(fc)

	h, err := svc.Approve(context.Background(), 42, domain.ApproveInput{TotalHotel: 1, TotalComm: 1})
	require.Error(t, err)
	assert.Equal(t, domain.StatusCreated, h.Status, "no optimistic mutation on failure")
	assert.Equal(t, "indisponible", svc.FailureMessage(domain.ActionApprove, err))
}
