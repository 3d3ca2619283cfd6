// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"voyage_backoffice/internal/app"
	"voyage_backoffice/internal/domain"
)

// Handlers serves the screen-state API from the composed application
// state. PhotoBase prefixes the photo asset paths the backend returns.
type Handlers struct {
	State     *app.State
	PhotoBase string
}

type problem struct {
	Type   string   `json:"type"`
	Title  string   `json:"title"`
	Status int      `json:"status"`
	Detail string   `json:"detail,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/pays", h.listCountries)
		r.Get("/pays/{id}", h.countryDetail)
		r.Post("/pays", h.createCountry)

		r.Get("/destinations", listEndpoint(h.State.Destinations))
		r.Post("/destinations", createEndpoint(h.State.Destinations, h.State.Forms))

		r.Get("/exigences", listEndpoint(h.State.Requirements))
		r.Post("/exigences", createEndpoint(h.State.Requirements, h.State.Forms))

		r.Get("/associations", listEndpoint(h.State.Associations))
		r.Post("/associations", createEndpoint(h.State.Associations, h.State.Forms))

		r.Get("/parametres-service", listEndpoint(h.State.ServiceParams))
		r.Post("/parametres-service", createEndpoint(h.State.ServiceParams, h.State.Forms))

		r.Get("/motifs-annulation", h.listCancellationReasons)

		r.Get("/dossiers-hotel/{id}", h.getReservation)
		r.Post("/dossiers-hotel/{id}/actions/{action}", h.headerAction)
		r.Post("/dossiers-hotel/{id}/lignes/{ligneId}/actions/{action}", h.lineAction)
	})
}

// listEndpoint refreshes the store and returns its snapshot. A fetch
// failure is part of the snapshot (error banner + prior items), not an
// HTTP failure.
func listEndpoint[P, T any](st *app.EntityStore[P, T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = st.Refresh(r.Context())
		writeJSON(w, http.StatusOK, st.Snapshot())
	}
}

func createEndpoint[P, T any](st *app.EntityStore[P, T], forms *app.FormValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p P
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid body", "corps de requête illisible", nil)
			return
		}
		if err := forms.Check(&p); err != nil {
			writeValidation(w, forms.Message(), err)
			return
		}
		out, err := st.Create(r.Context(), p)
		if err != nil {
			writeProblem(w, http.StatusBadGateway, "Backend", st.Snapshot().Error, nil)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// ---- countries (multipart create + master/detail) ----

func (h *Handlers) listCountries(w http.ResponseWriter, r *http.Request) {
	// showing the list again means the drill-down selection is gone
	h.State.Countries.ClearSelected()
	_ = h.State.Countries.Refresh(r.Context())
	snap := h.State.Countries.Snapshot()
	for i := range snap.Items {
		snap.Items[i].Photo = h.photoURL(snap.Items[i].Photo)
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) countryDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number", nil)
		return
	}
	_ = h.State.Countries.FetchDetails(r.Context(), id)
	d := h.State.Countries.Details()
	if d.Details != nil {
		d.Details.Photo = h.photoURL(d.Details.Photo)
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) createCountry(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "formulaire multipart attendu", nil)
		return
	}
	p := domain.CountryCreate{Name: r.FormValue("pays")}
	if f, hdr, err := r.FormFile("photo"); err == nil {
		b, rerr := io.ReadAll(f)
		f.Close()
		if rerr != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid body", "photo illisible", nil)
			return
		}
		p.Photo = b
		p.PhotoName = hdr.Filename
	}
	if err := h.State.Forms.Check(&p); err != nil {
		writeValidation(w, h.State.Forms.Message(), err)
		return
	}
	out, err := h.State.Countries.Create(r.Context(), p)
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "Backend", h.State.Countries.Snapshot().Error, nil)
		return
	}
	out.Photo = h.photoURL(out.Photo)
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) photoURL(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return strings.TrimRight(h.PhotoBase, "/") + "/" + strings.TrimLeft(p, "/")
}

// ---- reference data ----

func (h *Handlers) listCancellationReasons(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.State.RefData.CancellationReasons(r.Context())
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "Backend", remoteDetail(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, reasons)
}

// ---- hotel reservation workflow ----

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number", nil)
		return
	}
	hdr, err := h.State.Reservations.Load(r.Context(), id)
	if err != nil {
		var re *domain.RemoteError
		if errors.As(err, &re) && re.Status == http.StatusNotFound {
			writeProblem(w, http.StatusNotFound, "Not Found", "dossier introuvable", nil)
			return
		}
		writeProblem(w, http.StatusBadGateway, "Backend", remoteDetail(err), nil)
		return
	}
	writeJSON(w, http.StatusOK, hdr)
}

func (h *Handlers) headerAction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number", nil)
		return
	}
	action, err := domain.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Unknown action", err.Error(), nil)
		return
	}

	svc := h.State.Reservations
	var hdr domain.ReservationHeader
	switch action {
	case domain.ActionApprove:
		var in domain.ApproveInput
		if !decodeBody(w, r, &in) {
			return
		}
		hdr, err = svc.Approve(r.Context(), id, in)
	case domain.ActionIssueTicket:
		var in domain.TicketInput
		if !decodeBody(w, r, &in) {
			return
		}
		hdr, err = svc.IssueTicket(r.Context(), id, in)
	case domain.ActionIssueInvoice:
		var in domain.InvoiceInput
		if !decodeBody(w, r, &in) {
			return
		}
		hdr, err = svc.IssueInvoice(r.Context(), id, in)
	case domain.ActionSettle:
		hdr, err = svc.Settle(r.Context(), id)
	case domain.ActionCancel:
		var in domain.CancelInput
		if !decodeBody(w, r, &in) {
			return
		}
		hdr, err = svc.Cancel(r.Context(), id, in)
	default:
		writeProblem(w, http.StatusNotFound, "Unknown action", "action de ligne sur un entête", nil)
		return
	}
	h.finishAction(w, action, hdr, err)
}

func (h *Handlers) lineAction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number", nil)
		return
	}
	lineID, err := strconv.ParseInt(chi.URLParam(r, "ligneId"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "ligneId must be a number", nil)
		return
	}
	action, err := domain.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Unknown action", err.Error(), nil)
		return
	}

	svc := h.State.Reservations
	var hdr domain.ReservationHeader
	switch action {
	case domain.ActionReserveLine:
		var in domain.LineReserveInput
		if !decodeBody(w, r, &in) {
			return
		}
		in.LineID = lineID
		hdr, err = svc.ReserveLine(r.Context(), id, in)
	case domain.ActionConfirmLine:
		var in domain.LineConfirmInput
		if !decodeBody(w, r, &in) {
			return
		}
		in.LineID = lineID
		hdr, err = svc.ConfirmLine(r.Context(), id, in)
	default:
		writeProblem(w, http.StatusNotFound, "Unknown action", "action d'entête sur une ligne", nil)
		return
	}
	h.finishAction(w, action, hdr, err)
}

func (h *Handlers) finishAction(w http.ResponseWriter, action domain.Action, hdr domain.ReservationHeader, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, hdr)
		return
	}
	var te *domain.TransitionError
	if errors.As(err, &te) {
		writeProblem(w, http.StatusConflict, "Transition interdite", te.Error(), nil)
		return
	}
	if domain.IsValidation(err) {
		writeValidation(w, h.State.Reservations.FailureMessage(action, err), err)
		return
	}
	writeProblem(w, http.StatusBadGateway, "Backend", h.State.Reservations.FailureMessage(action, err), nil)
}

// ---- plumbing ----

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "corps de requête illisible", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, fields []string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Fields: fields}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeValidation(w http.ResponseWriter, msg string, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeProblem(w, http.StatusUnprocessableEntity, "Validation", msg, ve.Fields)
		return
	}
	writeProblem(w, http.StatusUnprocessableEntity, "Validation", msg, nil)
}

func remoteDetail(err error) string {
	var re *domain.RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return "backend indisponible"
}
