// internal/adapters/backoffice/client.go
package backoffice

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"voyage_backoffice/internal/adapters/observability"
	"voyage_backoffice/internal/domain"
)

// Client talks to the travel-agency backend. Reads are rate-limited and
// retried on transient failures; writes (creates, workflow transitions) are
// never retried automatically; the operator re-triggers the action.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Reference data ----

func (c *Client) ListCountries(ctx context.Context) ([]domain.Country, error) {
	var out []domain.Country
	return out, c.get(ctx, "/exigence-destination/pays", &out)
}

func (c *Client) GetCountryDetail(ctx context.Context, id int64) (domain.CountryDetail, error) {
	var out domain.CountryDetail
	return out, c.get(ctx, fmt.Sprintf("/exigence-destination/pays/%d", id), &out)
}

// CreateCountry sends the multipart form the backend expects: a "pays" text
// field plus the "photo" file part.
func (c *Client) CreateCountry(ctx context.Context, p domain.CountryCreate) (domain.Country, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("pays", p.Name); err != nil {
		return domain.Country{}, err
	}
	name := p.PhotoName
	if name == "" {
		name = "photo"
	}
	fw, err := mw.CreateFormFile("photo", name)
	if err != nil {
		return domain.Country{}, err
	}
	if _, err := fw.Write(p.Photo); err != nil {
		return domain.Country{}, err
	}
	if err := mw.Close(); err != nil {
		return domain.Country{}, err
	}

	var out domain.Country
	if err := c.post(ctx, "/exigence-destination/pays", &buf, mw.FormDataContentType(), &out); err != nil {
		return domain.Country{}, err
	}
	return out, requireID(out.ID)
}

func (c *Client) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	var out []domain.Destination
	return out, c.get(ctx, "/exigence-destination/destination", &out)
}

func (c *Client) CreateDestination(ctx context.Context, p domain.DestinationCreate) (domain.Destination, error) {
	var out domain.Destination
	if err := c.postJSON(ctx, "/exigence-destination/destination", p, &out); err != nil {
		return domain.Destination{}, err
	}
	return out, requireID(out.ID)
}

func (c *Client) ListRequirements(ctx context.Context) ([]domain.Requirement, error) {
	var out []domain.Requirement
	return out, c.get(ctx, "/exigence-destination/exigence", &out)
}

func (c *Client) CreateRequirement(ctx context.Context, p domain.RequirementCreate) (domain.Requirement, error) {
	var out domain.Requirement
	if err := c.postJSON(ctx, "/exigence-destination/exigence", p, &out); err != nil {
		return domain.Requirement{}, err
	}
	return out, requireID(out.ID)
}

func (c *Client) ListAssociations(ctx context.Context) ([]domain.Association, error) {
	var out []domain.Association
	return out, c.get(ctx, "/exigence-destination/pays-voyage", &out)
}

func (c *Client) CreateAssociation(ctx context.Context, p domain.AssociationCreate) (domain.Association, error) {
	var out domain.Association
	if err := c.postJSON(ctx, "/exigence-destination/pays-voyage", p, &out); err != nil {
		return domain.Association{}, err
	}
	return out, requireID(out.ID)
}

func (c *Client) ListServiceParameters(ctx context.Context) ([]domain.ServiceParameter, error) {
	var out []domain.ServiceParameter
	return out, c.get(ctx, "/service-specifique", &out)
}

func (c *Client) CreateServiceParameter(ctx context.Context, p domain.ServiceParameterCreate) (domain.ServiceParameter, error) {
	var out domain.ServiceParameter
	if err := c.postJSON(ctx, "/service-specifique", p, &out); err != nil {
		return domain.ServiceParameter{}, err
	}
	return out, requireID(out.ID)
}

func (c *Client) ListCancellationReasons(ctx context.Context) ([]domain.CancellationReason, error) {
	var out []domain.CancellationReason
	return out, c.get(ctx, "/motif-annulation", &out)
}

// ---- Hotel reservation workflow ----

func (c *Client) GetReservation(ctx context.Context, id int64) (domain.ReservationHeader, error) {
	var out domain.ReservationHeader
	return out, c.get(ctx, fmt.Sprintf("/dossier-hotel/%d", id), &out)
}

func (c *Client) Approve(ctx context.Context, id int64, in domain.ApproveInput) error {
	return c.postJSON(ctx, c.actionPath(id, domain.ActionApprove), in, nil)
}

func (c *Client) IssueTicket(ctx context.Context, id int64, in domain.TicketInput) error {
	return c.postJSON(ctx, c.actionPath(id, domain.ActionIssueTicket), in, nil)
}

func (c *Client) IssueInvoice(ctx context.Context, id int64, in domain.InvoiceInput) error {
	return c.postJSON(ctx, c.actionPath(id, domain.ActionIssueInvoice), in, nil)
}

func (c *Client) Settle(ctx context.Context, id int64) error {
	return c.postJSON(ctx, c.actionPath(id, domain.ActionSettle), struct{}{}, nil)
}

func (c *Client) Cancel(ctx context.Context, id int64, in domain.CancelInput) error {
	return c.postJSON(ctx, c.actionPath(id, domain.ActionCancel), in, nil)
}

func (c *Client) ReserveLine(ctx context.Context, id int64, in domain.LineReserveInput) error {
	return c.postJSON(ctx, c.actionPath(id, domain.ActionReserveLine), in, nil)
}

func (c *Client) ConfirmLine(ctx context.Context, id int64, in domain.LineConfirmInput) error {
	return c.postJSON(ctx, c.actionPath(id, domain.ActionConfirmLine), in, nil)
}

func (c *Client) actionPath(id int64, a domain.Action) string {
	return fmt.Sprintf("/dossier-hotel/%d/%s", id, a)
}

// ---- Internals ----

// envelope is the backend's response wrapper. Some endpoints return the
// loose {data} form, some the bare payload; all three are accepted.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeBody(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		// success=false on a 2xx is a protocol violation, data or not
		if env.Success != nil && !*env.Success {
			return fmt.Errorf("%w: success=false", domain.ErrInvalidResponse)
		}
		if env.Data != nil {
			return json.Unmarshal(env.Data, out)
		}
	}
	return json.Unmarshal(body, out)
}

// requireID enforces the create contract: a 2xx acknowledgment without a
// server-assigned identifier is not a success.
func requireID(id int64) error {
	if id == 0 {
		return fmt.Errorf("%w: missing identifier", domain.ErrInvalidResponse)
	}
	return nil
}

// remoteErr builds the error for a non-2xx response, preferring the
// server-supplied message. The localized per-operation fallback is applied
// upstream where the operation is known.
func remoteErr(status int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &domain.RemoteError{Status: status, Message: env.Message}
	}
	return &domain.RemoteError{Status: status}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "voyage-backoffice/1.0")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// get performs a GET with client-side rate limiting, retries on 429 and
// transient 5xx (honoring Retry-After), and envelope decode into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	var lastErr error
	for i := 0; i < 4; i++ {
		// every attempt takes a limiter token, retries included
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}

		// fresh request each attempt
		req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
		if err != nil {
			return err
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveBackend(path, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return err
			}
			return decodeBody(body, out)

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = &domain.RemoteError{Status: resp.StatusCode}
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return remoteErr(resp.StatusCode, b)
		}
	}

	return lastErr
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.post(ctx, path, bytes.NewReader(b), "application/json", out)
}

// post issues a single, non-retried write.
func (c *Client) post(ctx context.Context, path string, body io.Reader, contentType string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body, contentType)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveBackend(path, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteErr(resp.StatusCode, raw)
	}
	return decodeBody(raw, out)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand to stay concurrency-safe.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
