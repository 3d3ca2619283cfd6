package app

import (
	"context"
	"encoding/json"
	"sync"

	"voyage_backoffice/internal/domain"
)

// fakeClient lets each test swap in the behaviors it cares about and
// counts outbound calls so "must not reach the network" is observable.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	countries    []domain.Country
	detail       domain.CountryDetail
	destinations []domain.Destination
	requirements []domain.Requirement
	associations []domain.Association
	params       []domain.ServiceParameter
	reasons      []domain.CancellationReason
	header       domain.ReservationHeader

	err error // returned by every operation when set

	onCreateCountry     func(domain.CountryCreate) (domain.Country, error)
	onCreateDestination func(domain.DestinationCreate) (domain.Destination, error)
	onCreateRequirement func(domain.RequirementCreate) (domain.Requirement, error)
	onTransition        func(action string) error
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}}
}

func (f *fakeClient) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeClient) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) ListCountries(ctx context.Context) ([]domain.Country, error) {
	f.count("ListCountries")
	return f.countries, f.err
}

func (f *fakeClient) GetCountryDetail(ctx context.Context, id int64) (domain.CountryDetail, error) {
	f.count("GetCountryDetail")
	return f.detail, f.err
}

func (f *fakeClient) CreateCountry(ctx context.Context, p domain.CountryCreate) (domain.Country, error) {
	f.count("CreateCountry")
	if f.onCreateCountry != nil {
		return f.onCreateCountry(p)
	}
	return domain.Country{}, f.err
}

func (f *fakeClient) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	f.count("ListDestinations")
	return f.destinations, f.err
}

func (f *fakeClient) CreateDestination(ctx context.Context, p domain.DestinationCreate) (domain.Destination, error) {
	f.count("CreateDestination")
	if f.onCreateDestination != nil {
		return f.onCreateDestination(p)
	}
	return domain.Destination{}, f.err
}

func (f *fakeClient) ListRequirements(ctx context.Context) ([]domain.Requirement, error) {
	f.count("ListRequirements")
	return f.requirements, f.err
}

func (f *fakeClient) CreateRequirement(ctx context.Context, p domain.RequirementCreate) (domain.Requirement, error) {
	f.count("CreateRequirement")
	if f.onCreateRequirement != nil {
		return f.onCreateRequirement(p)
	}
	return domain.Requirement{}, f.err
}

func (f *fakeClient) ListAssociations(ctx context.Context) ([]domain.Association, error) {
	f.count("ListAssociations")
	return f.associations, f.err
}

func (f *fakeClient) CreateAssociation(ctx context.Context, p domain.AssociationCreate) (domain.Association, error) {
	f.count("CreateAssociation")
	return domain.Association{}, f.err
}

func (f *fakeClient) ListServiceParameters(ctx context.Context) ([]domain.ServiceParameter, error) {
	f.count("ListServiceParameters")
	return f.params, f.err
}

func (f *fakeClient) CreateServiceParameter(ctx context.Context, p domain.ServiceParameterCreate) (domain.ServiceParameter, error) {
	f.count("CreateServiceParameter")
	return domain.ServiceParameter{}, f.err
}

func (f *fakeClient) ListCancellationReasons(ctx context.Context) ([]domain.CancellationReason, error) {
	f.count("ListCancellationReasons")
	return f.reasons, f.err
}

func (f *fakeClient) GetReservation(ctx context.Context, id int64) (domain.ReservationHeader, error) {
	f.count("GetReservation")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.header, f.err
}

func (f *fakeClient) setHeaderStatus(st domain.Status) {
	f.mu.Lock()
	f.header.Status = st
	f.mu.Unlock()
}

func (f *fakeClient) transition(action string) error {
	f.count(action)
	if f.onTransition != nil {
		return f.onTransition(action)
	}
	return f.err
}

func (f *fakeClient) Approve(ctx context.Context, id int64, in domain.ApproveInput) error {
	return f.transition("Approve")
}

func (f *fakeClient) IssueTicket(ctx context.Context, id int64, in domain.TicketInput) error {
	return f.transition("IssueTicket")
}

func (f *fakeClient) IssueInvoice(ctx context.Context, id int64, in domain.InvoiceInput) error {
	return f.transition("IssueInvoice")
}

func (f *fakeClient) Settle(ctx context.Context, id int64) error {
	return f.transition("Settle")
}

func (f *fakeClient) Cancel(ctx context.Context, id int64, in domain.CancelInput) error {
	return f.transition("Cancel")
}

func (f *fakeClient) ReserveLine(ctx context.Context, id int64, in domain.LineReserveInput) error {
	return f.transition("ReserveLine")
}

func (f *fakeClient) ConfirmLine(ctx context.Context, id int64, in domain.LineConfirmInput) error {
	return f.transition("ConfirmLine")
}

var _ domain.BackofficeClient = (*fakeClient)(nil)

// fakeCache is an in-memory Cache port for refdata tests.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.store[key] = b
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.store, key)
	c.mu.Unlock()
	return nil
}

var _ domain.Cache = (*fakeCache)(nil)
