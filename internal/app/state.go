package app

import (
	"context"
	"time"

	"voyage_backoffice/internal/domain"
	"voyage_backoffice/internal/shared"
)

// State is the composed application state: one independently addressable
// sub-state per entity, plus the reservation workflow and the cached
// reference data. It is built once in main and injected into the handlers;
// there is no package-level instance.
type State struct {
	Countries     *CountryStore
	Destinations  *EntityStore[domain.DestinationCreate, domain.Destination]
	Requirements  *EntityStore[domain.RequirementCreate, domain.Requirement]
	Associations  *EntityStore[domain.AssociationCreate, domain.Association]
	ServiceParams *EntityStore[domain.ServiceParameterCreate, domain.ServiceParameter]

	Reservations *ReservationService
	RefData      *RefDataService
	Forms        *FormValidator
}

func NewState(client domain.BackofficeClient, cache domain.Cache, msgs shared.Messages, cacheTTL time.Duration) *State {
	forms := NewFormValidator(msgs)
	return &State{
		Countries: newCountryStore(client, msgs),
		Destinations: &EntityStore[domain.DestinationCreate, domain.Destination]{
			name: "destinations",
			pos:  insertHead,
			list: func(ctx context.Context, c domain.BackofficeClient) ([]domain.Destination, error) {
				return c.ListDestinations(ctx)
			},
			create: func(ctx context.Context, c domain.BackofficeClient, p domain.DestinationCreate) (domain.Destination, error) {
				return c.CreateDestination(ctx, p)
			},
			entityID:  func(d domain.Destination) int64 { return d.ID },
			client:    client,
			msgs:      msgs,
			fetchMsg:  shared.MsgFetchDestinations,
			createMsg: shared.MsgCreateDestination,
		},
		// The requirement store appends new rows instead of prepending.
		// Inherited screen behavior, kept on purpose.
		Requirements: &EntityStore[domain.RequirementCreate, domain.Requirement]{
			name: "exigences",
			pos:  insertTail,
			list: func(ctx context.Context, c domain.BackofficeClient) ([]domain.Requirement, error) {
				return c.ListRequirements(ctx)
			},
			create: func(ctx context.Context, c domain.BackofficeClient, p domain.RequirementCreate) (domain.Requirement, error) {
				return c.CreateRequirement(ctx, p)
			},
			entityID:  func(r domain.Requirement) int64 { return r.ID },
			client:    client,
			msgs:      msgs,
			fetchMsg:  shared.MsgFetchRequirements,
			createMsg: shared.MsgCreateRequirement,
		},
		Associations: &EntityStore[domain.AssociationCreate, domain.Association]{
			name: "associations",
			pos:  insertHead,
			list: func(ctx context.Context, c domain.BackofficeClient) ([]domain.Association, error) {
				return c.ListAssociations(ctx)
			},
			create: func(ctx context.Context, c domain.BackofficeClient, p domain.AssociationCreate) (domain.Association, error) {
				return c.CreateAssociation(ctx, p)
			},
			entityID:  func(a domain.Association) int64 { return a.ID },
			client:    client,
			msgs:      msgs,
			fetchMsg:  shared.MsgFetchAssociations,
			createMsg: shared.MsgCreateAssociation,
		},
		ServiceParams: &EntityStore[domain.ServiceParameterCreate, domain.ServiceParameter]{
			name: "parametres-service",
			pos:  insertHead,
			list: func(ctx context.Context, c domain.BackofficeClient) ([]domain.ServiceParameter, error) {
				return c.ListServiceParameters(ctx)
			},
			create: func(ctx context.Context, c domain.BackofficeClient, p domain.ServiceParameterCreate) (domain.ServiceParameter, error) {
				return c.CreateServiceParameter(ctx, p)
			},
			entityID:  func(p domain.ServiceParameter) int64 { return p.ID },
			client:    client,
			msgs:      msgs,
			fetchMsg:  shared.MsgFetchServiceParams,
			createMsg: shared.MsgCreateServiceParam,
		},
		Reservations: NewReservationService(client, msgs, forms),
		RefData:      NewRefDataService(client, cache, cacheTTL),
		Forms:        forms,
	}
}
