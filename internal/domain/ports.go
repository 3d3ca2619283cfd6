package domain

import "context"

// BackofficeClient is the outbound port to the agency's REST backend.
type BackofficeClient interface {
	// Reference data
	ListCountries(ctx context.Context) ([]Country, error)
	GetCountryDetail(ctx context.Context, id int64) (CountryDetail, error)
	CreateCountry(ctx context.Context, p CountryCreate) (Country, error)

	ListDestinations(ctx context.Context) ([]Destination, error)
	CreateDestination(ctx context.Context, p DestinationCreate) (Destination, error)

	ListRequirements(ctx context.Context) ([]Requirement, error)
	CreateRequirement(ctx context.Context, p RequirementCreate) (Requirement, error)

	ListAssociations(ctx context.Context) ([]Association, error)
	CreateAssociation(ctx context.Context, p AssociationCreate) (Association, error)

	ListServiceParameters(ctx context.Context) ([]ServiceParameter, error)
	CreateServiceParameter(ctx context.Context, p ServiceParameterCreate) (ServiceParameter, error)

	ListCancellationReasons(ctx context.Context) ([]CancellationReason, error)

	// Hotel reservation workflow
	GetReservation(ctx context.Context, id int64) (ReservationHeader, error)
	Approve(ctx context.Context, id int64, in ApproveInput) error
	IssueTicket(ctx context.Context, id int64, in TicketInput) error
	IssueInvoice(ctx context.Context, id int64, in InvoiceInput) error
	Settle(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64, in CancelInput) error
	ReserveLine(ctx context.Context, id int64, in LineReserveInput) error
	ConfirmLine(ctx context.Context, id int64, in LineConfirmInput) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Create payloads. Country creation is multipart (name field + photo file);
// everything else is plain JSON.

type CountryCreate struct {
	Name      string `json:"pays" validate:"required"`
	Photo     []byte `json:"-" validate:"required"`
	PhotoName string `json:"-"`
}

type DestinationCreate struct {
	Code      string `json:"code" validate:"required"`
	City      string `json:"ville" validate:"required"`
	CountryID *int64 `json:"paysId"`
}

type RequirementCreate struct {
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"required"`
	Perimeter   string `json:"perimetre" validate:"required"`
}

type AssociationCreate struct {
	CountryID     int64 `json:"paysId" validate:"required"`
	RequirementID int64 `json:"exigenceVoyageId" validate:"required"`
}

type ServiceParameterCreate struct {
	Code  string      `json:"code" validate:"required"`
	Label string      `json:"libelle" validate:"required"`
	Kind  ServiceKind `json:"type" validate:"required,oneof=SERVICE SPECIFIQUE"`
}

// Workflow transition inputs.

// The totals are pre-filled from the lines and operator-editable; zero is a
// valid amount (a dossier may carry no commission), so they are not required.
type ApproveInput struct {
	TotalHotel float64 `json:"totalHotel"`
	TotalComm  float64 `json:"totalCommission"`
}

type TicketInput struct {
	ClientPORef string  `json:"referenceBcClient" validate:"required"`
	TotalHotel  float64 `json:"totalHotel"`
	TotalComm   float64 `json:"totalCommission"`
}

type InvoiceInput struct {
	InvoiceRef string `json:"referenceFactureClient" validate:"required"`
}

type CancelInput struct {
	ReasonID  int64  `json:"motifAnnulationId" validate:"required"`
	Condition string `json:"conditionAnnulation" validate:"required"`
}

type LineReserveInput struct {
	LineID         int64  `json:"ligneId" validate:"required"`
	ReservationNum string `json:"numeroReservation" validate:"required"`
}

type LineConfirmInput struct {
	LineID              int64   `json:"ligneId" validate:"required"`
	ConfirmedUnitPrice  float64 `json:"prixUnitaireConfirme" validate:"required"`
	ConfirmedTotalPrice float64 `json:"prixTotalConfirme" validate:"required"`
	ConfirmedCommAmt    float64 `json:"montantCommissionConfirme"`
}
