package domain

import "time"

// ReservationHeader is the hotel-reservation aggregate root: the purchase
// order header plus its itemized lines. The header status drives the
// workflow; each line carries its own status independently.
type ReservationHeader struct {
	ID          int64             `json:"id"`
	Status      Status            `json:"statut"`
	Prospection *Prospection      `json:"entetProspection"`
	Lines       []ReservationLine `json:"lignes"`
	ClientPORef string            `json:"referenceBcClient"`
	InvoiceRef  string            `json:"referenceFactureClient"`
	TotalHotel  float64           `json:"totalHotel"`
	TotalComm   float64           `json:"totalCommission"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// Prospection ties the reservation back to its supplier and dossier.
type Prospection struct {
	ID       int64  `json:"id"`
	Supplier string `json:"fournisseur"`
	Dossier  string `json:"dossier"`
}

type ReservationLine struct {
	ID             int64  `json:"id"`
	Reference      string `json:"referenceLigne"`
	ReservationNum string `json:"numeroReservation"`
	Status         Status `json:"statut"`

	UnitPrice       float64 `json:"prixUnitaire"`
	TotalPrice      float64 `json:"prixTotal"`
	UnitPriceLocal  float64 `json:"prixUnitaireLocale"`
	TotalPriceLocal float64 `json:"prixTotalLocale"`
	CommissionPct   float64 `json:"pourcentageCommission"`
	CommissionAmt   float64 `json:"montantCommission"`

	ConfirmedUnitPrice  float64 `json:"prixUnitaireConfirme"`
	ConfirmedTotalPrice float64 `json:"prixTotalConfirme"`
	ConfirmedCommAmt    float64 `json:"montantCommissionConfirme"`

	Benchmarking *BenchmarkingLine `json:"ligneBenchmarking"`
}

// BenchmarkingLine carries the hotel identity the line was sourced from.
type BenchmarkingLine struct {
	ID       int64  `json:"id"`
	Hotel    string `json:"nomHotel"`
	RoomType string `json:"typeChambre"`
}

// TotalsOverLines sums the line totals and commissions. These pre-fill the
// approve dialog; the operator can still override them.
func (h ReservationHeader) TotalsOverLines() (hotel, commission float64) {
	for _, l := range h.Lines {
		hotel += l.TotalPrice
		commission += l.CommissionAmt
	}
	return hotel, commission
}
