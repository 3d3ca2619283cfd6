package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"voyage_backoffice/internal/adapters/observability"
	"voyage_backoffice/internal/domain"
	"voyage_backoffice/internal/shared"
)

// CountryStore is the one store with a master/detail split: the list state
// plus a separately fetched detail projection for the selected country.
// The detail is never merged back into the list items.
type CountryStore struct {
	*EntityStore[domain.CountryCreate, domain.Country]

	msgs shared.Messages

	dmu           sync.Mutex
	selectedID    int64
	details       *domain.CountryDetail
	detailsLoad   bool
	detailsErr    string
	detailSeq     uint64
	cancelDetails context.CancelFunc
}

// DetailSnapshot mirrors Snapshot for the drill-down sub-state.
type DetailSnapshot struct {
	SelectedID int64                 `json:"selectedId"`
	Details    *domain.CountryDetail `json:"details,omitempty"`
	Loading    bool                  `json:"loading"`
	Error      string                `json:"error,omitempty"`
}

func newCountryStore(c domain.BackofficeClient, msgs shared.Messages) *CountryStore {
	return &CountryStore{
		EntityStore: &EntityStore[domain.CountryCreate, domain.Country]{
			name: "pays",
			pos:  insertHead,
			list: func(ctx context.Context, c domain.BackofficeClient) ([]domain.Country, error) {
				return c.ListCountries(ctx)
			},
			create: func(ctx context.Context, c domain.BackofficeClient, p domain.CountryCreate) (domain.Country, error) {
				return c.CreateCountry(ctx, p)
			},
			entityID:  func(c domain.Country) int64 { return c.ID },
			client:    c,
			msgs:      msgs,
			fetchMsg:  shared.MsgFetchCountries,
			createMsg: shared.MsgCreateCountry,
		},
		msgs: msgs,
	}
}

// FetchDetails loads the detail projection (destinations + requirement
// associations) for one country. Selecting a different country supersedes
// any in-flight detail fetch.
func (s *CountryStore) FetchDetails(ctx context.Context, id int64) error {
	s.dmu.Lock()
	if s.cancelDetails != nil {
		s.cancelDetails()
	}
	fctx, cancel := context.WithCancel(ctx)
	s.cancelDetails = cancel
	s.detailSeq++
	seq := s.detailSeq
	s.selectedID = id
	s.detailsLoad = true
	s.detailsErr = ""
	s.dmu.Unlock()

	d, err := s.client.GetCountryDetail(fctx, id)
	cancel()

	s.dmu.Lock()
	defer s.dmu.Unlock()
	if seq != s.detailSeq {
		observability.ObserveStore("pays", "details", "stale")
		return nil
	}
	s.detailsLoad = false
	s.cancelDetails = nil
	if err != nil {
		if errors.Is(err, context.Canceled) {
			observability.ObserveStore("pays", "details", "stale")
			return nil
		}
		s.detailsErr = s.detailFailure(err)
		observability.ObserveStore("pays", "details", "error")
		log.Warn().Int64("pays", id).Err(err).Msg("country detail fetch failed")
		return err
	}
	s.details = &d
	observability.ObserveStore("pays", "details", "ok")
	return nil
}

// ClearSelected resets the drill-down synchronously, canceling any
// outstanding detail fetch so its late answer is discarded.
func (s *CountryStore) ClearSelected() {
	s.dmu.Lock()
	defer s.dmu.Unlock()
	if s.cancelDetails != nil {
		s.cancelDetails()
		s.cancelDetails = nil
	}
	s.detailSeq++
	s.selectedID = 0
	s.details = nil
	s.detailsLoad = false
	s.detailsErr = ""
}

func (s *CountryStore) Details() DetailSnapshot {
	s.dmu.Lock()
	defer s.dmu.Unlock()
	var d *domain.CountryDetail
	if s.details != nil {
		cp := *s.details
		d = &cp
	}
	return DetailSnapshot{
		SelectedID: s.selectedID,
		Details:    d,
		Loading:    s.detailsLoad,
		Error:      s.detailsErr,
	}
}

func (s *CountryStore) detailFailure(err error) string {
	var re *domain.RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return s.msgs.Get(shared.MsgFetchCountryDetail)
}
