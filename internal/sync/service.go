package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/amnosapps/condominio-backend/config"
	"github.com/amnosapps/condominio-backend/internal/notification"
	"github.com/amnosapps/condominio-backend/internal/occupancy"
	"github.com/amnosapps/condominio-backend/internal/parse"
	"github.com/amnosapps/condominio-backend/internal/store"
)

// Service keeps the local snapshot in step with the management API and
// runs the anomaly pass after each sync, dispatching notifications for
// reservations that became newly flagged.
type Service struct {
	cfg        *config.Config
	store      store.Store
	client     *http.Client
	clock      occupancy.Clock
	loc        *time.Location
	workerPool *notification.WorkerPool
}

// NewService creates and initializes a new sync service.
func NewService(cfg *config.Config, s store.Store) *Service {
	var transport http.RoundTripper = &http.Transport{}
	if cfg.Sync.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.Sync.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Sync will not use a proxy.", cfg.Sync.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	loc, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		log.Printf("Warning: invalid timezone %q: %v. Falling back to UTC.", cfg.Sync.Timezone, err)
		loc = time.UTC
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, s.DB(), &webpushOptions)

	return &Service{
		cfg:   cfg,
		store: s,
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		clock:      occupancy.RealClock{},
		loc:        loc,
		workerPool: workerPool,
	}
}

// Run starts the sync process in a loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sync.Enabled {
		log.Println("Sync is disabled. Not starting.")
		return
	}
	log.Println("Starting sync service...")

	// Start the worker pool
	s.workerPool.Start(ctx)

	s.SyncOnce(ctx)

	timer := time.NewTimer(s.cfg.Sync.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sync service shutting down.")
			return
		case <-timer.C:
			s.SyncOnce(ctx)
			timer.Reset(s.cfg.Sync.Interval)
		}
	}
}

// SyncOnce performs a single sync round across all configured condominiums.
func (s *Service) SyncOnce(ctx context.Context) {
	log.Println("Executing sync cycle...")
	now := s.clock.Now().In(s.loc)

	for _, condominiumID := range s.cfg.Sync.CondominiumIDs {
		if err := s.syncCondominium(ctx, condominiumID, now); err != nil {
			log.Printf("Error syncing condominium %d: %v", condominiumID, err)
		}
	}

	log.Println("Sync cycle finished.")
}

func (s *Service) syncCondominium(ctx context.Context, condominiumID int64, now time.Time) error {
	apartments, err := s.fetchApartments(ctx, condominiumID)
	if err != nil {
		return fmt.Errorf("fetch apartments: %w", err)
	}
	if err := s.store.UpsertApartments(ctx, condominiumID, apartments); err != nil {
		return fmt.Errorf("upsert apartments: %w", err)
	}

	reservations, err := s.fetchReservations(ctx, condominiumID, now)
	if err != nil {
		return fmt.Errorf("fetch reservations: %w", err)
	}
	for i := range reservations {
		reservations[i].CheckinParsed = parse.Date(reservations[i].Checkin, s.loc)
		reservations[i].CheckoutParsed = parse.Date(reservations[i].Checkout, s.loc)
		reservations[i].CheckinAtParsed = parse.Date(reservations[i].CheckinAt, s.loc)
		reservations[i].CheckoutAtParsed = parse.Date(reservations[i].CheckoutAt, s.loc)
	}
	if err := s.store.UpsertReservations(ctx, condominiumID, reservations); err != nil {
		return fmt.Errorf("upsert reservations: %w", err)
	}

	// Anomaly pass over the freshly persisted snapshot.
	snapshot, err := s.store.ListReservations(ctx, condominiumID, nil, nil)
	if err != nil {
		return fmt.Errorf("list reservations: %w", err)
	}
	for _, w := range occupancy.DataWarnings(snapshot) {
		log.Printf("Warning: reservation %d: %s", w.ReservationID, w.Message)
	}

	pending := occupancy.DetectPending(snapshot, now)
	newlyFlagged, err := s.store.SyncPendingActions(ctx, now, condominiumID, pending)
	if err != nil {
		return fmt.Errorf("sync pending actions: %w", err)
	}

	if len(newlyFlagged) > 0 {
		log.Printf("Dispatching notifications for %d reservations", len(newlyFlagged))
		for _, reservationID := range newlyFlagged {
			s.workerPool.Dispatch(reservationID)
		}
	}
	return nil
}

// fetchApartments retrieves the apartment list for one condominium.
func (s *Service) fetchApartments(ctx context.Context, condominiumID int64) ([]store.ApartmentRecord, error) {
	endpoint := fmt.Sprintf("%s/api/apartments/?condominium=%d", s.cfg.Sync.BaseURL, condominiumID)

	var resp apartmentsResponse
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// fetchReservations retrieves reservations for one condominium inside
// the configured lookback/lookahead window around today.
func (s *Service) fetchReservations(ctx context.Context, condominiumID int64, now time.Time) ([]store.ReservationRecord, error) {
	start := now.AddDate(0, 0, -s.cfg.Sync.LookbackDays).Format("2006-01-02")
	end := now.AddDate(0, 0, s.cfg.Sync.LookaheadDays).Format("2006-01-02")
	endpoint := fmt.Sprintf("%s/api/reservations/?condominium=%d&start_date=%s&end_date=%s",
		s.cfg.Sync.BaseURL, condominiumID, start, end)

	var resp reservationsResponse
	if err := s.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Service) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range s.cfg.Sync.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
