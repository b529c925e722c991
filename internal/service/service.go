package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"sales-monitor/internal/analytics"
	"sales-monitor/internal/client"
	"sales-monitor/internal/models"
	"sales-monitor/internal/storage"
	"sales-monitor/internal/transformer"
)

var (
	ErrNotFound = errors.New("deal not found")
	ErrNoData   = errors.New("no deal data loaded")
)

// Upstream is the subset of the sales backend the service reads and writes.
type Upstream interface {
	FetchDeals(ctx context.Context) ([]models.BackendDeal, error)
	FetchTargets(ctx context.Context) ([]models.BackendTarget, error)
	FetchUnits(ctx context.Context) ([]models.BackendUnit, error)
	UpdateDealStatus(ctx context.Context, id int, status models.DealStatus) (*models.BackendDeal, error)
}

type Options struct {
	DealsStaleAfter time.Duration
	UnitsStaleAfter time.Duration
	// TargetOverrides replace upstream targets for the units they name.
	TargetOverrides models.TargetMap
	Location        *time.Location
	Clock           func() time.Time
}

// Snapshot is a consistent copy of the stored data.
type Snapshot struct {
	Deals   []models.Deal
	Targets models.TargetMap
	Units   []string
}

type Service struct {
	upstream    Upstream
	store       *storage.MemoryStore
	transformer *transformer.Transformer
	calc        *analytics.Calculator
	logger      *logrus.Logger

	overrides  models.TargetMap
	dealsStale time.Duration
	unitsStale time.Duration
	now        func() time.Time

	// refreshMu serializes upstream refreshes and guards backendUnits.
	refreshMu    sync.Mutex
	backendUnits []models.BackendUnit
	rawTargets   []models.BackendTarget
}

func New(upstream Upstream, store *storage.MemoryStore, logger *logrus.Logger, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	clock := opts.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().In(loc) }
	}
	if opts.DealsStaleAfter <= 0 {
		opts.DealsStaleAfter = 5 * time.Minute
	}
	if opts.UnitsStaleAfter <= 0 {
		opts.UnitsStaleAfter = 10 * time.Minute
	}

	return &Service{
		upstream:    upstream,
		store:       store,
		transformer: transformer.New(loc),
		calc:        analytics.NewCalculatorWithClock(clock),
		logger:      logger,
		overrides:   opts.TargetOverrides,
		dealsStale:  opts.DealsStaleAfter,
		unitsStale:  opts.UnitsStaleAfter,
		now:         clock,
	}
}

func (s *Service) Calculator() *analytics.Calculator {
	return s.calc
}

// Refresh reloads every source from upstream.
func (s *Service) Refresh(ctx context.Context) (models.IngestResponse, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refresh(ctx, true, true, true)
}

// EnsureFresh reloads only the sources whose data is older than their
// staleness window.
func (s *Service) EnsureFresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	now := s.now()
	deals := s.store.IsStale(storage.SourceDeals, s.dealsStale, now)
	targets := s.store.IsStale(storage.SourceTargets, s.dealsStale, now)
	units := s.store.IsStale(storage.SourceUnits, s.unitsStale, now)
	if !deals && !targets && !units {
		return nil
	}

	_, err := s.refresh(ctx, deals, targets, units)
	return err
}

func (s *Service) refresh(ctx context.Context, withDeals, withTargets, withUnits bool) (models.IngestResponse, error) {
	start := time.Now()
	var (
		rawDeals   []models.BackendDeal
		rawTargets []models.BackendTarget
		rawUnits   []models.BackendUnit
	)

	g, gctx := errgroup.WithContext(ctx)
	if withDeals {
		g.Go(func() error {
			var err error
			rawDeals, err = s.upstream.FetchDeals(gctx)
			return err
		})
	}
	if withTargets {
		g.Go(func() error {
			var err error
			rawTargets, err = s.upstream.FetchTargets(gctx)
			return err
		})
	}
	if withUnits {
		g.Go(func() error {
			var err error
			rawUnits, err = s.upstream.FetchUnits(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.WithError(err).Error("Upstream refresh failed")
		return models.IngestResponse{Status: "error", Message: err.Error()}, fmt.Errorf("refresh: %w", err)
	}

	now := s.now()

	if withUnits {
		s.backendUnits = rawUnits
		s.store.StoreUnits(transformer.UnitNames(rawUnits), now)
	}
	if withTargets {
		s.rawTargets = rawTargets
	}
	// Unit names resolve target unit ids, so targets follow either feed.
	targets, usable := s.transformer.NormalizeTargets(s.rawTargets, s.backendUnits)
	for unit, amount := range s.overrides {
		targets[unit] = amount
	}
	if withTargets || withUnits {
		s.store.StoreTargets(targets, now)
	}

	if withDeals {
		unique, duplicates := s.transformer.NormalizeDeals(rawDeals)
		s.store.StoreDeals(transformer.Deals(unique), now)
		s.store.StoreQualityReport(s.transformer.GenerateQualityReport(unique, duplicates, len(s.rawTargets), usable))
	}

	resp := models.IngestResponse{
		Status:      "success",
		Deals:       len(s.store.GetDeals()),
		Targets:     len(targets),
		Units:       len(s.store.GetUnits()),
		ProcessedAt: now.Format(time.RFC3339),
		Message:     "Upstream data refreshed",
	}
	if report, ok := s.store.GetQualityReport(); ok {
		resp.QualitySummary = report.Summary
	}

	s.logger.WithFields(logrus.Fields{
		"deals":    resp.Deals,
		"targets":  resp.Targets,
		"units":    resp.Units,
		"duration": time.Since(start).String(),
	}).Info("Refresh completed")

	return resp, nil
}

// Snapshot returns current data, refreshing stale sources first. A failed
// refresh falls back to what is already stored.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	if err := s.EnsureFresh(ctx); err != nil {
		if !s.store.HasData() {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrNoData, err)
		}
		s.logger.WithError(err).Warn("Serving stale data")
	}

	units := s.store.GetUnits()
	deals := s.store.GetDeals()
	if len(units) == 0 {
		units = analytics.Units(deals)
	}
	return Snapshot{Deals: deals, Targets: s.store.GetTargets(), Units: units}, nil
}

// Dashboard computes every view for state.
func (s *Service) Dashboard(ctx context.Context, state models.FilterState) (models.DashboardSummary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	return s.calc.Summary(snap.Deals, snap.Targets, state), nil
}

func (s *Service) QualityReport() (models.DataQualityReport, bool) {
	return s.store.GetQualityReport()
}

func (s *Service) Ready() bool {
	return s.store.HasData()
}

// UpdateStatus writes a new status upstream and mirrors it locally.
func (s *Service) UpdateStatus(ctx context.Context, id int, status models.DealStatus) (models.Deal, error) {
	current, ok := s.store.GetDeal(id)
	if !ok {
		return models.Deal{}, ErrNotFound
	}

	updated, err := s.upstream.UpdateDealStatus(ctx, id, status)
	if err != nil {
		if client.IsNotFound(err) {
			return models.Deal{}, ErrNotFound
		}
		return models.Deal{}, err
	}

	deal := current
	deal.Status = status
	if updated != nil && updated.ID == id && updated.Unit != nil {
		if unique, _ := s.transformer.NormalizeDeals([]models.BackendDeal{*updated}); len(unique) == 1 {
			deal = unique[0].Deal
		}
	}
	s.store.UpdateDeal(deal)

	s.logger.WithFields(logrus.Fields{
		"deal_id": id,
		"from":    current.Status,
		"to":      deal.Status,
	}).Info("Deal status changed")
	return deal, nil
}

// ToggleStatus flips a deal between paid and its unpaid status.
func (s *Service) ToggleStatus(ctx context.Context, id int) (models.Deal, error) {
	current, ok := s.store.GetDeal(id)
	if !ok {
		return models.Deal{}, ErrNotFound
	}
	return s.UpdateStatus(ctx, id, analytics.NextToggleStatus(current))
}
