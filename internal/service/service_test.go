package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-monitor/internal/models"
	"sales-monitor/internal/storage"
)

type fakeUpstream struct {
	mu      sync.Mutex
	deals   []models.BackendDeal
	targets []models.BackendTarget
	units   []models.BackendUnit
	calls   map[string]int
	err     error
}

func (f *fakeUpstream) hit(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	return f.err
}

func (f *fakeUpstream) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeUpstream) FetchDeals(ctx context.Context) ([]models.BackendDeal, error) {
	return f.deals, f.hit("deals")
}

func (f *fakeUpstream) FetchTargets(ctx context.Context) ([]models.BackendTarget, error) {
	return f.targets, f.hit("targets")
}

func (f *fakeUpstream) FetchUnits(ctx context.Context) ([]models.BackendUnit, error) {
	return f.units, f.hit("units")
}

func (f *fakeUpstream) UpdateDealStatus(ctx context.Context, id int, status models.DealStatus) (*models.BackendDeal, error) {
	if err := f.hit("update"); err != nil {
		return nil, err
	}
	return &models.BackendDeal{ID: id, Status: string(status)}, nil
}

func customer(s string) *string { return &s }

func sampleUpstream() *fakeUpstream {
	unitA := &models.BackendUnit{ID: 1, Name: "Unit A", IsActive: true}
	unitB := &models.BackendUnit{ID: 2, Name: "Unit B", IsActive: true}
	return &fakeUpstream{
		deals: []models.BackendDeal{
			{ID: 1, Unit: unitA, ProductName: "Motor", CustomerName: customer("Budi"), TotalAmount: decimal.NewFromInt(1000), DPAmount: decimal.NewFromInt(300), DateDeal: "2024-02-05", DueDate: "2024-02-13", Status: "partial"},
			{ID: 2, Unit: unitB, ProductName: "Mobil", CustomerName: customer("Sari"), TotalAmount: decimal.NewFromInt(2000), DateDeal: "2024-02-06", DueDate: "2024-03-01", Status: "open"},
			{ID: 3, Unit: unitB, ProductName: "Sepeda", CustomerName: customer("Ani"), TotalAmount: decimal.NewFromInt(500), DateDeal: "2024-01-20", DueDate: "2024-01-30", Status: "paid"},
		},
		targets: []models.BackendTarget{
			{UnitID: 1, TargetAmount: decimal.NewFromInt(1000), PeriodType: "monthly", PeriodStart: "2024-02-01"},
			{UnitID: 2, TargetAmount: decimal.NewFromInt(4000), PeriodType: "monthly", PeriodStart: "2024-02-01"},
		},
		units: []models.BackendUnit{*unitA, *unitB},
	}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(up Upstream, overrides models.TargetMap) (*Service, *testClock) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	clock := &testClock{now: time.Date(2024, 2, 10, 10, 0, 0, 0, time.UTC)}
	svc := New(up, storage.NewMemoryStore(), logger, Options{
		DealsStaleAfter: 5 * time.Minute,
		UnitsStaleAfter: 10 * time.Minute,
		TargetOverrides: overrides,
		Location:        time.UTC,
		Clock:           clock.Now,
	})
	return svc, clock
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestService(sampleUpstream(), models.TargetMap{"Unit B": 2500})

	resp, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 3, resp.Deals)
	assert.Equal(t, 2, resp.Targets)
	assert.Equal(t, 2, resp.Units)
	assert.Equal(t, 3, resp.QualitySummary.ValidDeals)
	assert.True(t, svc.Ready())

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TargetMap{"Unit A": 1000, "Unit B": 2500}, snap.Targets)
	assert.Equal(t, []string{"Unit A", "Unit B"}, snap.Units)
}

func TestEnsureFreshRefetchesOnlyStaleSources(t *testing.T) {
	up := sampleUpstream()
	svc, clock := newTestService(up, nil)

	require.NoError(t, svc.EnsureFresh(context.Background()))
	require.NoError(t, svc.EnsureFresh(context.Background()))
	assert.Equal(t, 1, up.count("deals"))
	assert.Equal(t, 1, up.count("units"))

	clock.Advance(6 * time.Minute)
	require.NoError(t, svc.EnsureFresh(context.Background()))
	assert.Equal(t, 2, up.count("deals"))
	assert.Equal(t, 2, up.count("targets"))
	assert.Equal(t, 1, up.count("units"))

	// Targets still resolve unit ids after a deals-only refresh.
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1000.0, snap.Targets["Unit A"])
}

func TestSnapshotWithoutData(t *testing.T) {
	up := sampleUpstream()
	up.err = errors.New("connection refused")
	svc, _ := newTestService(up, nil)

	_, err := svc.Snapshot(context.Background())

	assert.ErrorIs(t, err, ErrNoData)
	assert.False(t, svc.Ready())
}

func TestSnapshotServesStaleData(t *testing.T) {
	up := sampleUpstream()
	svc, clock := newTestService(up, nil)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	up.mu.Lock()
	up.err = errors.New("timeout")
	up.mu.Unlock()
	clock.Advance(time.Hour)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Deals, 3)
}

func TestDashboard(t *testing.T) {
	svc, _ := newTestService(sampleUpstream(), nil)

	sum, err := svc.Dashboard(context.Background(), models.DefaultFilterState())

	require.NoError(t, err)
	assert.Equal(t, 5000.0, sum.KPIs.ScaledTarget)
	assert.Equal(t, 800.0, sum.KPIs.ActualCollected)
	assert.Equal(t, 16, sum.KPIs.ProgressPct)
	assert.Equal(t, 2700.0, sum.KPIs.Outstanding)
	require.Len(t, sum.Units, 2)
	assert.Equal(t, "Unit A", sum.Units[0].Unit)
	assert.Equal(t, 30, sum.Units[0].Percentage)
	require.Len(t, sum.Notifications, 1)
	assert.Equal(t, 1, sum.Notifications[0].Deal.ID)
}

func TestToggleStatus(t *testing.T) {
	up := sampleUpstream()
	svc, _ := newTestService(up, nil)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	deal, err := svc.ToggleStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, deal.Status)
	assert.Equal(t, "Unit A", deal.Unit)

	deal, err = svc.ToggleStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPartial, deal.Status)

	deal, err = svc.ToggleStatus(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, deal.Status)
	deal, err = svc.ToggleStatus(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, deal.Status)

	_, err = svc.ToggleStatus(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusUpstreamFailure(t *testing.T) {
	up := sampleUpstream()
	svc, _ := newTestService(up, nil)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	up.mu.Lock()
	up.err = errors.New("boom")
	up.mu.Unlock()

	_, err = svc.UpdateStatus(context.Background(), 1, models.StatusPaid)
	require.Error(t, err)

	snap := svc.store.GetDeals()
	assert.Equal(t, models.StatusPartial, snap[0].Status)
}

func TestStaticUpstream(t *testing.T) {
	up := NewStaticUpstream(sampleUpstream().deals)
	svc, _ := newTestService(up, models.TargetMap{"Unit A": 100})

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Unit A", "Unit B"}, snap.Units)
	assert.Equal(t, models.TargetMap{"Unit A": 100}, snap.Targets)

	deal, err := svc.UpdateStatus(context.Background(), 3, models.StatusOpen)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, deal.Status)
	assert.Equal(t, "Sepeda", deal.Product)
}
