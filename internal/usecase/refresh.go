package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FundMonitor/internal/domain/models"
	drepo "FundMonitor/internal/domain/repository"
	dsvc "FundMonitor/internal/domain/service"
	"FundMonitor/pkg/logger"
	"FundMonitor/pkg/util"

	"github.com/google/uuid"
)

// EventSink receives a summary of every finished cycle. Submit must not block.
type EventSink interface {
	Submit(ev *models.CycleEvent)
}

// Refresher drives refresh cycles: fetch every configured instrument
// through the caches, then update delta and history and score the result.
type Refresher struct {
	state   *MonitorState
	indexes drepo.IndexSource
	funds   drepo.FundSource
	engine  dsvc.SentimentEngine
	advisor dsvc.Advisor
	metrics drepo.Metrics
	events  EventSink
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
}

type RefresherOption func(*Refresher)

// WithEventSink publishes a CycleEvent after every refresh.
func WithEventSink(s EventSink) RefresherOption {
	return func(r *Refresher) { r.events = s }
}

// WithNow replaces the wall clock used for cycle timestamps.
func WithNow(now func() time.Time) RefresherOption {
	return func(r *Refresher) { r.now = now }
}

func NewRefresher(
	state *MonitorState,
	indexes drepo.IndexSource,
	funds drepo.FundSource,
	engine dsvc.SentimentEngine,
	advisor dsvc.Advisor,
	metrics drepo.Metrics,
	log *logger.Logger,
	opts ...RefresherOption,
) *Refresher {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	r := &Refresher{
		state:   state,
		indexes: indexes,
		funds:   funds,
		engine:  engine,
		advisor: advisor,
		metrics: metrics,
		log:     log.With(logger.String("component", "refresher")),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// cycleResult holds one cycle's outcome in configuration order.
type cycleResult struct {
	indices []models.IndexSnapshot
	funds   []models.FundSnapshot
	errors  []string
}

func (c cycleResult) snapshots() (idx, funds []models.Snapshot) {
	idx = make([]models.Snapshot, 0, len(c.indices))
	for _, s := range c.indices {
		idx = append(idx, s)
	}
	funds = make([]models.Snapshot, 0, len(c.funds))
	for _, s := range c.funds {
		funds = append(funds, s)
	}
	return idx, funds
}

// Refresh runs one cycle. A full refresh clears the session history; an
// incremental one appends to it. Per-instrument failures become notices in
// the payload's errors and never fail the cycle.
func (r *Refresher) Refresh(ctx context.Context, incremental bool) (*models.RefreshPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	cfg, release := r.state.beginCycle()
	defer release()

	res := r.collect(ctx, cfg)

	delta := models.NewDeltaSet()
	for _, s := range res.indices {
		delta.Set(s)
	}
	for _, s := range res.funds {
		delta.Set(s)
	}

	at := r.now()
	ts := util.FormatClock(at)
	history, last := r.state.commit(ts, delta, incremental)

	idx, funds := res.snapshots()
	summary := r.engine.Summarize(idx, funds)

	payload := &models.RefreshPayload{
		CycleID:         r.newID(),
		Time:            ts,
		Incremental:     incremental,
		Indices:         res.indices,
		Funds:           res.funds,
		Errors:          res.errors,
		Metrics:         summary,
		History:         history,
		Delta:           delta,
		RefreshInterval: cfg.RefreshInterval,
		LastUpdateTime:  last,
	}

	mode := "full"
	if incremental {
		mode = "incremental"
	}
	r.metrics.RecordCycle(mode, time.Since(start).Seconds())
	r.log.Debug("refresh cycle done",
		logger.String("cycle_id", payload.CycleID),
		logger.String("mode", mode),
		logger.Int("fetched", delta.Len()),
		logger.Int("failed", len(res.errors)),
		logger.String("risk", string(summary.RiskLevel)),
		logger.Float64("avg_change", summary.AvgChange))

	if r.events != nil {
		r.events.Submit(&models.CycleEvent{
			CycleID:     payload.CycleID,
			At:          at,
			Incremental: incremental,
			Fetched:     delta.Len(),
			Failed:      len(res.errors),
			Metrics:     summary,
			Delta:       delta,
		})
	}
	return payload, nil
}

// Advice scores the current snapshots without touching delta or history.
func (r *Refresher) Advice(ctx context.Context) (*models.Advice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, release := r.state.beginCycle()
	defer release()

	idx, funds := r.collect(ctx, cfg).snapshots()
	summary := r.engine.Summarize(idx, funds)
	advice := r.advisor.Advise(summary.AvgChange)
	return &advice, nil
}

// collect fans out one fetch per instrument and waits for all of them.
// A client going away does not cancel fetches already issued.
func (r *Refresher) collect(ctx context.Context, cfg models.MonitorConfig) cycleResult {
	ctx = context.WithoutCancel(ctx)

	idx := make([]models.IndexSnapshot, len(cfg.Indices))
	idxErr := make([]error, len(cfg.Indices))
	funds := make([]models.FundSnapshot, len(cfg.Funds))
	fundErr := make([]error, len(cfg.Funds))

	var wg sync.WaitGroup
	for i, t := range cfg.Indices {
		wg.Add(1)
		go func(i int, t models.IndexTarget) {
			defer wg.Done()
			idx[i], idxErr[i] = r.state.indices.GetOrFetch(ctx, t.Code, func(ctx context.Context) (models.IndexSnapshot, error) {
				return r.indexes.FetchIndex(ctx, t)
			})
		}(i, t)
	}
	for i, code := range cfg.Funds {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			funds[i], fundErr[i] = r.state.funds.GetOrFetch(ctx, code, func(ctx context.Context) (models.FundSnapshot, error) {
				return r.funds.FetchFund(ctx, code)
			})
		}(i, code)
	}
	wg.Wait()

	res := cycleResult{
		indices: make([]models.IndexSnapshot, 0, len(idx)),
		funds:   make([]models.FundSnapshot, 0, len(funds)),
		errors:  []string{},
	}
	for i, t := range cfg.Indices {
		if err := idxErr[i]; err != nil {
			r.fail(models.KindIndex, t.Code, err)
			res.errors = append(res.errors, fmt.Sprintf("指数%s数据获取失败", t.Name))
			continue
		}
		s := idx[i]
		s.Name = t.Name
		r.ok(s)
		res.indices = append(res.indices, s)
	}
	for i, code := range cfg.Funds {
		if err := fundErr[i]; err != nil {
			r.fail(models.KindFund, code, err)
			res.errors = append(res.errors, fmt.Sprintf("基金%s数据获取失败", code))
			continue
		}
		r.ok(funds[i])
		res.funds = append(res.funds, funds[i])
	}
	return res
}

func (r *Refresher) ok(s models.Snapshot) {
	r.metrics.RecordFetch(s.Kind(), "ok")
	r.metrics.RecordChange(s.Kind(), s.Identity(), s.Change())
}

func (r *Refresher) fail(kind models.AssetKind, identity string, err error) {
	ek := models.ErrorKind(err)
	r.metrics.RecordFetch(kind, ek)
	r.metrics.RecordError(ek)
	r.log.Warn("instrument fetch failed",
		logger.String("kind", string(kind)),
		logger.String("identity", identity),
		logger.String("error_kind", ek),
		logger.Error(err))
}
