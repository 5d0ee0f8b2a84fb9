package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"signal_dashboard/internal/indicators"
	"signal_dashboard/internal/models"
	market "signal_dashboard/internal/modules/market/service"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
)

const (
	ReasonNoAgreement   = "15m and 5m do not agree"
	ReasonDir1Unknown   = "1m EMA direction unknown"
	ReasonDir1Mismatch  = "1m EMA doesn't match 5m/15m agreement"
	reasonUnevaluated   = "unknown"
	updatedLayout       = "2006-01-02 15:04:05 UTC"
	defaultLookback     = 200
	evaluationFailedFmt = "evaluation failed: %v"
)

type Options struct {
	Lookback int
	Rules    []RuleVariant
	Now      func() time.Time
	Log      *zap.Logger
}

// Evaluator builds the per-instrument analysis. It holds only read-only
// collaborators, so one instance serves concurrent requests.
type Evaluator struct {
	source   market.Source
	ind      Indicators
	reg      *models.Registry
	rules    []RuleVariant
	lookback int
	now      func() time.Time
	log      *zap.Logger
}

func NewEvaluator(source market.Source, ind Indicators, reg *models.Registry, opts Options) *Evaluator {
	if opts.Lookback <= 0 {
		opts.Lookback = defaultLookback
	}
	if len(opts.Rules) == 0 {
		opts.Rules = DefaultRules()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Evaluator{
		source:   source,
		ind:      ind,
		reg:      reg,
		rules:    opts.Rules,
		lookback: opts.Lookback,
		now:      opts.Now,
		log:      opts.Log,
	}
}

func (e *Evaluator) Rules() []RuleVariant {
	out := make([]RuleVariant, len(e.rules))
	copy(out, e.rules)
	return out
}

// snapshot — the four timeframes of one evaluation.
type snapshot struct {
	h1, m15, m5, m1 models.Series
}

// signals — directional inputs shared by every rule variant.
type signals struct {
	dir15, dir5, dir1 models.Direction
	confirm           models.Confirm
	entry             *float64
	agreement         bool
	side              models.Direction
	range30m          float64
}

// Analyze never returns an error: missing data degrades individual fields and
// a panic inside a collaborator is reported through OK/Reason.
func (e *Evaluator) Analyze(ctx context.Context, symbol string) (out models.Analysis) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "analyze")
	defer span.Finish()
	span.SetTag("symbol", symbol)

	defer func() {
		if r := recover(); r != nil {
			ext.Error.Set(span, true)
			e.log.Error("analyze panic", zap.String("symbol", symbol), zap.Any("panic", r))
			out = e.failed(symbol, fmt.Sprintf(evaluationFailedFmt, r))
		}
	}()

	snap := e.fetch(ctx, symbol)

	bias := PrimaryBias(snap.h1)
	if bias.Degraded() {
		e.log.Debug("primary bias degraded", zap.String("symbol", symbol), zap.String("reason", bias.Reason))
	}

	sig := e.signals(snap)

	results := make(map[string]models.RuleResult, len(e.rules))
	for _, rule := range e.rules {
		results[rule.Name] = e.evaluateRule(symbol, rule, sig, snap.m15)
	}

	trend := CombinedTrend(snap.m15, snap.h1)

	return models.Analysis{
		OK:          true,
		Symbol:      symbol,
		PrimaryBias: bias.Bias,
		MA50:        bias.MA50,
		Bias:        bias,
		Data: models.AnalysisData{
			Results:  results,
			Trend:    models.TrendOutcome{Bias: trend},
			Reversal: e.reversal(symbol, sig, snap, trend),
			Chart:    Chart(snap.m1),
			Updated:  e.now().UTC().Format(updatedLayout),
		},
	}
}

func (e *Evaluator) fetch(ctx context.Context, symbol string) snapshot {
	get := func(tf models.Timeframe) models.Series {
		s, err := e.source.Candles(ctx, symbol, tf, e.lookback)
		if err != nil {
			e.log.Warn("candles unavailable",
				zap.String("symbol", symbol),
				zap.String("timeframe", string(tf)),
				zap.Error(err),
			)
			return nil
		}
		return s
	}
	return snapshot{
		h1:  get(models.H1),
		m15: get(models.M15),
		m5:  get(models.M5),
		m1:  get(models.M1),
	}
}

func (e *Evaluator) signals(snap snapshot) signals {
	sig := signals{
		dir15:    e.ind.EMADirection(snap.m15),
		dir5:     e.ind.EMADirection(snap.m5),
		dir1:     e.ind.EMADirection(snap.m1),
		confirm:  e.ind.OneMinuteConfirm(snap.m1),
		range30m: e.ind.RecentRange(snap.m1),
	}
	if last, ok := snap.m1.Last(); ok {
		entry := last.Close
		sig.entry = &entry
	}
	sig.agreement, sig.side = Agreement(sig.dir15, sig.dir5)
	return sig
}

// Agreement — 15m and 5m both BUY or both SELL.
func Agreement(dir15, dir5 models.Direction) (bool, models.Direction) {
	if dir15.Known() && dir15 == dir5 {
		return true, dir15
	}
	return false, models.DirectionUnknown
}

func (e *Evaluator) evaluateRule(symbol string, rule RuleVariant, sig signals, m15 models.Series) models.RuleResult {
	res := models.RuleResult{
		Signal:    models.SignalNoTrade,
		Reason:    reasonUnevaluated,
		Dir15:     sig.dir15,
		Dir5:      sig.dir5,
		Dir1:      sig.dir1,
		Confirm1m: sig.confirm,
	}

	switch {
	case !sig.agreement:
		res.Reason = ReasonNoAgreement
		return res
	case !sig.dir1.Known():
		res.Reason = ReasonDir1Unknown
		return res
	case sig.dir1 != sig.side:
		res.Reason = ReasonDir1Mismatch
		return res
	}

	minDist := e.reg.MinDistance(symbol, rule.MinDistance)
	if sig.range30m < minDist {
		res.Reason = LowVolatilityReason(sig.range30m, minDist)
		return res
	}

	tpsl := e.ind.TakeProfitStopLoss(sig.entry, sig.side, m15, symbol, minDist)
	if tpsl.Status != models.StatusOK {
		res.Reason = tpsl.Status
		return res
	}

	// entry != nil here: TakeProfitStopLoss reports no_entry otherwise
	entry := indicators.Round6(*sig.entry)
	res.Signal = models.SignalFor(sig.side)
	res.Entry = &entry
	res.TP = tpsl.TP
	res.SL = tpsl.SL
	res.Reason = models.StatusOK
	return res
}

func LowVolatilityReason(observed, required float64) string {
	return fmt.Sprintf("Low 30m volatility (%.4f) < required %s", observed, strconv.FormatFloat(required, 'f', -1, 64))
}

// Chart — {time, close} per 1m candle, in series order.
func Chart(m1 models.Series) []models.ChartPoint {
	out := make([]models.ChartPoint, 0, len(m1))
	for _, c := range m1 {
		out = append(out, models.ChartPoint{Time: c.Time.UTC().Format(time.RFC3339), Close: c.Close})
	}
	return out
}

// failed — well-formed analysis for an evaluation that could not complete.
func (e *Evaluator) failed(symbol, reason string) models.Analysis {
	results := make(map[string]models.RuleResult, len(e.rules))
	for _, rule := range e.rules {
		results[rule.Name] = models.RuleResult{
			Signal: models.SignalNoTrade,
			Reason: reason,
			Dir15:  models.DirectionUnknown,
			Dir5:   models.DirectionUnknown,
			Dir1:   models.DirectionUnknown,
		}
	}
	return models.Analysis{
		OK:          false,
		Reason:      &reason,
		Symbol:      symbol,
		PrimaryBias: models.BiasUnknown,
		Bias:        models.BiasOutcome{Bias: models.BiasUnknown, Reason: reason},
		Data: models.AnalysisData{
			Results:  results,
			Trend:    models.TrendOutcome{Bias: models.TrendSideways},
			Reversal: noReversal(reason),
			Chart:    []models.ChartPoint{},
			Updated:  e.now().UTC().Format(updatedLayout),
		},
	}
}
