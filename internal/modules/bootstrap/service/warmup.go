package service

import (
	"context"
	"sort"
	"sync"

	"signal_dashboard/internal/models"
	market "signal_dashboard/internal/modules/market/service"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const probeCandles = 5

// Report — итог стартовой проверки источника свечей.
type Report struct {
	OK     []string
	Failed map[string]error
}

// Prober проверяет при старте, что по каждому активу отдаются свечи.
type Prober struct {
	src market.Source
	reg *models.Registry
	log *zap.Logger

	// ограничитель параллелизма, чтобы не словить rate limit
	sem chan struct{}
}

func NewProber(src market.Source, reg *models.Registry, parallelism int, log *zap.Logger) *Prober {
	if parallelism < 1 {
		parallelism = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Prober{
		src: src,
		reg: reg,
		log: log,
		sem: make(chan struct{}, parallelism),
	}
}

// Probe запрашивает пять M15 свечей на актив. Ошибка — первая по порядку меню.
func (p *Prober) Probe(ctx context.Context) (Report, error) {
	assets := p.reg.Assets()
	rep := Report{Failed: make(map[string]error)}
	if len(assets) == 0 {
		return rep, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, a := range assets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.sem <- struct{}{}
			defer func() { <-p.sem }()

			_, err := p.src.Candles(ctx, a.Symbol, models.M15, probeCandles)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rep.Failed[a.Name] = err
				return
			}
			rep.OK = append(rep.OK, a.Name)
		}()
	}
	wg.Wait()

	order := make(map[string]int, len(assets))
	for i, a := range assets {
		order[a.Name] = i
	}
	sort.Slice(rep.OK, func(i, j int) bool { return order[rep.OK[i]] < order[rep.OK[j]] })

	if len(rep.Failed) == 0 {
		p.log.Info("startup probe finished", zap.Int("assets", len(rep.OK)))
		return rep, nil
	}

	var firstErr error
	for _, a := range assets {
		if err, ok := rep.Failed[a.Name]; ok {
			firstErr = errors.Wrapf(err, "probe %s", a.Name)
			break
		}
	}
	p.log.Warn("startup probe finished with errors",
		zap.Int("ok", len(rep.OK)),
		zap.Int("failed", len(rep.Failed)),
		zap.Error(firstErr),
	)
	return rep, firstErr
}
