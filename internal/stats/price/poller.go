// Package price polls exchange tickers for the coin and BTC/USD rate.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockstats7000-backend/internal/clock"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBTCURL       = "https://cex.io/api/ticker/BTC/USD"
	DefaultTickersURL   = "https://api.coingecko.com/api/v3/coins/%s/tickers"
	defaultHTTPTimeout  = 10 * time.Second
	defaultPollInterval = 5 * time.Second
)

type Config struct {
	CoinID          string
	Symbol          string
	BTCURL          string
	TickersURL      string
	ExcludedMarkets []string
	Interval        time.Duration
	Timeout         time.Duration
}

// Poller fetches prices on an interval, caches the latest result and publishes it.
type Poller struct {
	client    *fasthttp.Client
	cfg       Config
	excluded  map[string]struct{}
	publisher Publisher
	metrics   Metrics
	logger    *zap.Logger

	mu   sync.RWMutex
	last Info
	ok   bool
}

func NewPoller(cfg Config, publisher Publisher, metrics Metrics, logger *zap.Logger) *Poller {
	if cfg.BTCURL == "" {
		cfg.BTCURL = DefaultBTCURL
	}
	if cfg.TickersURL == "" {
		cfg.TickersURL = fmt.Sprintf(DefaultTickersURL, cfg.CoinID)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	excluded := make(map[string]struct{}, len(cfg.ExcludedMarkets))
	for _, name := range cfg.ExcludedMarkets {
		excluded[name] = struct{}{}
	}
	return &Poller{
		client:    &fasthttp.Client{Name: "blockstats7000"},
		cfg:       cfg,
		excluded:  excluded,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run polls until ctx is done. Failed polls are logged and the next tick proceeds.
func (p *Poller) Run(ctx context.Context) error {
	return clock.Every(ctx, p.cfg.Interval, p.poll)
}

func (p *Poller) poll(ctx context.Context) error {
	info, err := p.Fetch(ctx)
	if err != nil {
		p.logger.Warn("price poll failed", zap.Error(err))
		return nil
	}
	p.mu.Lock()
	p.last, p.ok = info, true
	p.mu.Unlock()
	p.publisher.PublishPrices(info)
	return nil
}

// Last returns the most recent successful poll.
func (p *Poller) Last() (Info, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.ok
}

// Fetch looks up the BTC rate and coin markets concurrently.
func (p *Poller) Fetch(ctx context.Context) (Info, error) {
	info := Info{Symbol: p.cfg.Symbol}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		btc, err := p.fetchBTC(gctx)
		info.BTC = btc
		return err
	})
	g.Go(func() error {
		markets, err := p.fetchMarkets(gctx)
		info.Markets = markets
		return err
	})
	if err := g.Wait(); err != nil {
		return Info{}, err
	}
	return info, nil
}

type btcTicker struct {
	Last decimal.Decimal `json:"last"`
}

func (p *Poller) fetchBTC(ctx context.Context) (btc decimal.Decimal, err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe("btc_usd", err, started)
	}()

	var ticker btcTicker
	if err = p.getJSON(ctx, p.cfg.BTCURL, &ticker); err != nil {
		return decimal.Zero, fmt.Errorf("btc price: %w", err)
	}
	return ticker.Last, nil
}

type coinTickers struct {
	Tickers []struct {
		Target string          `json:"target"`
		Last   decimal.Decimal `json:"last"`
		Volume decimal.Decimal `json:"volume"`
		Market struct {
			Name string `json:"name"`
		} `json:"market"`
	} `json:"tickers"`
}

func (p *Poller) fetchMarkets(ctx context.Context) (markets []MarketPrice, err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe("tickers", err, started)
	}()

	var resp coinTickers
	if err = p.getJSON(ctx, p.cfg.TickersURL, &resp); err != nil {
		return nil, fmt.Errorf("coin tickers: %w", err)
	}

	markets = make([]MarketPrice, 0, len(resp.Tickers))
	for _, t := range resp.Tickers {
		if t.Target != "BTC" || !t.Volume.IsPositive() {
			continue
		}
		if _, skip := p.excluded[t.Market.Name]; skip {
			continue
		}
		markets = append(markets, MarketPrice{Name: t.Market.Name, Price: t.Last, Volume: t.Volume})
	}
	sort.SliceStable(markets, func(i, j int) bool {
		return markets[i].Volume.GreaterThan(markets[j].Volume)
	})
	return markets, nil
}

func (p *Poller) getJSON(ctx context.Context, url string, out any) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(p.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return fmt.Errorf("get %s: status %d", url, status)
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
