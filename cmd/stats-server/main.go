package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/metrics"
	rpcclient2 "github.com/goodnatureofminers/blockstats7000-backend/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/aggregate"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/model"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/node"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/notify"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/price"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/stats/syncer"
	"github.com/goodnatureofminers/blockstats7000-backend/internal/transport"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	Coin    model.Coin    `long:"coin" env:"STATS_COIN" description:"coin ticker" default:"RITO"`
	Network model.Network `long:"network" env:"STATS_NETWORK" description:"network name" default:"mainnet"`

	RPCURL      string        `long:"rpc-url" env:"STATS_RPC_URL" description:"node RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser     string        `long:"rpc-user" env:"STATS_RPC_USER" description:"node RPC username"`
	RPCPassword string        `long:"rpc-password" env:"STATS_RPC_PASSWORD" description:"node RPC password"`
	RPCTimeout  time.Duration `long:"rpc-timeout" env:"STATS_RPC_TIMEOUT" description:"timeout for a single RPC call" default:"30s"`

	ZMQAddr      string        `long:"zmq-addr" env:"STATS_ZMQ_ADDR" description:"ZMQ hashblock endpoint, e.g. tcp://127.0.0.1:28332; polling is used when empty"`
	PollInterval time.Duration `long:"poll-interval" env:"STATS_POLL_INTERVAL" description:"tip polling interval when ZMQ is not used" default:"10s"`
	SeenCache    int           `long:"seen-cache" env:"STATS_SEEN_CACHE" description:"recently announced hashes remembered for deduplication" default:"1024"`

	DevFundAddress string   `long:"dev-fund-address" env:"STATS_DEV_FUND_ADDRESS" description:"address receiving the dev fund share of coinbase" required:"true"`
	BurnAddresses  []string `long:"burn-address" env:"STATS_BURN_ADDRESSES" env-delim:"," description:"address whose balance counts as burned (repeatable)"`

	HistoryBackend string `long:"history-backend" env:"STATS_HISTORY_BACKEND" description:"history log backend" choice:"file" choice:"leveldb" choice:"clickhouse" default:"file"`
	HistoryPath    string `long:"history-path" env:"STATS_HISTORY_PATH" description:"history file or leveldb directory" default:"history.jsonl"`
	LevelDBSync    bool   `long:"leveldb-sync" env:"STATS_LEVELDB_SYNC" description:"fsync every leveldb append"`
	ClickhouseDSN  string `long:"clickhouse-dsn" env:"STATS_CLICKHOUSE_DSN" description:"ClickHouse DSN for the clickhouse backend"`
	FlushRetries   int    `long:"clickhouse-flush-retries" env:"STATS_CLICKHOUSE_FLUSH_RETRIES" description:"extra attempts for a failed ClickHouse insert" default:"3"`

	CatchUpWindow int `long:"catchup-window" env:"STATS_CATCHUP_WINDOW" description:"heights fetched concurrently during catch-up" default:"8"`
	CatchUpRPS    int `long:"catchup-rps" env:"STATS_CATCHUP_RPS" description:"block fetches per second during catch-up" default:"50"`

	ListenAddr  string   `long:"listen-addr" env:"STATS_LISTEN_ADDR" description:"HTTP listen address" default:":8002"`
	CORSOrigins []string `long:"cors-origin" env:"STATS_CORS_ORIGINS" env-delim:"," description:"allowed origin (repeatable); any origin when empty"`
	IndexFile   string   `long:"index-file" env:"STATS_INDEX_FILE" description:"dashboard page served at /"`

	PriceInterval   time.Duration `long:"price-interval" env:"STATS_PRICE_INTERVAL" description:"price polling interval" default:"5s"`
	PriceCoinID     string        `long:"price-coin-id" env:"STATS_PRICE_COIN_ID" description:"CoinGecko coin id" default:"ritocoin"`
	ExcludedMarkets []string      `long:"excluded-market" env:"STATS_EXCLUDED_MARKETS" env-delim:"," description:"market left out of price info (repeatable)"`

	Log logConfig `group:"logging" namespace:"log" env-namespace:"STATS_LOG"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, "failed to parse flags:", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("stats server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	logger = logger.With(zap.String("coin", string(cfg.Coin)), zap.String("network", string(cfg.Network)))

	history, err := openHistory(ctx, cfg, logger.Named("history"))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() {
		if err := history.Close(); err != nil {
			logger.Error("close history", zap.Error(err))
		}
	}()

	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()
	rpc := rpcclient2.NewObservedClient(rpcClient, metrics.NewRPCClient(cfg.Coin, cfg.Network), cfg.RPCTimeout)
	fetcher := node.NewFetcher(rpc, cfg.DevFundAddress, cfg.BurnAddresses)

	engine := aggregate.NewEngine()
	hub := transport.NewHub(engine, metrics.NewBroadcast(), logger.Named("hub"), cfg.CORSOrigins)
	defer hub.Close()

	controller := syncer.New(
		fetcher,
		history,
		engine,
		hub,
		metrics.NewSyncController(cfg.Coin, cfg.Network),
		logger.Named("syncer"),
		syncer.Config{Window: cfg.CatchUpWindow, RPS: cfg.CatchUpRPS},
	)

	source, err := newSource(cfg, fetcher, logger.Named("notify"))
	if err != nil {
		return fmt.Errorf("init notification source: %w", err)
	}
	bridge, err := notify.NewBridge(source, controller, metrics.NewNotificationBridge(cfg.Coin, cfg.Network), logger.Named("bridge"), cfg.SeenCache)
	if err != nil {
		return fmt.Errorf("init notification bridge: %w", err)
	}

	poller := price.NewPoller(price.Config{
		CoinID:          cfg.PriceCoinID,
		Symbol:          string(cfg.Coin),
		ExcludedMarkets: cfg.ExcludedMarkets,
		Interval:        cfg.PriceInterval,
	}, hub, metrics.NewPricePoller(), logger.Named("price"))

	handler := transport.NewHandler(transport.Config{
		AllowedOrigins: cfg.CORSOrigins,
		IndexFile:      cfg.IndexFile,
	}, engine, controller, poller, hub, logger.Named("http"))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHTTP(ctx, cfg.ListenAddr, handler, logger)
	})
	g.Go(func() error {
		return ignoreCanceled(poller.Run(ctx))
	})
	g.Go(func() error {
		return ignoreCanceled(controller.Run(ctx, bridge))
	})
	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newSource(cfg config, chain notify.ChainTip, logger *zap.Logger) (notify.Source, error) {
	if cfg.ZMQAddr == "" {
		logger.Info("polling node for new blocks", zap.Duration("interval", cfg.PollInterval))
		return notify.NewPollSource(chain, cfg.PollInterval, logger), nil
	}
	if !notify.ZMQSupported {
		logger.Warn("zmq address set but binary built without zmq, falling back to polling",
			zap.String("addr", cfg.ZMQAddr))
		return notify.NewPollSource(chain, cfg.PollInterval, logger), nil
	}
	return notify.NewZMQSource(cfg.ZMQAddr, metrics.NewNotificationBridge(cfg.Coin, cfg.Network), logger)
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("starting http server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
