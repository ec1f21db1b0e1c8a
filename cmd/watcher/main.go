package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"vaultwatch/internal/alert"
	"vaultwatch/internal/chain"
	"vaultwatch/internal/config"
	"vaultwatch/internal/label"
	"vaultwatch/internal/metrics"
	"vaultwatch/internal/notify"
	"vaultwatch/internal/processor"
	"vaultwatch/internal/queue"
	"vaultwatch/internal/vault"
)

func main() {
	root := &cobra.Command{
		Use:          "vaultwatch",
		Short:        "MetaMorpho vault event watcher",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the vault and forward alerts",
		RunE:  runWatch,
	}
	addCommonFlags(watchCmd.Flags())
	root.AddCommand(watchCmd)

	backfillCmd := &cobra.Command{
		Use:   "backfill",
		Short: "Replay historical vault events through the alert pipeline",
		RunE:  runBackfill,
	}
	addCommonFlags(backfillCmd.Flags())
	backfillCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	backfillCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	backfillCmd.Flags().Uint64("batch-size", 2000, "blocks per log query")
	root.AddCommand(backfillCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(flags *pflag.FlagSet) {
	flags.String("rpc-url", "", "chain RPC endpoint")
	flags.String("metamorpho-address", "", "watched vault address")
	flags.String("metamorpho-name", "", "vault display name")
	flags.String("explorer-uri", "", "transaction explorer base URL")
	flags.String("asset", "", "underlying asset symbol")
	flags.Int32("asset-decimals", 0, "underlying asset decimals")
	flags.String("asset-threshold", "", "minimum raw amount for deposit/withdraw alerts")
	flags.Bool("filter-author", false, "drop reallocations sent by the vault allocator")
	flags.String("tg-bot-id", "", "telegram bot token")
	flags.String("tg-chat-id", "", "default telegram chat")
	flags.String("tg-chat-reallocation-id", "", "dedicated telegram chat for reallocations")
	flags.String("morpho-address", config.DefaultMorphoAddress, "Morpho Blue registry address")
	flags.String("data-dir", ".", "directory for the market label snapshot")
	flags.String("metrics-addr", "", "prometheus listen address (disabled when empty)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

// pipeline holds the wired components shared by watch and backfill.
type pipeline struct {
	client    *chain.Client
	queue     *queue.EventQueue
	listener  *vault.Listener
	processor *processor.Processor
	logger    *zap.Logger
}

func buildPipeline(ctx context.Context, cfg config.Config, logger *zap.Logger) (*pipeline, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.VaultAddress) {
		return nil, fmt.Errorf("invalid vault address: %q", cfg.VaultAddress)
	}
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}
	if !common.IsHexAddress(cfg.MorphoAddress) {
		return nil, fmt.Errorf("invalid morpho address: %q", cfg.MorphoAddress)
	}

	threshold, err := cfg.Threshold()
	if err != nil {
		return nil, err
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	store := label.NewStore(cfg.DataDir, cfg.VaultName)
	if err := store.Load(); err != nil {
		client.Close()
		return nil, err
	}
	logger.Info("market data loaded", zap.String("path", store.Path()), zap.Int("markets", store.Len()))

	resolver := label.NewResolver(client, store, common.HexToAddress(cfg.MorphoAddress), logger)

	formatter := alert.NewFormatter(alert.Config{
		VaultName:      cfg.VaultName,
		ExplorerURI:    cfg.ExplorerURI,
		AssetSymbol:    cfg.AssetSymbol,
		AssetDecimals:  cfg.AssetDecimals,
		AssetThreshold: threshold,
	}, resolver, logger)

	notifier, err := notify.NewTelegram(cfg.TGBotID, logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	decoder, err := vault.NewDecoder()
	if err != nil {
		client.Close()
		return nil, err
	}

	q := queue.New()
	listener := vault.NewListener(client, decoder, q, common.HexToAddress(cfg.VaultAddress), logger)

	proc, err := processor.New(processor.Config{
		FilterAuthor:       cfg.FilterAuthor,
		ChatID:             cfg.TGChatID,
		ReallocationChatID: cfg.TGReallocationChatID,
	}, q, formatter, notifier, client, logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &pipeline{
		client:    client,
		queue:     q,
		listener:  listener,
		processor: proc,
		logger:    logger,
	}, nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pipe.client.Close()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
	}

	logger.Info("watcher start",
		zap.String("vault", cfg.VaultAddress),
		zap.String("name", cfg.VaultName),
		zap.Bool("filter_author", cfg.FilterAuthor),
		zap.Bool("reallocation_chat", cfg.TGReallocationChatID != ""),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pipe.listener.Run(ctx) })
	g.Go(func() error { return pipe.processor.Run(ctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("watcher stopped")
	return nil
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pipe.client.Close()

	backfill := vault.NewBackfill(pipe.client, pipe.listener, cfg.BatchSize, logger)
	if err := backfill.Run(ctx, cfg.FromBlock, cfg.ToBlock); err != nil {
		return err
	}

	logger.Info("backfill fetched", zap.Int("queued", pipe.queue.Len()))
	return pipe.processor.Drain(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
