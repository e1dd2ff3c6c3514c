package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/krazyTry/invariant-go/config"
	"github.com/krazyTry/invariant-go/invariant"
	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/math"
	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/state"
	"github.com/krazyTry/invariant-go/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "invariant",
		Short:        "Concentrated liquidity pool tools",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	priceCmd := &cobra.Command{
		Use:   "price",
		Short: "Print the sqrt price and price of a tick",
		RunE:  runPrice,
	}
	priceCmd.Flags().Int32("tick", 0, "tick index")
	root.AddCommand(priceCmd)

	createCmd := &cobra.Command{
		Use:   "create-pool",
		Short: "Build a pool record and optionally persist it",
		RunE:  runCreatePool,
	}
	createCmd.Flags().Int32("tick", 0, "initial tick index")
	createCmd.Flags().String("fee", "0.0005", "pool fee as a fraction")
	createCmd.Flags().Uint16("tick-spacing", 10, "tick spacing")
	createCmd.Flags().String("token-x", "", "token x mint")
	createCmd.Flags().String("token-y", "", "token y mint")
	createCmd.Flags().String("tickmap", "", "tickmap account")
	createCmd.Flags().String("program-id", "", "program id override")
	createCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	createCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(createCmd)

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a JSON script of pool operations",
		RunE:  runReplay,
	}
	replayCmd.Flags().String("in", "", "script path")
	replayCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(replayCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Load and decode a pool account",
		RunE:  runFetch,
	}
	fetchCmd.Flags().String("pool", "", "pool account")
	fetchCmd.Flags().String("rpc", "", "Solana RPC URL")
	fetchCmd.Flags().String("program-id", "", "program id override")
	fetchCmd.Flags().String("pg-dsn", "", "Postgres DSN, syncs the pool when set")
	fetchCmd.Flags().Bool("reserves", false, "also read the reserve token balances")
	fetchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(fetchCmd)

	incentiveCmd := &cobra.Command{
		Use:   "incentive-end",
		Short: "Check whether an incentive can be closed by its founder",
		RunE:  runIncentiveEnd,
	}
	incentiveCmd.Flags().String("incentive", "", "incentive account")
	incentiveCmd.Flags().String("founder", "", "founder wallet")
	incentiveCmd.Flags().String("rpc", "", "Solana RPC URL")
	incentiveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(incentiveCmd)

	listCmd := &cobra.Command{
		Use:   "list-pools",
		Short: "List the pools of the program",
		RunE:  runListPools,
	}
	listCmd.Flags().String("token-x", "", "only pools with this token x")
	listCmd.Flags().String("rpc", "", "Solana RPC URL")
	listCmd.Flags().String("program-id", "", "program id override")
	listCmd.Flags().String("pg-dsn", "", "Postgres DSN, saves the pools when set")
	listCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(listCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// clientOptions turns config into client options. A Postgres store is opened
// and migrated when a DSN is set; the caller closes it.
func clientOptions(ctx context.Context, cfg config.Config, logger *zap.Logger) ([]invariant.Option, *postgres.Store, error) {
	opts := []invariant.Option{invariant.WithLogger(logger)}

	if cfg.ProgramID != "" {
		programID, err := solanago.PublicKeyFromBase58(cfg.ProgramID)
		if err != nil {
			return nil, nil, fmt.Errorf("program id: %w", err)
		}
		opts = append(opts, invariant.WithProgramID(programID))
	}
	if cfg.PgDSN == "" {
		return opts, nil, nil
	}

	store, err := postgres.NewStore(ctx, cfg.PgDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return append(opts, invariant.WithStore(store)), store, nil
}

func runPrice(cmd *cobra.Command, _ []string) error {
	tick, _ := cmd.Flags().GetInt32("tick")
	sqrtPrice, err := math.CalculatePriceSqrt(tick)
	if err != nil {
		return err
	}
	d := sqrtPrice.ToDecimal()
	fmt.Fprintf(cmd.OutOrStdout(), "tick:       %d\nsqrt price: %s\nprice:      %s\n", tick, d, d.Mul(d))
	return nil
}

func runCreatePool(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fee, err := decimals.ParseFixedPoint(cfg.Fee)
	if err != nil {
		return fmt.Errorf("fee: %w", err)
	}
	keys := make(map[string]solanago.PublicKey, 3)
	for _, name := range []string{"token-x", "token-y", "tickmap"} {
		raw, _ := cmd.Flags().GetString(name)
		if raw == "" {
			if name == "tickmap" {
				continue
			}
			return fmt.Errorf("%s is required", name)
		}
		key, err := solanago.PublicKeyFromBase58(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		keys[name] = key
	}
	tick, _ := cmd.Flags().GetInt32("tick")

	ctx := cmd.Context()
	opts, store, err := clientOptions(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	client := invariant.NewClient(opts...)
	created, err := client.CreatePool(ctx, invariant.CreatePoolParams{
		TokenX:   keys["token-x"],
		TokenY:   keys["token-y"],
		Tickmap:  keys["tickmap"],
		FeeTier:  state.FeeTier{Fee: fee, TickSpacing: cfg.TickSpacing},
		InitTick: tick,
	})
	if err != nil {
		return err
	}
	data, err := created.Pool.Encode()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pool:       %s\n", created.Address)
	fmt.Fprintf(out, "fee tier:   %s\n", created.FeeTierAddress)
	fmt.Fprintf(out, "bump:       %d\n", created.Pool.Bump)
	fmt.Fprintf(out, "sqrt price: %s\n", created.Pool.SqrtPrice())
	fmt.Fprintf(out, "encoded:    %d bytes\n", len(data))
	return nil
}

func runReplay(cmd *cobra.Command, _ []string) error {
	_, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	in, _ := cmd.Flags().GetString("in")
	if in == "" {
		return fmt.Errorf("in is required")
	}
	script, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	client := invariant.NewClient(invariant.WithLogger(logger))
	created, err := replayScript(cmd.Context(), client, logger, script)
	if err != nil {
		return err
	}
	printPool(cmd, created.Address, created.Pool)
	fmt.Fprintf(cmd.OutOrStdout(), "ticks:      %v\n",
		initializedTicks(created.Tickmap, created.Pool.CurrentTickIndex(), shared.TickSearchRange*int32(created.Pool.TickSpacing)))
	return nil
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	raw, _ := cmd.Flags().GetString("pool")
	address, err := solanago.PublicKeyFromBase58(raw)
	if err != nil {
		return fmt.Errorf("pool: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, store, err := clientOptions(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	client := invariant.NewClient(append(opts, invariant.WithRPC(rpc.New(cfg.RPCURL)))...)

	var pool *state.Pool
	if cfg.PgDSN != "" {
		pool, err = client.SyncPool(ctx, address)
	} else {
		pool, err = client.FetchPool(ctx, address)
	}
	if err != nil {
		return err
	}
	printPool(cmd, address, pool)

	if withReserves, _ := cmd.Flags().GetBool("reserves"); withReserves {
		reserves, err := client.FetchReserves(ctx, pool)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reserves:   x %d, y %d\n", reserves.X, reserves.Y)
	}
	return nil
}

func runIncentiveEnd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	keys := make(map[string]solanago.PublicKey, 2)
	for _, name := range []string{"incentive", "founder"} {
		raw, _ := cmd.Flags().GetString(name)
		key, err := solanago.PublicKeyFromBase58(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		keys[name] = key
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := invariant.NewClient(invariant.WithRPC(rpc.New(cfg.RPCURL)), invariant.WithLogger(logger))
	amount, err := client.CheckIncentiveEnd(ctx, keys["incentive"], keys["founder"])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "incentive can end, %d returns to the founder\n", amount)
	return nil
}

func runListPools(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var tokenX solanago.PublicKey
	if raw, _ := cmd.Flags().GetString("token-x"); raw != "" {
		if tokenX, err = solanago.PublicKeyFromBase58(raw); err != nil {
			return fmt.Errorf("token-x: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, store, err := clientOptions(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
	client := invariant.NewClient(append(opts, invariant.WithRPC(rpc.New(cfg.RPCURL)))...)

	pools, err := client.ListPools(ctx, tokenX)
	if err != nil {
		return err
	}
	for address, pool := range pools {
		printPool(cmd, address, pool)
	}

	if store != nil {
		if err := store.SavePools(ctx, pools); err != nil {
			return fmt.Errorf("save pools: %w", err)
		}
		logger.Info("pools saved", zap.Int("pools", len(pools)))
	}
	return nil
}

func printPool(cmd *cobra.Command, address solanago.PublicKey, pool *state.Pool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pool:       %s\n", address)
	fmt.Fprintf(out, "tokens:     %s / %s\n", pool.TokenX, pool.TokenY)
	fmt.Fprintf(out, "fee:        %s (spacing %d)\n", pool.Fee, pool.TickSpacing)
	fmt.Fprintf(out, "tick:       %d\n", pool.CurrentTickIndex())
	fmt.Fprintf(out, "sqrt price: %s\n", pool.SqrtPrice())
	fmt.Fprintf(out, "liquidity:  %s\n", pool.Liquidity())
	fmt.Fprintf(out, "fee growth: x %s, y %s\n", pool.FeeGrowthGlobalX(), pool.FeeGrowthGlobalY())
	fmt.Fprintf(out, "protocol:   x %d, y %d\n", pool.FeeProtocolTokenX(), pool.FeeProtocolTokenY())
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
