package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"jo3qma.com/product_catalog/internal/config"
	"jo3qma.com/product_catalog/internal/domain/model"
	"jo3qma.com/product_catalog/internal/infrastructure/dummyjson"
	"jo3qma.com/product_catalog/internal/usecase"
)

var (
	baseURL  string
	pageSize int64
	timeout  time.Duration
	verbose  bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the product catalog from the terminal",
	Long: `catalog browses a DummyJSON-compatible product catalog API.

Settings come from CATALOG_CONFIG_FILE, .env and CATALOG_* environment
variables; flags override them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Read()
		if err != nil {
			return err
		}
		// フラグで上書きしてから検証する
		if cmd.Flags().Changed("base-url") {
			cfg.APIBaseURL = baseURL
		}
		if cmd.Flags().Changed("page-size") {
			cfg.PageSize = pageSize
		}
		if cmd.Flags().Changed("timeout") {
			cfg.HTTPTimeout = timeout
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		zcfg := zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", dummyjson.DefaultBaseURL, "catalog API base URL")
	rootCmd.PersistentFlags().Int64Var(&pageSize, "page-size", model.DefaultPageSize, "products per page")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP timeout per request")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(categoriesCmd, productsCmd)
}

// newStore は設定からストアを組み立てます
func newStore() *usecase.CatalogStore {
	client := dummyjson.NewClient(cfg.APIBaseURL,
		dummyjson.WithTimeout(cfg.HTTPTimeout),
		dummyjson.WithLogger(logger),
	)
	return usecase.NewCatalogStore(client, client,
		usecase.WithPageSize(cfg.PageSize),
		usecase.WithLogger(logger),
	)
}
