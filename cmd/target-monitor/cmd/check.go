package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1TapDev/Target-Monitor/internal/config"
	"github.com/1TapDev/Target-Monitor/internal/store"
	"github.com/1TapDev/Target-Monitor/pkg/logger"
)

var checkPost bool

var checkCmd = &cobra.Command{
	Use:   "check <sku> <zip>",
	Short: "Fetch current stock for one SKU/ZIP pair",
	Long: "Fetches live store stock for a single SKU and ZIP code, records the\n" +
		"observations, and prints the results. With --post the listing is also\n" +
		"sent to the configured Discord webhook.",
	Args: cobra.ExactArgs(2),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkPost, "post", false, "post the listing to Discord")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	sku, zip := args[0], args[1]

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Target.Timeout*2)
	defer cancel()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN(),
		store.WithPoolSize(cfg.Database.PoolSize))
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	eng := buildEngine(cfg, st, log)

	snapshot, batch, err := eng.RunCheck(ctx, sku, zip)
	if err != nil {
		return fmt.Errorf("checking stock: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STORE\tCITY\tSTATE\tDISTANCE\tQTY")
	for _, sa := range snapshot {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\n",
			sa.StoreName, sa.City, sa.State, sa.Distance, sa.Quantity)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d stores\n", len(snapshot))

	if checkPost {
		for _, msg := range batch {
			if err := buildPoster(cfg, log).Post(ctx, msg); err != nil {
				return fmt.Errorf("posting listing: %w", err)
			}
		}
		log.Info("listing posted", "sku", sku, "zip", zip, "messages", len(batch))
	}

	return nil
}
