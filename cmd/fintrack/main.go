package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/search"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/transfer"
)

var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
	Prefix:          "fintrack",
})

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Personal finance tracker",
	Long:  "Track spending against a budget from the command line, sharing the daemon's data store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// openStore builds the configured backend and loads the collection.
// The returned cleanup must run before exit.
func openStore(ctx context.Context) (*services.TrackerService, *store.Store, func(), error) {
	// Internal packages log through slog; keep that off the CLI's stdout.
	internalLog := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})

	factory := backend.NewFactory(internalLog)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:          backend.Type(viper.GetString("backend")),
		SQLiteDBPath:  viper.GetString("sqlite-path"),
		RedisAddr:     viper.GetString("redis-addr"),
		RedisPassword: viper.GetString("redis-password"),
		RedisDB:       viper.GetInt("redis-db"),
	})
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("backend cleanup failed", "error", err)
			}
		}
	}

	st := store.New(result.KV)
	if err := st.Init(ctx); err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	svc := services.NewTrackerService(st, nil, internalLog)
	return svc, st, cleanup, nil
}

var addCmd = &cobra.Command{
	Use:   "add <description> <amount> <category> <date>",
	Short: "Record a transaction",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, _, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		tx, err := svc.Create(ctx, services.TransactionInput{
			Description: args[0],
			Amount:      args[1],
			Category:    args[2],
			Date:        args[3],
		})
		if err != nil {
			return err
		}

		fmt.Printf("added %s: %s %s (%s, %s)\n", tx.ID, tx.Description, tx.Amount, tx.Category, tx.Date)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		_, st, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if key, _ := cmd.Flags().GetString("sort"); key != "" {
			dir, _ := cmd.Flags().GetString("dir")
			if err := st.SortBy(store.SortKey(key), store.Direction(dir)); err != nil {
				return err
			}
		}

		txs := st.List()

		if pattern, _ := cmd.Flags().GetString("query"); pattern != "" {
			caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
			matcher, err := search.Compile(pattern, caseSensitive)
			if err != nil {
				return err
			}
			txs = search.Filter(txs, matcher)
		}

		printTransactions(txs)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, _, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show spending statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, _, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		stats, err := svc.Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("transactions:  %d\n", stats.Count)
		fmt.Printf("total spent:   %s\n", stats.TotalSpent)
		fmt.Printf("top category:  %s\n", stats.TopCategory)
		fmt.Printf("last 7 days:   %s\n", stats.Last7Days)
		switch stats.Budget.State {
		case core.BudgetRemaining:
			fmt.Printf("budget:        %s remaining\n", stats.Budget.Amount)
		case core.BudgetOver:
			fmt.Printf("budget:        %s over\n", stats.Budget.Amount)
		default:
			fmt.Println("budget:        not set")
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search transactions by regex",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, st, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
		matcher, err := search.Compile(args[0], caseSensitive)
		if err != nil {
			return err
		}

		printTransactions(search.Filter(st.List(), matcher))
		return nil
	},
}

var budgetCmd = &cobra.Command{
	Use:   "budget [amount]",
	Short: "Show or set the monthly budget",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, st, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		if len(args) == 1 {
			if err := st.SetBudget(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("budget set to %s\n", args[0])
			return nil
		}

		budget, set, err := st.Budget(ctx)
		if err != nil {
			return err
		}
		if !set {
			fmt.Println("budget not set")
			return nil
		}
		fmt.Printf("budget: %s\n", budget)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export transactions as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		_, st, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		data, err := transfer.Export(st.List())
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("output"); out != "" {
			if err := os.WriteFile(out, data, 0644); err != nil {
				return err
			}
			fmt.Printf("exported %d transactions to %s\n", st.Count(), out)
			return nil
		}

		fmt.Println(string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import transactions from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, st, cleanup, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		added, err := transfer.Import(ctx, st, data)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d new transactions (%d total)\n", added, st.Count())
		return nil
	},
}

func printTransactions(txs []core.Transaction) {
	if len(txs) == 0 {
		fmt.Println("no transactions")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date, tx.Amount, tx.Category, tx.Description)
	}
	_ = w.Flush()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("backend", "sqlite", "Data backend (sqlite, redis, memory)")
	flags.String("sqlite-path", "./data/fintrack.db", "SQLite database path")
	flags.String("redis-addr", "localhost:6379", "Redis address")
	flags.String("redis-password", "", "Redis password")
	flags.Int("redis-db", 0, "Redis database index")

	for _, name := range []string{"backend", "sqlite-path", "redis-addr", "redis-password", "redis-db"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	// Environment overrides, e.g. FINTRACK_REDIS_ADDR=redis.local:6379
	viper.SetEnvPrefix("FINTRACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	listCmd.Flags().String("sort", "", "Sort key (date, amount, description)")
	listCmd.Flags().String("dir", "asc", "Sort direction (asc, desc)")
	listCmd.Flags().String("query", "", "Filter by regex pattern")
	listCmd.Flags().Bool("case-sensitive", false, "Match case-sensitively")
	searchCmd.Flags().Bool("case-sensitive", false, "Match case-sensitively")
	exportCmd.Flags().StringP("output", "o", "", "Write the export to a file instead of stdout")

	rootCmd.AddCommand(addCmd, listCmd, removeCmd, statsCmd, searchCmd, budgetCmd, exportCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
