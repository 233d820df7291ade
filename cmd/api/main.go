package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"blogapi/internal/config"
)

// newRootCommand builds the CLI. Running it without a subcommand serves,
// so the root command carries the serve flags as well.
func newRootCommand(serve serveFunc) *cobra.Command {
	flags := newServeFlags()
	rootCmd := &cobra.Command{
		Use:   "blogapi",
		Short: "Blog backend with a GraphQL API",
		Long: `Blog backend serving users, posts, tags and file uploads over GraphQL.

Available commands:
  serve    - Apply migrations and start the HTTP server (default)
  migrate  - Apply pending database migrations and exit
  schema   - Write the GraphQL schema definition`,
		SilenceUsage: true,
		RunE:         serveRunE(flags, serve),
	}

	cobraflags.RegisterMap(rootCmd, flags)
	rootCmd.AddCommand(newServeCommand(serve))
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newSchemaCommand())
	return rootCmd
}

func main() {
	if err := newRootCommand(runServer).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and installs the JSON logger.
func loadConfig() *config.Config {
	cfg := config.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	return cfg
}
