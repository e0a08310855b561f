package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title JapaneseStudent Learning Summary API
// @version 1.0
// @description API for per-day summaries of a user's learning activity
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email shelyahin.mihail@gmail.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "learning-summary",
		Short:         "JapaneseStudent learning summary service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newSummaryCommand(),
	)

	return rootCmd
}
