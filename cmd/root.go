package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/supadata-go/config"
	"github.com/s0up4200/supadata-go/query"
	"github.com/s0up4200/supadata-go/supadata"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *supadata.Client

	queries = query.NewCompiler()

	// Global flags
	apiKey       string
	baseURL      string
	outputFormat string
	queryExpr    string

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "supadata",
	Short: "Fetch YouTube transcripts and web content from the Supadata API",
	Long: `supadata is a CLI for the Supadata API. It fetches YouTube transcripts,
translations and metadata, and scrapes, maps and crawls websites.

Results are printed as JSON or YAML with snake_case keys. Use --query to
reduce a result with an expression, e.g. --query 'text(content)'.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// SetVersion records the build information reported by the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Supadata API key (overrides config and SUPADATA_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (json|yaml)")
	rootCmd.PersistentFlags().StringVarP(&queryExpr, "query", "q", "", "expression applied to the result before printing")

	rootCmd.AddCommand(testCmd)
}

// initializeApp loads the configuration and creates the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	overrides := map[string]any{}
	if cmd.Flags().Changed("api-key") {
		overrides["api_key"] = apiKey
	}
	if cmd.Flags().Changed("base-url") {
		overrides["base_url"] = baseURL
	}
	if cmd.Flags().Changed("output") {
		overrides["output.format"] = outputFormat
	}

	var err error
	cfg, err = config.Load(cfgFile, overrides)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err = supadata.NewClient(cfg.APIKey,
		supadata.WithBaseURL(cfg.BaseURL),
		supadata.WithTimeout(cfg.Timeout),
		supadata.WithLogger(logger),
		supadata.WithUserAgent("supadata-cli/"+version),
	)
	if err != nil {
		return fmt.Errorf("failed to create Supadata client: %w", err)
	}

	logger.Debug().Str("base_url", client.BaseURL()).Msg("Client initialized")
	return nil
}

// initializeLogging sets up logging for commands that never talk to the API
func initializeLogging(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// printError writes err to stderr, spelling out API errors
func printError(err error) {
	var apiErr *supadata.Error
	if errors.As(err, &apiErr) {
		fmt.Fprintf(os.Stderr, "Error: %s (%s)\n", apiErr.Title, apiErr.Code)
		if apiErr.Description != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", apiErr.Description)
		}
		if apiErr.DocumentationURL != "" {
			fmt.Fprintf(os.Stderr, "  See %s\n", apiErr.DocumentationURL)
		}
		if apiErr.IsLimitExceeded() {
			fmt.Fprintln(os.Stderr, "  Wait a moment or upgrade your plan before retrying.")
		}
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the Supadata API",
	Long:  `Verify the configured API key and display account information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to Supadata at %s...\n", client.BaseURL())

	resp, err := client.Request(cmd.Context(), http.MethodGet, "/me")
	if err != nil {
		return err
	}

	fmt.Println("✓ Connection successful!")

	account, ok := resp.(map[string]any)
	if !ok {
		return nil
	}

	fmt.Printf("\nAccount:\n")
	for _, key := range []string{"organization_id", "plan", "max_credits", "used_credits"} {
		if value, ok := account[key]; ok {
			fmt.Printf("- %s: %v\n", strings.ReplaceAll(key, "_", " "), value)
		}
	}

	return nil
}
