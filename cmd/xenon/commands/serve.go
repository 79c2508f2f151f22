package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lumenlimitless/xenon/internal/chatui"
	"github.com/lumenlimitless/xenon/internal/config"
	"github.com/lumenlimitless/xenon/internal/engine"
	"github.com/lumenlimitless/xenon/internal/session"
	"github.com/lumenlimitless/xenon/internal/shop"
	"github.com/lumenlimitless/xenon/internal/store"
)

var (
	serveUserID    int64
	serveUsername  string
	serveFirstName string
	serveLastName  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local chat session against the store",
	Long: `Starts the conversation engine with a terminal chat front-end acting as
the transport adapter. The --user flag picks the simulated sender identity;
pass the configured admin id to exercise the catalog flows.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int64Var(&serveUserID, "user", 1, "Simulated sender user id")
	serveCmd.Flags().StringVar(&serveUsername, "username", "local", "Simulated sender username")
	serveCmd.Flags().StringVar(&serveFirstName, "first-name", "Local", "Simulated sender first name")
	serveCmd.Flags().StringVar(&serveLastName, "last-name", "User", "Simulated sender last name")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	// The UI owns stdout; keep the log stream on a file out of its way.
	logFile, err := os.OpenFile("xenon.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := cfg.NewLogger(logFile)

	ctx := cmd.Context()
	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return err
	}

	svc := shop.NewService(st, logger)
	eng := engine.New(svc, session.NewStore(), cfg.AdminID, cfg.Storefront, logger)

	logger.Info("starting chat session", "user_id", serveUserID, "admin_id", cfg.AdminID)

	model := chatui.New(eng, serveUserID, engine.Profile{
		Username:  serveUsername,
		FirstName: serveFirstName,
		LastName:  serveLastName,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}
