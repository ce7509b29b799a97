package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"biblioteca/config"
	"biblioteca/library"
	"biblioteca/web"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "biblioteca",
	Short: "Library loan management system",
	Long: `biblioteca is a small library-loan management web application:
librarians register books, students and loans; students follow book
availability and their own loan history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
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
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demonstration catalog, members and loans",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		lib, err := library.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer lib.Close()

		if err := lib.EnsureDefaultAdmin(); err != nil {
			return err
		}
		if err := lib.SeedSampleData(time.Now()); err != nil {
			return err
		}
		logger.Info("sample data loaded", zap.String("db", cfg.DBPath))
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Register an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		lib, err := library.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer lib.Close()

		name, err := prompt("Full name: ")
		if err != nil {
			return err
		}
		login, err := prompt("Login: ")
		if err != nil {
			return err
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		if len(password) < 6 {
			return fmt.Errorf("password must have at least 6 characters")
		}

		id, err := lib.AddAdministrator(name, login, password)
		if err != nil {
			return err
		}
		fmt.Printf("Administrator %q created with ID %d\n", login, id)
		return nil
	},
}

func runServe() error {
	cfg := config.Load()

	lib, err := library.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer lib.Close()

	if err := lib.EnsureDefaultAdmin(); err != nil {
		return fmt.Errorf("ensure default admin: %w", err)
	}

	srv := web.New(lib, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("db", cfg.DBPath))
	return srv.Listen(ctx, cfg.Addr)
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	value, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// readPassword securely reads a password with masking.
func readPassword(label string) (string, error) {
	fmt.Print(label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, seedCmd, createAdminCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
