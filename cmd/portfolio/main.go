package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/portfolio/internal/profile"
	"github.com/hrygo/portfolio/internal/version"
	"github.com/hrygo/portfolio/server"
	"github.com/hrygo/portfolio/store"
	"github.com/hrygo/portfolio/store/db"
	"github.com/hrygo/portfolio/store/seed"
)

var (
	rootCmd = &cobra.Command{
		Use:   "portfolio",
		Short: `A personal portfolio site with a rule-based chat assistant, contact form and demo todo list.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Systemd units provide their environment through EnvironmentFile.
			if !isRunningAsSystemdService() {
				_ = godotenv.Load()
			}
			setupLogger(viper.GetString("mode"))
			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			instanceProfile, err := loadProfile()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), instanceProfile)
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load profile, projects and skills from a YAML content file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")
			example, _ := cmd.Flags().GetBool("example")
			if file == "" && !example {
				return errors.New("either --file or --example is required")
			}
			if file != "" && example {
				return errors.New("--file and --example are mutually exclusive")
			}

			instanceProfile, err := loadProfile()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			storeInstance, err := openStore(ctx, instanceProfile)
			if err != nil {
				return err
			}
			defer storeInstance.Close()

			content := seed.Example()
			if file != "" {
				if content, err = seed.LoadFile(file); err != nil {
					return err
				}
			}
			result, err := seed.Apply(ctx, storeInstance, content, instanceProfile.Version)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded profile=%t projects=%d skills=%d\n", result.Profile, result.Projects, result.Skills)
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.StringFull())
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)
	viper.SetDefault("chat-rate-limit", 1.0)
	viper.SetDefault("todo-retention", 24*time.Hour)

	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	flags.String("addr", "", "address of server")
	flags.Int("port", 8081, "port of server")
	flags.String("unix-sock", "", "path to the unix socket, overrides --addr and --port")
	flags.String("data", "", "data directory")
	flags.String("driver", "sqlite", "database driver (sqlite, postgres)")
	flags.String("dsn", "", "database source name(aka. DSN)")
	flags.String("instance-url", "", "the public url of your portfolio, used in feeds")
	flags.String("chat-rules", "", "YAML file with extra chat reply rules")
	flags.Float64("chat-rate-limit", 1.0, "chat requests per second per client IP, 0 disables limiting")
	flags.String("todo-reset-cron", "", `cron schedule for clearing old demo todos, e.g. "@daily"`)
	flags.Duration("todo-retention", 24*time.Hour, "age after which demo todos are cleared")
	flags.String("seed", "", "YAML content file applied at startup")

	for _, key := range []string{
		"mode", "addr", "port", "unix-sock", "data", "driver", "dsn", "instance-url",
		"chat-rules", "chat-rate-limit", "todo-reset-cron", "todo-retention", "seed",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("portfolio")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	seedCmd.Flags().String("file", "", "path to the YAML content file")
	seedCmd.Flags().Bool("example", false, "load the bundled example content")

	rootCmd.AddCommand(seedCmd, askCmd, messagesCmd, versionCmd)
}

// serve runs the server until a termination signal arrives. The store is
// closed on every failure path after it is opened.
func serve(parent context.Context, instanceProfile *profile.Profile) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	storeInstance, err := openStore(ctx, instanceProfile)
	if err != nil {
		printDatabaseError(err, instanceProfile)
		return err
	}

	if instanceProfile.SeedFile != "" {
		if err := seedFromFile(ctx, storeInstance, instanceProfile.SeedFile, instanceProfile.Version); err != nil {
			_ = storeInstance.Close()
			return fmt.Errorf("failed to seed content: %w", err)
		}
	}

	s, err := server.NewServer(ctx, instanceProfile, storeInstance)
	if err != nil {
		_ = storeInstance.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	c := make(chan os.Signal, 1)
	// Trigger graceful shutdown on SIGINT or SIGTERM.
	signal.Notify(c, terminationSignals...)
	defer signal.Stop(c)

	if err := s.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_ = storeInstance.Close()
		return fmt.Errorf("failed to start server: %w", err)
	}

	printGreetings(instanceProfile)

	// Wait for CTRL-C.
	<-c
	s.Shutdown(ctx)
	return nil
}

func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:          viper.GetString("mode"),
		Addr:          viper.GetString("addr"),
		Port:          viper.GetInt("port"),
		UNIXSock:      viper.GetString("unix-sock"),
		Data:          viper.GetString("data"),
		Driver:        viper.GetString("driver"),
		DSN:           viper.GetString("dsn"),
		InstanceURL:   viper.GetString("instance-url"),
		ChatRulesPath: viper.GetString("chat-rules"),
		ChatRateLimit: viper.GetFloat64("chat-rate-limit"),
		TodoResetCron: viper.GetString("todo-reset-cron"),
		TodoRetention: viper.GetDuration("todo-retention"),
		SeedFile:      viper.GetString("seed"),
		Version:       version.GetCurrentVersion(viper.GetString("mode")),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

func openStore(ctx context.Context, instanceProfile *profile.Profile) (*store.Store, error) {
	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, err
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		_ = storeInstance.Close()
		return nil, err
	}
	return storeInstance, nil
}

func seedFromFile(ctx context.Context, s *store.Store, path, serverVersion string) error {
	content, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	result, err := seed.Apply(ctx, s, content, serverVersion)
	if err != nil {
		return err
	}
	slog.Info("Seeded content", "file", path, "profile", result.Profile, "projects", result.Projects, "skills", result.Skills)
	return nil
}

func setupLogger(mode string) {
	var handler slog.Handler
	if mode == "prod" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("Portfolio %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", profile.DSN)
		}
	}

	fmt.Printf("Data directory: %s\n", profile.Data)
	fmt.Printf("Database driver: %s\n", profile.Driver)
	fmt.Printf("Mode: %s\n", profile.Mode)
	if profile.IsLLMEnabled() {
		fmt.Printf("Chat LLM: %s (%s)\n", profile.LLMModel, profile.LLMProvider)
	} else {
		fmt.Println("Chat LLM: disabled, rule-based replies only")
	}

	if len(profile.UNIXSock) == 0 {
		if len(profile.Addr) == 0 {
			fmt.Printf("Server running on port %d\n", profile.Port)
			fmt.Printf("Open your portfolio at: http://localhost:%d\n", profile.Port)
		} else {
			fmt.Printf("Server running on %s:%d\n", profile.Addr, profile.Port)
			fmt.Printf("Open your portfolio at: http://%s:%d\n", profile.Addr, profile.Port)
		}
	} else {
		fmt.Printf("Server running on unix socket: %s\n", profile.UNIXSock)
	}
}

// isRunningAsSystemdService detects if the process is running under systemd
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

// printDatabaseError provides user-friendly error messages for database connection issues
func printDatabaseError(err error, profile *profile.Profile) {
	fmt.Fprintln(os.Stderr, "\nDatabase connection failed")

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host"):
		fmt.Fprintln(os.Stderr, "PostgreSQL is not reachable.")
		fmt.Fprintln(os.Stderr, "  Start it, or use SQLite instead: portfolio --driver=sqlite --data=./data")
	case strings.Contains(errMsg, "SSL is not enabled") || strings.Contains(errMsg, "sslmode"):
		fmt.Fprintln(os.Stderr, "PostgreSQL SSL configuration mismatch.")
		fmt.Fprintln(os.Stderr, "  Add ?sslmode=disable to your DSN.")
	case strings.Contains(errMsg, "password authentication failed"):
		fmt.Fprintln(os.Stderr, "PostgreSQL authentication failed. Check the credentials in your DSN.")
	case strings.Contains(errMsg, "unable to open database file") || strings.Contains(errMsg, "permission denied"):
		fmt.Fprintf(os.Stderr, "Cannot open the database at %s. Check that the data directory is writable.\n", profile.DSN)
	default:
		fmt.Fprintln(os.Stderr, "Error:", errMsg)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
