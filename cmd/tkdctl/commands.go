package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Dosada05/tkd-competition/config"
	"github.com/Dosada05/tkd-competition/db"
	"github.com/Dosada05/tkd-competition/logging"
	"github.com/Dosada05/tkd-competition/metrics"
	"github.com/Dosada05/tkd-competition/middleware"
	"github.com/Dosada05/tkd-competition/repositories"
	"github.com/Dosada05/tkd-competition/scoring"
	"github.com/Dosada05/tkd-competition/services"
)

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)

	standingsCmd.AddCommand(standingsRecomputeCmd)
	standingsRecomputeCmd.Flags().IntVar(&poolID, "pool", 0, "pool id")
	_ = standingsRecomputeCmd.MarkFlagRequired("pool")
	rootCmd.AddCommand(standingsCmd)

	bracketCmd.AddCommand(bracketPreviewCmd)
	bracketPreviewCmd.Flags().IntVar(&eventID, "event", 0, "event id")
	bracketPreviewCmd.Flags().IntVar(&baseNumber, "base", 0, "first match number")
	_ = bracketPreviewCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(bracketCmd)

	tokenCmd.Flags().IntVar(&tokenUserID, "user", 1, "user id put into the token")
	tokenCmd.Flags().StringVar(&tokenRole, "role", middleware.RoleOperator, "admin, operator or device")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)

	pssCmd.AddCommand(pssSendCmd)
	pssSendCmd.Flags().StringVar(&pssURL, "url", "ws://localhost:8080/ws/pss", "PSS socket address")
	pssSendCmd.Flags().BoolVar(&pssBinary, "binary", false, "send the frame as MessagePack")
	pssSendCmd.Flags().StringVar(&pssToken, "token", "", "bearer token; a short-lived device token is issued when empty")
	rootCmd.AddCommand(pssCmd)
}

var (
	poolID     int
	eventID    int
	baseNumber int
	pssURL     string
	pssBinary  bool
	pssToken   string

	tokenUserID int
	tokenRole   string
	tokenTTL    time.Duration
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *sql.DB, logger *slog.Logger) error {
			return db.MigrateUp(cmd.Context(), conn, logger)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *sql.DB, logger *slog.Logger) error {
			return db.MigrateDown(cmd.Context(), conn, logger)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *sql.DB, logger *slog.Logger) error {
			return db.MigrationStatus(cmd.Context(), conn, logger)
		})
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Pool standings",
}

var standingsRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute the standings of a pool from its official results",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *sql.DB, logger *slog.Logger) error {
			// Без хаба: зрителей у CLI нет.
			pools := services.NewPoolService(newRepositories(conn), repositories.NewPostgresPoolStandingRepository(conn),
				services.NewTxRunner(conn, logger), nil, metrics.NewService(prometheus.NewRegistry()), logger)
			standings, err := pools.RecomputeStandings(cmd.Context(), poolID)
			if err != nil {
				return err
			}
			return printJSON(standings)
		})
	},
}

var bracketCmd = &cobra.Command{
	Use:   "bracket",
	Short: "Elimination brackets",
}

var bracketPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the bracket an event would get, without writing it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *sql.DB, logger *slog.Logger) error {
			repos := newRepositories(conn)
			brackets := services.NewBracketService(services.NewTxRunner(conn, logger), repos.Events, repos.Competitors,
				repos.Matches, nil, metrics.NewService(prometheus.NewRegistry()), logger)
			matches, err := brackets.PreviewBracket(cmd.Context(), eventID, baseNumber)
			if err != nil {
				return err
			}
			return printJSON(matches)
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		token, err := middleware.GenerateToken(cfg.JWTSecretKey, tokenUserID, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var pssCmd = &cobra.Command{
	Use:   "pss",
	Short: "Talk to the PSS socket like a scoring console",
}

var pssSendCmd = &cobra.Command{
	Use:   "send EVENT DATA",
	Short: "Send one frame, e.g. send match:start '{\"matchId\":12}'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(args[1]), &data); err != nil {
			return fmt.Errorf("DATA must be a JSON object: %w", err)
		}

		msgType := websocket.TextMessage
		frame, err := json.Marshal(map[string]interface{}{"event": args[0], "data": data})
		if pssBinary {
			msgType = websocket.BinaryMessage
			frame, err = scoring.EncodeMsgpack(scoring.Event(args[0]), data)
		}
		if err != nil {
			return err
		}

		token := pssToken
		if token == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if token, err = middleware.GenerateToken(cfg.JWTSecretKey, 1, middleware.RoleDevice, 5*time.Minute); err != nil {
				return err
			}
		}
		header := http.Header{}
		header.Set("Authorization", "Bearer "+token)

		conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), pssURL, header)
		if err != nil {
			return fmt.Errorf("failed to connect to %s: %w", pssURL, err)
		}
		defer conn.Close()

		if err := conn.WriteMessage(msgType, frame); err != nil {
			return err
		}
		// Сервер ничего не отвечает, закрываем аккуратно.
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		fmt.Printf("sent %d bytes to %s\n", len(frame), pssURL)
		return nil
	},
}

func withDB(fn func(conn *sql.DB, logger *slog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, logLevel, "text")

	conn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn, logger)
}

func newRepositories(conn *sql.DB) services.MatchRepositories {
	return services.MatchRepositories{
		Events:      repositories.NewPostgresEventRepository(conn),
		Competitors: repositories.NewPostgresCompetitorRepository(conn),
		Matches:     repositories.NewPostgresMatchRepository(conn),
		Actions:     repositories.NewPostgresMatchActionRepository(conn),
		Results:     repositories.NewPostgresMatchResultRepository(conn),
		Pools:       repositories.NewPostgresPoolRepository(conn),
		Assignments: repositories.NewPostgresAssignmentRepository(conn),
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
