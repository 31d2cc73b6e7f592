package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"interviewbuddy/adapters/excel"
	"interviewbuddy/adapters/filestore"
	"interviewbuddy/adapters/llm"
	"interviewbuddy/adapters/llm/heuristic"
	"interviewbuddy/adapters/postgres"
	"interviewbuddy/app"
	"interviewbuddy/domain/core"
	"interviewbuddy/domain/interview"
	"interviewbuddy/internal/config"
	"interviewbuddy/internal/container"
	"interviewbuddy/internal/logging"
	"interviewbuddy/internal/migration"
	"interviewbuddy/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "buddy-cli",
		Short:         "Interview Buddy maintenance and inspection commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newCleanupCmd(),
		newQuestionsCmd(),
		newExportCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads .env, the configuration and a logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	_ = godotenv.Load()
	cfg, err := config.Load(".")
	if err != nil {
		return nil, nil, err
	}
	log, _, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newCleanupCmd() *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete interview sessions and mirrored questions older than max-age",
		Long: `Delete abandoned interview sessions from the session store and the
question mirror. Safe to run repeatedly, e.g. from cron.

Example: buddy-cli cleanup --max-age 24h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			if maxAge <= 0 {
				maxAge = cfg.Interview.SessionMaxAge
			}

			c, err := container.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			sessions, mirrored, err := c.Interviews.CleanupExpired(cmd.Context(), maxAge)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d sessions and %d mirrored question lists older than %s\n", sessions, mirrored, maxAge)
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Age after which sessions are removed (default interview.session_max_age)")
	return cmd
}

func newQuestionsCmd() *cobra.Command {
	var setup interview.SetupDescriptor
	var interviewType, questionType string
	var offline bool

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Generate a question set and print it with its audit as JSON",
		Long: `Generate questions exactly as the server would for a setup and print
them with the generation audit. --offline skips the provider.

Example: buddy-cli questions --role "Software Engineer" --domain Backend --count 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			setup.InterviewType = interview.InterviewType(interviewType)
			setup.QuestionType = interview.QuestionFormat(questionType)
			if err := interview.ValidateSetup(setup); err != nil {
				return err
			}

			var client ports.LLMClient
			if !offline {
				client, err = llm.NewClient(cmd.Context(), container.LLMConfig(cfg), log)
				if err != nil {
					return err
				}
			}
			bank, err := heuristic.NewQuestionBank(nil)
			if err != nil {
				return err
			}

			gen, err := llm.NewQuestionAdapter(client, bank, log).Generate(cmd.Context(), setup)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(gen)
		},
	}

	cmd.Flags().StringVar(&setup.JobRole, "role", "Software Engineer", "Job role")
	cmd.Flags().StringVar(&setup.Domain, "domain", "Backend", "Domain or sub-area")
	cmd.Flags().StringVar(&interviewType, "type", string(interview.InterviewTechnical), "Technical, Behavioral or Mixed")
	cmd.Flags().StringVar(&questionType, "format", string(interview.FormatAIChoice), "MCQ, Short Answer or AI Choice")
	cmd.Flags().IntVar(&setup.QuestionCount, "count", interview.DefaultQuestions, "Number of questions")
	cmd.Flags().StringVar(&setup.Difficulty, "difficulty", interview.DefaultDifficulty, "Easy, Medium or Hard")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use the built-in question bank only")
	return cmd
}

func newExportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export [user-id] [report-id]",
		Short: "Write a saved report to an .xlsx workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			userID, err := core.ParseUserID(args[0])
			if err != nil {
				return err
			}
			reportID, err := core.ParseReportID(args[1])
			if err != nil {
				return err
			}

			repo, closeRepo, err := openReports(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			exporter := excel.NewReportExporter()
			service := app.NewReportService(repo, exporter, log)
			report, err := service.Get(cmd.Context(), userID, reportID)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, exporter.FileName(report))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := exporter.Export(f, report); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the postgres schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			db, err := sqlx.ConnectContext(cmd.Context(), "postgres", cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migration.NewRunner().WithLogger(log)
			if err := runner.Run(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Printf("Schema is at version %s\n", runner.Version())
			return nil
		},
	}
}

// openReports opens the configured report repository without the session store.
func openReports(ctx context.Context, cfg *config.Config) (ports.ReportRepository, func(), error) {
	if cfg.Interview.ReportStore == config.ReportStorePostgres {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewReportRepository(db), func() { db.Close() }, nil
	}
	repo, err := filestore.NewReportRepository(filepath.Join(cfg.Interview.DataDir, "reports"))
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {}, nil
}
