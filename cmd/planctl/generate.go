package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"example.com/ai-business-plan/backend/internal/ai"
	"example.com/ai-business-plan/backend/internal/balance"
	"example.com/ai-business-plan/backend/internal/database"
	"example.com/ai-business-plan/backend/internal/observability"
	"example.com/ai-business-plan/backend/internal/pipeline"
	"example.com/ai-business-plan/backend/internal/plan"
	"example.com/ai-business-plan/backend/internal/repository"
)

type generateOptions struct {
	input     string
	output    string
	persist   bool
	user      string
	noBalance bool
	timeout   time.Duration
}

func generateCmd() *cobra.Command {
	opts := generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a business plan from a form JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Form JSON file (- for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the plan document to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "Save the plan to the database")
	cmd.Flags().StringVar(&opts.user, "user", "", "Owner user id (required with --persist)")
	cmd.Flags().BoolVar(&opts.noBalance, "no-balance", false, "Skip the field balancing pass")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 15*time.Minute, "Overall timeout")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runGenerate(ctx context.Context, opts generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, err := readForm(opts.input)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.noBalance {
		cfg.Balance.Enabled = false
	}

	userID := uuid.Nil
	if opts.user != "" {
		userID, err = uuid.Parse(opts.user)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
	}

	logger := slog.Default()
	shutdownTracing, err := observability.SetupTracing(cfg.Tracing, os.Stderr)
	if err != nil {
		return fmt.Errorf("set up tracing: %w", err)
	}
	defer func() {
		_ = shutdownTracing(context.Background())
	}()

	aiService, err := ai.NewServiceFromConfig(cfg.AI, logger)
	if err != nil {
		return err
	}
	targets, err := balance.LoadTargets(cfg.Balance.TargetsFile)
	if err != nil {
		return err
	}

	var store pipeline.PlanStore = discardStore{}
	serviceOpts := []pipeline.Option{pipeline.WithLogger(logger)}

	if opts.persist {
		if userID == uuid.Nil {
			return fmt.Errorf("--user is required with --persist")
		}
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if cfg.Database.AutoMigrate {
			if err := database.EnsureSchema(ctx, db); err != nil {
				return err
			}
		}

		store = repository.NewPlanRepository(db)
		serviceOpts = append(serviceOpts,
			pipeline.WithPaymentLinker(repository.NewPaymentRepository(db)),
			pipeline.WithRequestLogger(repository.NewAIRepository(db)),
		)
	}

	result := pipeline.NewService(aiService, store, targets, pipeline.ConfigFrom(cfg), serviceOpts...).
		GeneratePlan(ctx, userID, req)
	if !result.Success {
		return fmt.Errorf("generation failed: %s", result.Error)
	}

	fmt.Fprintf(os.Stderr, "plan %s generated (%s)\n", result.PlanID, result.Source)
	return writeJSON(opts.output, result.Plan)
}

func readForm(path string) (plan.Request, error) {
	var req plan.Request

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return req, fmt.Errorf("read form: %w", err)
	}

	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("decode form: %w", err)
	}
	if req.PlanName == "" && req.BusinessName == "" {
		return req, fmt.Errorf("form needs planName or businessName")
	}

	return req, nil
}

func writeJSON(path string, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	payload = append(payload, '\n')

	if path == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}

	return os.WriteFile(path, payload, 0o644)
}

// discardStore используется без --persist: план только выводится.
type discardStore struct{}

func (discardStore) Upsert(context.Context, uuid.UUID, string, []byte) (uuid.UUID, error) {
	return uuid.New(), nil
}
