package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chefbotpro/backend/config"
	"github.com/chefbotpro/backend/internal/service"
	"github.com/chefbotpro/backend/internal/types"
	"github.com/chefbotpro/backend/pkg/logger"
)

func newPlanCmd() *cobra.Command {
	var (
		p              profileFlags
		targetDate     string
		dietPreference string
		bloodSugar     string
		bloodPressure  string
		restrictions   []string
		allergies      []string
		offline        bool
		seed           uint64
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a weekly diet plan and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			log := zap.NewNop()
			if verbose {
				log = logger.New(logger.Config{Level: "debug", Format: "console", Output: zapcore.AddSync(os.Stderr)})
			}

			var chat service.ChatCompleter
			if !offline {
				sensay, err := sensayFromConfig(log)
				if err != nil {
					return err
				}
				if sensay != nil {
					chat = sensay
				}
			}

			var opts []service.DietPlanOption
			if cmd.Flags().Changed("seed") {
				opts = append(opts, service.WithRandomSource(rand.New(rand.NewPCG(seed, seed))))
			}

			req := types.DietPlanRequest{
				Height:              p.height,
				Weight:              p.weight,
				Age:                 p.age,
				Gender:              p.gender,
				ActivityLevel:       p.activity,
				Goal:                p.goal,
				DietPreference:      dietPreference,
				BloodSugar:          bloodSugar,
				BloodPressure:       bloodPressure,
				DietaryRestrictions: restrictions,
				Allergies:           allergies,
				TargetDate:          targetDate,
			}
			resp, err := service.NewDietPlanService(chat, log, nil, opts...).Generate(cmd.Context(), req, "planctl")
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}

	p.register(cmd)
	cmd.Flags().StringVar(&targetDate, "target-date", "", "First day of the plan (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dietPreference, "diet-preference", "", "Free-form diet preference, e.g. vegetarian")
	cmd.Flags().StringVar(&bloodSugar, "blood-sugar", "", "normal, elevated or high")
	cmd.Flags().StringVar(&bloodPressure, "blood-pressure", "", "normal, elevated or high")
	cmd.Flags().StringSliceVar(&restrictions, "restriction", nil, "Dietary restriction (repeatable)")
	cmd.Flags().StringSliceVar(&allergies, "allergy", nil, "Allergy (repeatable)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip Sensay and use the fallback catalog")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed meal selection for reproducible plans")
	_ = cmd.MarkFlagRequired("target-date")
	return cmd
}

// sensayFromConfig returns nil when Sensay credentials are not configured
func sensayFromConfig(log *zap.Logger) (*service.SensayClient, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Sensay.OrganizationSecret == "" || cfg.Sensay.ReplicaID == "" {
		log.Warn("Sensay is not configured, using the fallback catalog")
		return nil, nil
	}
	return service.NewSensayClient(service.SensayConfig{
		BaseURL:            cfg.Sensay.APIURL,
		OrganizationSecret: cfg.Sensay.OrganizationSecret,
		ReplicaID:          cfg.Sensay.ReplicaID,
		APIVersion:         cfg.Sensay.APIVersion,
		Timeout:            cfg.Sensay.Timeout,
	}, nil, log, nil), nil
}
