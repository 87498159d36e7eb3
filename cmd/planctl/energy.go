package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/chefbotpro/backend/internal/service"
)

func newEnergyCmd() *cobra.Command {
	var p profileFlags
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Print BMR, TDEE and the goal adjusted calorie target",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := service.ComputeEnergy(p.height, p.weight, p.age, p.gender, p.activity, p.goal)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "BMI\t%.1f\n", service.BMI(p.height, p.weight))
			fmt.Fprintf(out, "BMR\t%d kcal\n", int(math.Round(targets.BMR)))
			fmt.Fprintf(out, "TDEE\t%d kcal\n", int(math.Round(targets.TDEE)))
			fmt.Fprintf(out, "TARGET\t%d kcal\n", targets.TargetCalories)
			return nil
		},
	}
	p.register(cmd)
	return cmd
}
