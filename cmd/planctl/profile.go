package main

import (
	"github.com/spf13/cobra"
)

// profileFlags are shared by the energy and plan commands
type profileFlags struct {
	height   float64
	weight   float64
	age      int
	gender   string
	activity string
	goal     string
}

func (p *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.height, "height", 0, "Height in cm")
	cmd.Flags().Float64Var(&p.weight, "weight", 0, "Weight in kg")
	cmd.Flags().IntVar(&p.age, "age", 0, "Age in years")
	cmd.Flags().StringVar(&p.gender, "gender", "", "male or female")
	cmd.Flags().StringVar(&p.activity, "activity", "sedentary", "sedentary, light, moderate, active or very_active")
	cmd.Flags().StringVar(&p.goal, "goal", "maintain", "cut, bulk, maintain or general_health")
	_ = cmd.MarkFlagRequired("height")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("gender")
}
