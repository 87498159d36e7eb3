package service

import (
	"math"
	"time"

	"github.com/chefbotpro/backend/internal/model"
)

// activityMultipliers maps activity levels to their TDEE multiplier
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// goalFactors scales TDEE into the daily calorie target
var goalFactors = map[string]float64{
	"cut":            0.8,
	"bulk":           1.2,
	"maintain":       1.0,
	"general_health": 0.95,
}

// PlanDays is the fixed length of every generated plan
const PlanDays = 7

// ComputeEnergy returns BMR (Mifflin-St Jeor), TDEE and the goal adjusted calorie
// target. Any gender other than "male" uses the female constant.
func ComputeEnergy(heightCM, weightKG float64, age int, gender, activityLevel, goal string) model.EnergyTargets {
	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := activityMultipliers[activityLevel]
	if !ok {
		mult = activityMultipliers["sedentary"]
	}
	tdee := bmr * mult

	factor, ok := goalFactors[goal]
	if !ok {
		factor = 1.0
	}

	return model.EnergyTargets{
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: int(math.Round(tdee * factor)),
	}
}

// BMI returns weight / height(m)^2 rounded to one decimal
func BMI(heightCM, weightKG float64) float64 {
	m := heightCM / 100
	if m <= 0 {
		return 0
	}
	return math.Round(weightKG/(m*m)*10) / 10
}

// DailyMacroTargets splits the calorie target 25/45/30 into protein, carbs and fat grams
func DailyMacroTargets(targetCalories int) (protein, carbs, fat int) {
	tc := float64(targetCalories)
	protein = int(math.Round(tc * 0.25 / 4))
	carbs = int(math.Round(tc * 0.45 / 4))
	fat = int(math.Round(tc * 0.30 / 9))
	return protein, carbs, fat
}

// midnight truncates t to the start of its day in its own location
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil is the whole-day distance from today to target, both at midnight
func DaysUntil(target, today time.Time) int {
	diff := midnight(target).Sub(midnight(today))
	return int(math.Round(diff.Hours() / 24))
}

// ResolveStartDate returns today when target is not in the future, target otherwise
func ResolveStartDate(target, today time.Time) time.Time {
	if DaysUntil(target, today) <= 0 {
		return midnight(today)
	}
	return midnight(target)
}

// ParsePlanDate parses a YYYY-MM-DD date (or RFC 3339 timestamp) in loc
func ParsePlanDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}
