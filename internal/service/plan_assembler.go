package service

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/chefbotpro/backend/internal/model"
)

// RandomSource picks meal candidates. *rand.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// mealCalorieRatios is the share of the daily target given to each meal slot
var mealCalorieRatios = map[model.MealType]float64{
	model.Breakfast: 0.25,
	model.Lunch:     0.35,
	model.Dinner:    0.25,
	model.Snack:     0.15,
}

// Advisory strings attached to every plan
const (
	HydrationGoal          = "Drink at least 8 glasses (2 liters) of water daily, more on active days"
	ExerciseRecommendation = "Aim for 150 minutes of moderate aerobic activity per week plus 2 strength training sessions"
)

// PlanAssembler builds weekly plans out of a recipe pool
type PlanAssembler struct {
	rng RandomSource
}

// NewPlanAssembler returns an assembler drawing from rng, or from the global
// generator when rng is nil
func NewPlanAssembler(rng RandomSource) *PlanAssembler {
	if rng == nil {
		rng = globalRandom{}
	}
	return &PlanAssembler{rng: rng}
}

// Assemble produces a PlanDays long plan starting at start. pool must not be empty.
// A meal slot with no matching recipe uses pool[0].
func (a *PlanAssembler) Assemble(pool []model.CandidateRecipe, profile model.UserProfile, targets model.EnergyTargets, start time.Time) model.WeeklyDietPlan {
	buckets := bucketByType(pool)

	days := make([]model.DayPlan, 0, PlanDays)
	for i := 0; i < PlanDays; i++ {
		date := start.AddDate(0, 0, i)
		meals := make([]model.Meal, 0, len(model.MealOrder))
		for _, t := range model.MealOrder {
			bucket := buckets[t]
			recipe := bucket[a.rng.IntN(len(bucket))]
			meals = append(meals, scaleMeal(recipe, t, targets.TargetCalories))
		}
		days = append(days, model.DayPlan{
			Day:   date.Weekday().String(),
			Date:  date.Format("2006-01-02"),
			Meals: meals,
		})
	}

	protein, carbs, fat := DailyMacroTargets(targets.TargetCalories)
	return model.WeeklyDietPlan{
		StartDate:              start.Format("2006-01-02"),
		DailyCalorieTarget:     targets.TargetCalories,
		DailyProteinTarget:     protein,
		DailyCarbsTarget:       carbs,
		DailyFatTarget:         fat,
		Days:                   days,
		HealthNotes:            healthNotes(profile),
		HydrationGoal:          HydrationGoal,
		ExerciseRecommendation: ExerciseRecommendation,
	}
}

func bucketByType(pool []model.CandidateRecipe) map[model.MealType][]model.CandidateRecipe {
	buckets := make(map[model.MealType][]model.CandidateRecipe, len(model.MealOrder))
	for _, r := range pool {
		if r.Type.Valid() {
			buckets[r.Type] = append(buckets[r.Type], r)
		}
	}
	for _, t := range model.MealOrder {
		if len(buckets[t]) == 0 {
			buckets[t] = []model.CandidateRecipe{pool[0]}
		}
	}
	return buckets
}

// scaleMeal copies recipe into slot t, rescaling its numbers to the slot's share
// of targetCalories. Recipes without positive calories scale from the default.
func scaleMeal(recipe model.CandidateRecipe, t model.MealType, targetCalories int) model.Meal {
	calories := recipe.Calories
	if calories <= 0 {
		calories = model.DefaultRecipeCalories
	}
	targetMeal := math.Round(float64(targetCalories) * mealCalorieRatios[t])
	ratio := targetMeal / calories

	meal := model.Meal{
		Name:           recipe.Name,
		Type:           t,
		Calories:       int(math.Round(calories * ratio)),
		Protein:        int(math.Round(recipe.Protein * ratio)),
		Carbs:          int(math.Round(recipe.Carbs * ratio)),
		Fat:            int(math.Round(recipe.Fat * ratio)),
		Ingredients:    recipe.Ingredients,
		Instructions:   recipe.Instructions,
		HealthBenefits: recipe.HealthBenefits,
	}
	if len(meal.Ingredients) == 0 {
		meal.Ingredients = []model.Ingredient{{Name: "Ingredient", Amount: "1 serving"}}
	}
	if len(meal.Instructions) == 0 {
		meal.Instructions = []string{"Prepare and serve"}
	}
	if len(meal.HealthBenefits) == 0 {
		meal.HealthBenefits = []string{"Nutritious meal"}
	}
	return meal
}

func healthNotes(p model.UserProfile) []string {
	notes := make([]string, 0, 4)
	if p.BloodSugar == "normal" {
		notes = append(notes, "Your blood sugar levels are normal. Keep up the balanced eating habits.")
	} else {
		notes = append(notes, "Monitor your blood sugar regularly and prefer smaller, more frequent meals with low glycemic index foods.")
	}
	if p.BloodPressure == "normal" {
		notes = append(notes, "Your blood pressure is normal. Keep sodium intake moderate to maintain it.")
	} else {
		notes = append(notes, "Monitor your blood pressure and limit sodium, favoring potassium rich foods and smaller frequent meals.")
	}
	notes = append(notes,
		"Eat a variety of colorful vegetables and fruits every day.",
		"Consult a healthcare professional before making major dietary changes.",
	)
	return notes
}
