package model

import "time"

// UserProfile holds the biometrics a plan is generated for
type UserProfile struct {
	Height              float64
	Weight              float64
	Age                 int
	Gender              string
	ActivityLevel       string
	Goal                string
	DietPreference      string
	BloodSugar          string
	BloodPressure       string
	DietaryRestrictions []string
	Allergies           []string
	TargetDate          time.Time
}

// EnergyTargets are derived once per request from a UserProfile
type EnergyTargets struct {
	BMR            float64
	TDEE           float64
	TargetCalories int
}

// Meal is a recipe placed in a plan day with its numbers rescaled to the slot
type Meal struct {
	Name           string       `json:"name" validate:"required"`
	Type           MealType     `json:"type" validate:"required,oneof=breakfast lunch dinner snack"`
	Calories       int          `json:"calories" validate:"gte=0"`
	Protein        int          `json:"protein" validate:"gte=0"`
	Carbs          int          `json:"carbs" validate:"gte=0"`
	Fat            int          `json:"fat" validate:"gte=0"`
	Ingredients    []Ingredient `json:"ingredients" validate:"min=1"`
	Instructions   []string     `json:"instructions" validate:"min=1"`
	HealthBenefits []string     `json:"healthBenefits"`
}

// DayPlan is one day of a weekly plan
type DayPlan struct {
	Day   string `json:"day" validate:"required"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Meals []Meal `json:"meals" validate:"len=4,dive"`
}

// WeeklyDietPlan is the assembled 7 day plan. The Total* fields carry daily
// targets; their JSON names are kept for client compatibility.
type WeeklyDietPlan struct {
	StartDate              string    `json:"startDate" validate:"required,datetime=2006-01-02"`
	DailyCalorieTarget     int       `json:"totalCalories" validate:"gt=0"`
	DailyProteinTarget     int       `json:"totalProtein" validate:"gte=0"`
	DailyCarbsTarget       int       `json:"totalCarbs" validate:"gte=0"`
	DailyFatTarget         int       `json:"totalFat" validate:"gte=0"`
	Days                   []DayPlan `json:"days" validate:"len=7,dive"`
	HealthNotes            []string  `json:"healthNotes" validate:"min=1"`
	HydrationGoal          string    `json:"hydrationGoal" validate:"required"`
	ExerciseRecommendation string    `json:"exerciseRecommendation" validate:"required"`
}

// ProfileSummary is the userProfile block of a plan response
type ProfileSummary struct {
	BMI            float64 `json:"bmi"`
	TargetCalories int     `json:"targetCalories"`
	BMR            int     `json:"bmr"`
	TDEE           int     `json:"tdee"`
}

// DietPlanResponse is the payload returned by plan generation
type DietPlanResponse struct {
	PlanID            string         `json:"planId,omitempty"`
	UserProfile       ProfileSummary `json:"userProfile"`
	WeeklyDietPlan    WeeklyDietPlan `json:"weeklyDietPlan"`
	Source            string         `json:"source"`
	Timestamp         string         `json:"timestamp"`
	RecipePoolSize    int            `json:"recipePoolSize,omitempty"`
	ValidationWarning string         `json:"validation_warning,omitempty"`
}
