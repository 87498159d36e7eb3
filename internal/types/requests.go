package types

// DietPlanRequest is the body of a diet plan generation request
type DietPlanRequest struct {
	Height              float64  `json:"height" binding:"required,gt=0"`
	Weight              float64  `json:"weight" binding:"required,gt=0"`
	Age                 int      `json:"age" binding:"required,gt=0"`
	Gender              string   `json:"gender" binding:"required"`
	ActivityLevel       string   `json:"activityLevel" binding:"required"`
	Goal                string   `json:"goal" binding:"required"`
	DietPreference      string   `json:"dietPreference"`
	BloodSugar          string   `json:"bloodSugar"`
	BloodPressure       string   `json:"bloodPressure"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Allergies           []string `json:"allergies"`
	TargetDate          string   `json:"targetDate" binding:"required"`
}

// EnergyRequest is the body of an energy calculation request
type EnergyRequest struct {
	Height        float64 `json:"height" binding:"required,gt=0"`
	Weight        float64 `json:"weight" binding:"required,gt=0"`
	Age           int     `json:"age" binding:"required,gt=0"`
	Gender        string  `json:"gender" binding:"required"`
	ActivityLevel string  `json:"activityLevel" binding:"required"`
	Goal          string  `json:"goal" binding:"required"`
}

// NutritionLookupRequest asks for the macros of a free-form food description
type NutritionLookupRequest struct {
	Query string `json:"query" binding:"required,max=500"`
}

// ChatRequest is a single chatbot message
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=4000"`
}
