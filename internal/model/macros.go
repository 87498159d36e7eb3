package model

// Macros represents nutrition information for a food lookup.
type Macros struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// NutritionResult is the answer to a nutrition lookup query
type NutritionResult struct {
	Query  string `json:"query"`
	Macros Macros `json:"macros"`
	Source string `json:"source"`
}
