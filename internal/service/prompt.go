package service

import (
	"fmt"
	"strings"

	"github.com/chefbotpro/backend/internal/model"
)

// RecipePoolSize is the number of recipes requested from the AI per plan
const RecipePoolSize = 10

// macroGuidance describes the macro profile wanted for each goal
func macroGuidance(goal string) string {
	switch goal {
	case "bulk":
		return "HIGH calorie, HIGH protein"
	case "cut":
		return "LOW calorie, HIGH protein"
	case "maintain":
		return "BALANCED"
	case "general_health":
		return "NUTRIENT-DENSE"
	default:
		return "BALANCED"
	}
}

// BuildRecipePoolPrompt asks the AI for a JSON array of candidate recipes suited to
// the profile and its calorie target
func BuildRecipePoolPrompt(p model.UserProfile, targets model.EnergyTargets) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create exactly %d different healthy recipes as a JSON array for this person:\n", RecipePoolSize)
	fmt.Fprintf(&b, "- Age: %d, Gender: %s\n", p.Age, p.Gender)
	fmt.Fprintf(&b, "- Height: %gcm, Weight: %gkg\n", p.Height, p.Weight)
	fmt.Fprintf(&b, "- Activity level: %s\n", p.ActivityLevel)
	fmt.Fprintf(&b, "- Daily calorie target: %d kcal\n", targets.TargetCalories)
	fmt.Fprintf(&b, "- Goal: %s (recipes should be %s)\n", p.Goal, macroGuidance(p.Goal))

	pref := p.DietPreference
	if pref == "" {
		pref = "none"
	}
	fmt.Fprintf(&b, "- Diet preference: %s\n", pref)
	if len(p.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "- Dietary restrictions: %s\n", strings.Join(p.DietaryRestrictions, ", "))
	}
	if len(p.Allergies) > 0 {
		fmt.Fprintf(&b, "- Avoid these allergens: %s\n", strings.Join(p.Allergies, ", "))
	}

	b.WriteString(`
Include at least 2 breakfast, 3 lunch, 3 dinner and 2 snack recipes.
Respond ONLY with a JSON array, no other text. Each element must have this structure:
[
  {
    "name": "Recipe name",
    "type": "breakfast | lunch | dinner | snack",
    "calories": 450,
    "protein": 30,
    "carbs": 40,
    "fat": 15,
    "ingredients": [{"name": "Oats", "amount": "80g"}],
    "instructions": ["Step 1", "Step 2"],
    "healthBenefits": ["Benefit 1"]
  }
]
calories, protein, carbs and fat must be numbers.`)

	return b.String()
}
