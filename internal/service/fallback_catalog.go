package service

import (
	"strings"

	"github.com/chefbotpro/backend/internal/model"
)

// fallbackRecipe builds a catalog entry. ingredients is "name:amount" pairs joined
// by "|", steps and benefits are "|" separated lists.
func fallbackRecipe(name string, t model.MealType, cal, protein, carbs, fat float64, ingredients, steps, benefits string) model.CandidateRecipe {
	r := model.CandidateRecipe{
		Name:     name,
		Type:     t,
		Calories: cal,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}
	for _, pair := range strings.Split(ingredients, "|") {
		ing, amount, _ := strings.Cut(pair, ":")
		r.Ingredients = append(r.Ingredients, model.Ingredient{Name: ing, Amount: amount})
	}
	r.Instructions = strings.Split(steps, "|")
	r.HealthBenefits = strings.Split(benefits, "|")
	return r
}

var fallbackCatalog = map[string][]model.CandidateRecipe{
	"cut": {
		fallbackRecipe("Egg White Veggie Omelette", model.Breakfast, 220, 26, 8, 8,
			"Egg whites:6|Spinach:1 cup|Bell pepper:1/2|Olive oil spray:1 spray",
			"Whisk the egg whites|Saute spinach and pepper|Pour in the eggs and fold when set",
			"High protein for satiety|Low in calories"),
		fallbackRecipe("Greek Yogurt Berry Bowl", model.Breakfast, 250, 22, 30, 4,
			"Non-fat Greek yogurt:200g|Mixed berries:100g|Chia seeds:1 tsp",
			"Spoon yogurt into a bowl|Top with berries and chia",
			"Probiotics for gut health|Antioxidants from berries"),
		fallbackRecipe("Grilled Chicken Salad", model.Lunch, 380, 40, 15, 14,
			"Chicken breast:150g|Mixed greens:2 cups|Cherry tomatoes:8|Balsamic vinegar:1 tbsp",
			"Season and grill the chicken|Slice and serve over greens|Dress with balsamic",
			"Lean protein preserves muscle|Fiber keeps you full"),
		fallbackRecipe("Turkey Lettuce Wraps", model.Lunch, 340, 35, 12, 15,
			"Ground turkey:150g|Butter lettuce:6 leaves|Carrot:1|Soy sauce:1 tbsp",
			"Brown the turkey with soy sauce|Grate the carrot|Spoon into lettuce cups",
			"Low carb|Rich in B vitamins"),
		fallbackRecipe("Baked Cod with Broccoli", model.Dinner, 350, 38, 18, 10,
			"Cod fillet:180g|Broccoli:2 cups|Lemon:1/2|Garlic:2 cloves",
			"Heat oven to 200C|Bake cod with lemon and garlic for 15 minutes|Steam broccoli and serve",
			"Omega-3 fatty acids|Low in saturated fat"),
		fallbackRecipe("Zucchini Noodles with Shrimp", model.Dinner, 320, 32, 14, 12,
			"Shrimp:170g|Zucchini:2|Garlic:2 cloves|Olive oil:1 tsp",
			"Spiralize the zucchini|Saute garlic and shrimp|Toss with the noodles",
			"Very low calorie density|High protein"),
		fallbackRecipe("Cottage Cheese and Cucumber", model.Snack, 150, 18, 8, 4,
			"Low-fat cottage cheese:150g|Cucumber:1/2",
			"Slice the cucumber|Serve with cottage cheese",
			"Slow digesting casein protein"),
		fallbackRecipe("Apple with Almonds", model.Snack, 180, 4, 22, 9,
			"Apple:1|Almonds:12",
			"Slice the apple|Serve with almonds",
			"Fiber and healthy fats"),
	},
	"bulk": {
		fallbackRecipe("Peanut Butter Banana Oats", model.Breakfast, 650, 28, 85, 22,
			"Rolled oats:100g|Whole milk:300ml|Banana:1|Peanut butter:2 tbsp",
			"Simmer oats in milk|Slice banana on top|Stir in peanut butter",
			"Sustained energy from complex carbs|Calorie dense for muscle gain"),
		fallbackRecipe("Steak and Egg Breakfast Burrito", model.Breakfast, 700, 45, 55, 30,
			"Flour tortilla:1 large|Eggs:3|Sirloin steak:100g|Cheddar:30g",
			"Sear and slice the steak|Scramble the eggs|Wrap with cheese in the tortilla",
			"Complete protein|Iron and B12"),
		fallbackRecipe("Chicken Rice Power Bowl", model.Lunch, 750, 50, 90, 18,
			"Chicken thigh:200g|Brown rice:1.5 cups cooked|Black beans:1/2 cup|Avocado:1/2",
			"Grill the chicken|Assemble rice, beans and chicken|Top with avocado",
			"High protein for muscle growth|Complex carbohydrates"),
		fallbackRecipe("Tuna Pasta Salad", model.Lunch, 680, 42, 80, 20,
			"Whole wheat pasta:120g dry|Tuna:1 can|Sweetcorn:1/2 cup|Olive oil:1 tbsp",
			"Cook the pasta|Mix with tuna and corn|Dress with olive oil",
			"Omega-3 fatty acids|Glycogen replenishment"),
		fallbackRecipe("Salmon with Sweet Potato", model.Dinner, 720, 45, 60, 30,
			"Salmon fillet:200g|Sweet potato:1 large|Asparagus:8 spears|Butter:1 tbsp",
			"Roast the sweet potato for 35 minutes|Pan sear the salmon|Serve with asparagus",
			"Healthy fats support hormones|Vitamin A"),
		fallbackRecipe("Beef Stir Fry with Noodles", model.Dinner, 780, 48, 85, 24,
			"Lean beef strips:200g|Egg noodles:100g dry|Mixed vegetables:2 cups|Soy sauce:2 tbsp",
			"Cook the noodles|Stir fry beef and vegetables|Toss everything with soy sauce",
			"Creatine and iron from red meat"),
		fallbackRecipe("Protein Smoothie", model.Snack, 450, 35, 50, 12,
			"Whey protein:1 scoop|Whole milk:300ml|Banana:1|Oats:30g",
			"Add everything to a blender|Blend until smooth",
			"Fast post-workout protein"),
		fallbackRecipe("Trail Mix and Yogurt", model.Snack, 400, 20, 40, 18,
			"Greek yogurt:170g|Trail mix:40g|Honey:1 tsp",
			"Top yogurt with trail mix|Drizzle with honey",
			"Calorie dense snack"),
	},
	"maintain": {
		fallbackRecipe("Avocado Toast with Egg", model.Breakfast, 420, 18, 38, 22,
			"Whole grain bread:2 slices|Avocado:1/2|Egg:1|Chili flakes:1 pinch",
			"Toast the bread|Mash avocado on top|Add a fried or poached egg",
			"Monounsaturated fats|Fiber"),
		fallbackRecipe("Berry Overnight Oats", model.Breakfast, 400, 16, 60, 10,
			"Rolled oats:60g|Milk:200ml|Mixed berries:80g|Maple syrup:1 tsp",
			"Combine oats and milk in a jar|Refrigerate overnight|Top with berries",
			"Beta-glucan for heart health"),
		fallbackRecipe("Quinoa Chicken Bowl", model.Lunch, 550, 38, 55, 16,
			"Chicken breast:150g|Quinoa:1 cup cooked|Cucumber:1/2|Feta:30g",
			"Grill the chicken|Layer quinoa, cucumber and chicken|Crumble feta on top",
			"Complete plant protein|Balanced macros"),
		fallbackRecipe("Mediterranean Wrap", model.Lunch, 520, 25, 55, 20,
			"Whole wheat wrap:1|Hummus:3 tbsp|Falafel:4|Mixed salad:1 cup",
			"Spread hummus on the wrap|Add falafel and salad|Roll tightly",
			"Plant based protein|Fiber"),
		fallbackRecipe("Turkey Meatballs with Pasta", model.Dinner, 580, 40, 60, 18,
			"Ground turkey:150g|Whole wheat spaghetti:80g dry|Tomato sauce:1 cup|Parmesan:15g",
			"Form and bake the meatballs|Cook the spaghetti|Simmer meatballs in sauce and serve",
			"Lean protein|Lycopene from tomatoes"),
		fallbackRecipe("Teriyaki Salmon Rice", model.Dinner, 560, 36, 55, 20,
			"Salmon fillet:150g|Jasmine rice:1 cup cooked|Teriyaki sauce:1 tbsp|Bok choy:1 head",
			"Glaze and bake the salmon|Steam the bok choy|Serve over rice",
			"Omega-3 fatty acids"),
		fallbackRecipe("Hummus and Veggie Sticks", model.Snack, 220, 8, 24, 11,
			"Hummus:4 tbsp|Carrot:1|Celery:2 stalks",
			"Cut vegetables into sticks|Serve with hummus",
			"Fiber and plant protein"),
		fallbackRecipe("Banana Peanut Butter Rice Cakes", model.Snack, 250, 8, 32, 10,
			"Rice cakes:2|Peanut butter:1 tbsp|Banana:1/2",
			"Spread peanut butter on rice cakes|Top with banana slices",
			"Quick energy"),
	},
	"general_health": {
		fallbackRecipe("Spinach Mushroom Frittata", model.Breakfast, 320, 22, 10, 20,
			"Eggs:3|Spinach:1 cup|Mushrooms:4|Feta:20g",
			"Saute mushrooms and spinach|Pour in whisked eggs|Finish under the grill",
			"Folate and iron|Vitamin D from eggs"),
		fallbackRecipe("Chia Seed Pudding", model.Breakfast, 300, 10, 30, 15,
			"Chia seeds:3 tbsp|Almond milk:250ml|Kiwi:1|Vanilla:1/2 tsp",
			"Stir chia into milk with vanilla|Rest overnight|Top with kiwi",
			"Omega-3 ALA|Vitamin C"),
		fallbackRecipe("Lentil Vegetable Soup", model.Lunch, 420, 22, 60, 8,
			"Red lentils:80g dry|Carrot:1|Celery:1 stalk|Vegetable stock:750ml",
			"Dice the vegetables|Simmer everything for 25 minutes|Blend partially",
			"Plant protein and fiber|Supports heart health"),
		fallbackRecipe("Rainbow Buddha Bowl", model.Lunch, 480, 18, 58, 18,
			"Chickpeas:1/2 cup|Brown rice:3/4 cup cooked|Red cabbage:1/2 cup|Tahini:1 tbsp",
			"Roast the chickpeas|Arrange rice and vegetables|Drizzle with tahini",
			"Wide range of phytonutrients"),
		fallbackRecipe("Herb Roasted Chicken with Vegetables", model.Dinner, 480, 40, 30, 20,
			"Chicken breast:150g|Zucchini:1|Red onion:1/2|Rosemary:1 sprig",
			"Toss chicken and vegetables with herbs|Roast at 200C for 25 minutes",
			"Lean protein|Antioxidant rich vegetables"),
		fallbackRecipe("Baked Salmon with Quinoa", model.Dinner, 500, 35, 40, 20,
			"Salmon fillet:140g|Quinoa:3/4 cup cooked|Green beans:1 cup|Lemon:1/2",
			"Bake salmon with lemon for 15 minutes|Steam the beans|Serve with quinoa",
			"Omega-3 for brain health"),
		fallbackRecipe("Mixed Nuts and Berries", model.Snack, 200, 5, 14, 14,
			"Mixed nuts:25g|Blueberries:1/2 cup",
			"Combine in a small bowl",
			"Vitamin E and antioxidants"),
		fallbackRecipe("Kefir Smoothie", model.Snack, 180, 9, 26, 4,
			"Kefir:200ml|Strawberries:6|Spinach:1 handful",
			"Blend everything until smooth",
			"Probiotics for gut health"),
	},
}

// FallbackRecipePool returns a copy of the static pool for goal. Unknown goals get
// the maintenance pool.
func FallbackRecipePool(goal string) []model.CandidateRecipe {
	pool, ok := fallbackCatalog[goal]
	if !ok {
		pool = fallbackCatalog["maintain"]
	}
	out := make([]model.CandidateRecipe, len(pool))
	copy(out, pool)
	return out
}
