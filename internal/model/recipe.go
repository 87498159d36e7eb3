package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MealType is one of the four slots of a plan day
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealOrder is the fixed order in which meals appear in a day
var MealOrder = []MealType{Breakfast, Lunch, Dinner, Snack}

// Valid reports whether t is one of the four meal slots
func (t MealType) Valid() bool {
	switch t {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// Ingredient is a single ingredient line of a recipe
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// UnmarshalJSON accepts {name, amount}, {name, measure}, {name, quantity} or a bare string
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		i.Name = strings.TrimSpace(str)
		return nil
	}

	var obj struct {
		Name     json.RawMessage `json:"name"`
		Amount   json.RawMessage `json:"amount"`
		Measure  json.RawMessage `json:"measure"`
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid ingredient format: %w", err)
	}
	i.Name = scalarString(obj.Name)
	for _, raw := range []json.RawMessage{obj.Amount, obj.Measure, obj.Quantity} {
		if amount := scalarString(raw); amount != "" {
			i.Amount = amount
			break
		}
	}
	return nil
}

// numberUnits are the unit suffixes stripped from numeric strings, longest first
var numberUnits = []string{"kcal", "cal", "grams", "gram", "g"}

// parseNumber reads a JSON number or a numeric string such as "350", "25g" or
// "350 kcal". ok is false for anything else, so the caller's default applies.
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, true
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, false
	}
	str = strings.ToLower(strings.TrimSpace(str))
	for _, unit := range numberUnits {
		if strings.HasSuffix(str, unit) {
			str = strings.TrimSpace(strings.TrimSuffix(str, unit))
			break
		}
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseSteps reads an ordered list of instructions from either a list or a single
// newline separated string. List entries may be objects carrying the text under a
// common key; entries with no usable text are dropped.
func parseSteps(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return splitLines(str)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		if text := stepText(item); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func stepText(item json.RawMessage) string {
	var str string
	if err := json.Unmarshal(item, &str); err == nil {
		return strings.TrimSpace(str)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"text", "step", "instruction", "description"} {
		if text := scalarString(obj[key]); text != "" {
			return text
		}
	}
	return ""
}

// parseIngredients reads a list of ingredients, dropping entries that are neither
// strings nor objects. A single string is split into one ingredient per line.
func parseIngredients(raw json.RawMessage) []Ingredient {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		var out []Ingredient
		for _, line := range splitLines(str) {
			out = append(out, Ingredient{Name: line})
		}
		return out
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]Ingredient, 0, len(items))
	for _, item := range items {
		var ing Ingredient
		if err := json.Unmarshal(item, &ing); err != nil || ing.Name == "" {
			continue
		}
		out = append(out, ing)
	}
	return out
}

func splitLines(str string) []string {
	var out []string
	for _, line := range strings.Split(str, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// CandidateRecipe is one entry of a recipe pool, sourced from the AI reply or the
// fallback catalog. Macro fields are grams.
type CandidateRecipe struct {
	Name           string       `json:"name"`
	Type           MealType     `json:"type"`
	Calories       float64      `json:"calories"`
	Protein        float64      `json:"protein"`
	Carbs          float64      `json:"carbs"`
	Fat            float64      `json:"fat"`
	Ingredients    []Ingredient `json:"ingredients"`
	Instructions   []string     `json:"instructions"`
	HealthBenefits []string     `json:"healthBenefits,omitempty"`
}

// Defaults applied when the upstream omits a numeric field
const (
	DefaultRecipeCalories = 400
	DefaultRecipeProtein  = 25
	DefaultRecipeCarbs    = 45
	DefaultRecipeFat      = 15
)

// UnmarshalJSON normalizes the loosely shaped recipes produced by language models
// into one canonical shape: numeric strings become numbers, missing or unreadable
// macros take the documented defaults and "steps" is accepted in place of
// "instructions". It only fails when the entry is not a JSON object.
func (r *CandidateRecipe) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name           json.RawMessage `json:"name"`
		Type           json.RawMessage `json:"type"`
		Calories       json.RawMessage `json:"calories"`
		Protein        json.RawMessage `json:"protein"`
		Carbs          json.RawMessage `json:"carbs"`
		Fat            json.RawMessage `json:"fat"`
		Ingredients    json.RawMessage `json:"ingredients"`
		Instructions   json.RawMessage `json:"instructions"`
		Steps          json.RawMessage `json:"steps"`
		HealthBenefits json.RawMessage `json:"healthBenefits"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Name = scalarString(raw.Name)
	r.Type = MealType(strings.ToLower(scalarString(raw.Type)))
	r.Calories = numberOr(raw.Calories, DefaultRecipeCalories, true)
	r.Protein = numberOr(raw.Protein, DefaultRecipeProtein, false)
	r.Carbs = numberOr(raw.Carbs, DefaultRecipeCarbs, false)
	r.Fat = numberOr(raw.Fat, DefaultRecipeFat, false)
	r.Ingredients = parseIngredients(raw.Ingredients)
	r.Instructions = parseSteps(raw.Instructions)
	if len(r.Instructions) == 0 {
		r.Instructions = parseSteps(raw.Steps)
	}
	r.HealthBenefits = parseSteps(raw.HealthBenefits)
	return nil
}

// numberOr returns def when raw is absent or unreadable. Calories also fall back
// when zero or negative.
func numberOr(raw json.RawMessage, def float64, positiveOnly bool) float64 {
	n, ok := parseNumber(raw)
	if !ok {
		return def
	}
	if positiveOnly && n <= 0 {
		return def
	}
	return n
}

func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return strings.TrimSpace(str)
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return strconv.FormatFloat(num, 'f', -1, 64)
	}
	return ""
}
