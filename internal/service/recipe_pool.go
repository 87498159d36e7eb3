package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chefbotpro/backend/internal/model"
)

// MinRecipePoolSize is the smallest AI pool accepted for plan assembly
const MinRecipePoolSize = 4

var (
	// ErrRecipePoolExtraction is the root of every extraction failure
	ErrRecipePoolExtraction = errors.New("failed to extract recipe pool")
	// ErrTruncatedRecipePool means the bracketed array is unbalanced
	ErrTruncatedRecipePool = fmt.Errorf("%w: unbalanced brackets, response looks truncated", ErrRecipePoolExtraction)
	// ErrInsufficientRecipePool means fewer than MinRecipePoolSize recipes were returned
	ErrInsufficientRecipePool = fmt.Errorf("%w: insufficient recipes", ErrRecipePoolExtraction)
)

// ExtractRecipePool pulls a JSON array of recipes out of free-form model text.
//
// The candidate is the text between the first '[' and the last ']'. It must have
// as many '[' as ']' before it is parsed. When no such span exists the whole text
// is parsed as JSON. The result must be an array of at least MinRecipePoolSize
// entries. Entries that are not objects are skipped and the size is checked again;
// unreadable fields inside an entry take their defaults. Every failure wraps ErrRecipePoolExtraction; the function never panics.
func ExtractRecipePool(raw string) ([]model.CandidateRecipe, error) {
	candidate := raw
	if span, ok := bracketSpan(raw); ok {
		if strings.Count(span, "[") != strings.Count(span, "]") {
			return nil, ErrTruncatedRecipePool
		}
		candidate = span
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecipePoolExtraction, err)
	}
	if len(items) < MinRecipePoolSize {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrInsufficientRecipePool, len(items), MinRecipePoolSize)
	}

	pool := make([]model.CandidateRecipe, 0, len(items))
	for _, item := range items {
		var r model.CandidateRecipe
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		pool = append(pool, r)
	}
	if len(pool) < MinRecipePoolSize {
		return nil, fmt.Errorf("%w: %d of %d entries are recipes, need %d", ErrInsufficientRecipePool, len(pool), len(items), MinRecipePoolSize)
	}

	return pool, nil
}

// bracketSpan returns raw[first '[' : last ']'] inclusive
func bracketSpan(raw string) (string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// CountUnbucketed reports how many pool entries have a type outside the four meal slots
func CountUnbucketed(pool []model.CandidateRecipe) int {
	n := 0
	for _, r := range pool {
		if !r.Type.Valid() {
			n++
		}
	}
	return n
}
