package posts

import (
	"fmt"
	"strings"

	"kamuisnap/internal/sanitize"
)

// MaxRecipeSteps bounds the number of cooking steps in a submitted recipe.
const MaxRecipeSteps = 5

// Recipe enums
const (
	MealTypeMain = "main"
	MealTypeSide = "side"
	MealTypeBase = "base"

	StorageRefrigerator = "refrigerator"
	StorageFreezer      = "freezer"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var (
	mealTypes    = map[string]bool{MealTypeMain: true, MealTypeSide: true, MealTypeBase: true}
	storageTypes = map[string]bool{StorageRefrigerator: true, StorageFreezer: true}
	difficulties = map[string]bool{DifficultyEasy: true, DifficultyMedium: true, DifficultyHard: true}
)

// cleanText reduces user input to trimmed plain text.
func cleanText(s string) string {
	return sanitize.Text(s)
}

// RecipeInput is the recipe part of a recipe post submission.
type RecipeInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	CookingTime int          `json:"cookingTime"`
	Servings    int          `json:"servings"`
	MealType    string       `json:"mealType"`
	StorageType string       `json:"storageType"`
	StorageDays int          `json:"storageDays"`
	Difficulty  string       `json:"difficulty"`
	Tags        []string     `json:"tags"`
}

// Validate normalizes the input in place and reports the first problem found.
// Empty enum fields fall back to main / refrigerator / easy.
func (in *RecipeInput) Validate() error {
	in.Title = cleanText(in.Title)
	in.Description = cleanText(in.Description)

	if in.Title == "" {
		return fmt.Errorf("%w: recipe title is required", ErrValidation)
	}

	if len(in.Ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", ErrValidation)
	}
	for i := range in.Ingredients {
		ing := &in.Ingredients[i]
		ing.Name = cleanText(ing.Name)
		ing.Amount = cleanText(ing.Amount)
		ing.Unit = cleanText(ing.Unit)
		if ing.Name == "" {
			return fmt.Errorf("%w: ingredient %d has no name", ErrValidation, i+1)
		}
	}

	if len(in.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", ErrValidation)
	}
	if len(in.Steps) > MaxRecipeSteps {
		return ErrTooManySteps
	}
	for i, step := range in.Steps {
		in.Steps[i] = cleanText(step)
		if in.Steps[i] == "" {
			return fmt.Errorf("%w: step %d is empty", ErrValidation, i+1)
		}
	}

	if in.CookingTime < 0 || in.Servings < 0 || in.StorageDays < 0 {
		return fmt.Errorf("%w: cooking time, servings and storage days must not be negative", ErrValidation)
	}

	in.MealType = orDefault(in.MealType, MealTypeMain)
	if !mealTypes[in.MealType] {
		return fmt.Errorf("%w: unknown meal type %q", ErrValidation, in.MealType)
	}
	in.StorageType = orDefault(in.StorageType, StorageRefrigerator)
	if !storageTypes[in.StorageType] {
		return fmt.Errorf("%w: unknown storage type %q", ErrValidation, in.StorageType)
	}
	in.Difficulty = orDefault(in.Difficulty, DifficultyEasy)
	if !difficulties[in.Difficulty] {
		return fmt.Errorf("%w: unknown difficulty %q", ErrValidation, in.Difficulty)
	}

	in.Tags = normalizeTags(in.Tags)
	return nil
}

// ToRecipe converts validated input into the stored record for postID.
func (in *RecipeInput) ToRecipe(postID int64) Recipe {
	return Recipe{
		PostID:      postID,
		Title:       in.Title,
		Description: in.Description,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
		CookingTime: in.CookingTime,
		Servings:    in.Servings,
		MealType:    in.MealType,
		StorageType: in.StorageType,
		StorageDays: in.StorageDays,
		Difficulty:  in.Difficulty,
		Tags:        in.Tags,
	}
}

func orDefault(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = cleanText(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
