package posts

import (
	"errors"
	"reflect"
	"testing"
)

func validRecipe() RecipeInput {
	return RecipeInput{
		Title:       "  Oyakodon ",
		Description: "Chicken and egg over rice",
		Ingredients: []Ingredient{{Name: "chicken thigh", Amount: "200", Unit: "g"}, {Name: "egg", Amount: "2"}},
		Steps:       []string{"Slice the onion", "Simmer chicken in dashi", "Pour beaten eggs"},
		CookingTime: 20,
		Servings:    2,
		StorageDays: 2,
		Tags:        []string{"donburi", " donburi", "", "quick"},
	}
}

func TestRecipeValidateDefaults(t *testing.T) {
	in := validRecipe()
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if in.Title != "Oyakodon" {
		t.Errorf("title should be trimmed, got %q", in.Title)
	}
	if in.MealType != MealTypeMain || in.StorageType != StorageRefrigerator || in.Difficulty != DifficultyEasy {
		t.Errorf("unexpected defaults: %s %s %s", in.MealType, in.StorageType, in.Difficulty)
	}
	if want := []string{"donburi", "quick"}; !reflect.DeepEqual(in.Tags, want) {
		t.Errorf("tags = %v, want %v", in.Tags, want)
	}
}

func TestRecipeValidateStripsMarkup(t *testing.T) {
	in := validRecipe()
	in.Title = `<script>alert(1)</script>Curry & Rice`
	in.Steps[0] = `<b>Chop</b> onions`

	if err := in.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if in.Title != "Curry & Rice" {
		t.Errorf("unexpected title %q", in.Title)
	}
	if in.Steps[0] != "Chop onions" {
		t.Errorf("unexpected step %q", in.Steps[0])
	}
}

func TestRecipeValidateStripsEncodedMarkup(t *testing.T) {
	in := validRecipe()
	in.Title = `&lt;img src=x onerror=alert(1)&gt;Curry`
	in.Steps[0] = `&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;Chop onions`

	if err := in.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if in.Title != "Curry" {
		t.Errorf("unexpected title %q", in.Title)
	}
	if in.Steps[0] != "Chop onions" {
		t.Errorf("unexpected step %q", in.Steps[0])
	}
}

func TestValidateCaptionStripsEncodedMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "&lt;img src=x onerror=alert(1)&gt;", want: ""},
		{in: "&lt;b&gt;nap&lt;/b&gt; time", want: "nap time"},
		{in: "Tom & Jerry", want: "Tom & Jerry"},
	}
	for _, tt := range tests {
		got, err := validateCaption(tt.in)
		if err != nil {
			t.Fatalf("validateCaption(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("validateCaption(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecipeValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RecipeInput)
		wantErr error
	}{
		{"missing title", func(in *RecipeInput) { in.Title = "   " }, ErrValidation},
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = nil }, ErrValidation},
		{"blank ingredient name", func(in *RecipeInput) { in.Ingredients[1].Name = " " }, ErrValidation},
		{"no steps", func(in *RecipeInput) { in.Steps = nil }, ErrValidation},
		{"blank step", func(in *RecipeInput) { in.Steps[2] = "\t" }, ErrValidation},
		{"six steps", func(in *RecipeInput) { in.Steps = []string{"1", "2", "3", "4", "5", "6"} }, ErrTooManySteps},
		{"negative servings", func(in *RecipeInput) { in.Servings = -1 }, ErrValidation},
		{"bad meal type", func(in *RecipeInput) { in.MealType = "dessert" }, ErrValidation},
		{"bad storage", func(in *RecipeInput) { in.StorageType = "pantry" }, ErrValidation},
		{"bad difficulty", func(in *RecipeInput) { in.Difficulty = "extreme" }, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRecipe()
			tt.mutate(&in)
			err := in.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRecipeFiveStepsAllowed(t *testing.T) {
	in := validRecipe()
	in.Steps = []string{"1", "2", "3", "4", "5"}
	if err := in.Validate(); err != nil {
		t.Errorf("five steps should be accepted: %v", err)
	}
}

func TestTooManyStepsIsValidationError(t *testing.T) {
	if !errors.Is(ErrTooManySteps, ErrValidation) {
		t.Error("ErrTooManySteps should match ErrValidation")
	}
}
