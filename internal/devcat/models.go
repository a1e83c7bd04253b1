package devcat

import "time"

// Cat is a member of the dev-cat team.
type Cat struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Skills         []string `json:"skills"`
	FavoriteFood   []string `json:"favoriteFood"`
	Personality    string   `json:"personality"`
	SpecialAbility string   `json:"specialAbility"`
	AvatarURL      string   `json:"avatarUrl,omitempty"`
	Experience     string   `json:"experience"`
}

type Scenario struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Situation   string `json:"situation"`
	Challenge   string `json:"challenge"`
	Solution    string `json:"solution"`
	CodeExample string `json:"codeExample,omitempty"`
	Lesson      string `json:"lesson"`
	FunnyMoment string `json:"funnyMoment"`
}

// Episode is one dev-cat adventure. HungerLevel runs from 1 (fed) to 5 (starving).
type Episode struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Characters     []string   `json:"characters"`
	Scenarios      []Scenario `json:"scenarios"`
	HungerLevel    int        `json:"hungerLevel"`
	TechStack      []string   `json:"techStack"`
	RelatedRecipes []string   `json:"relatedRecipes"`
	EpisodeType    string     `json:"episodeType"`
	CreatedAt      time.Time  `json:"createdAt"`
	Illustration   string     `json:"illustration,omitempty"`
}

type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Recipe is showcase content, not a user submission.
type Recipe struct {
	ID          string       `json:"id"`
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
	CreatedAt   time.Time    `json:"createdAt"`
}

type Character struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	NameJa      string   `json:"nameJa"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Personality []string `json:"personality"`
	SpecialMove string   `json:"specialMove"`
}

type StoryEpisode struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	TitleJa           string    `json:"titleJa"`
	Content           string    `json:"content"`
	ContentJa         string    `json:"contentJa"`
	CharacterID       string    `json:"characterId"`
	Tags              []string  `json:"tags"`
	TechnicalElements []string  `json:"technicalElements"`
	PublishedAt       time.Time `json:"publishedAt"`
	EpisodeNumber     int       `json:"episodeNumber"`
}

// Story is the Kamui serial: metadata, its main character and the episodes.
type Story struct {
	Title          string         `json:"title"`
	TitleJa        string         `json:"titleJa"`
	Description    string         `json:"description"`
	DescriptionJa  string         `json:"descriptionJa"`
	Genre          []string       `json:"genre"`
	TargetAudience []string       `json:"targetAudience"`
	MainCharacter  Character      `json:"mainCharacter"`
	Episodes       []StoryEpisode `json:"episodes"`
}
