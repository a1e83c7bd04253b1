// Package devcat serves the static dev-cat content: the cat team, their
// episodes and recipes, the Kamui story and the hungry page.
package devcat

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// HungryMessage is what the hungry page says.
const HungryMessage = "お腹すいた"

var ErrNotFound = errors.New("not found")

//go:embed data/content.json
var content embed.FS

// Catalog holds the content in memory. It is read-only after Load.
type Catalog struct {
	cats     []Cat
	episodes []Episode
	recipes  []Recipe
	story    Story
}

// Load parses the embedded content and checks its cross references.
func Load() (*Catalog, error) {
	raw, err := content.ReadFile("data/content.json")
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	var doc struct {
		Cats     []Cat     `json:"cats"`
		Episodes []Episode `json:"episodes"`
		Recipes  []Recipe  `json:"recipes"`
		Story    Story     `json:"story"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	c := &Catalog{cats: doc.Cats, episodes: doc.Episodes, recipes: doc.Recipes, story: doc.Story}
	sort.Slice(c.story.Episodes, func(i, j int) bool {
		return c.story.Episodes[i].EpisodeNumber < c.story.Episodes[j].EpisodeNumber
	})

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	for _, ep := range c.episodes {
		if ep.HungerLevel < 1 || ep.HungerLevel > 5 {
			return fmt.Errorf("episode %s: hunger level %d out of range", ep.ID, ep.HungerLevel)
		}
		for _, id := range ep.Characters {
			if _, err := c.Cat(id); err != nil {
				return fmt.Errorf("episode %s: unknown cat %q", ep.ID, id)
			}
		}
		for _, id := range ep.RelatedRecipes {
			if _, err := c.Recipe(id); err != nil {
				return fmt.Errorf("episode %s: unknown recipe %q", ep.ID, id)
			}
		}
	}
	return nil
}

func find[T any](items []T, id string, key func(T) string) (*T, error) {
	for i := range items {
		if key(items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (c *Catalog) Cats() []Cat { return c.cats }

func (c *Catalog) Cat(id string) (*Cat, error) {
	return find(c.cats, id, func(v Cat) string { return v.ID })
}

func (c *Catalog) Episodes() []Episode { return c.episodes }

func (c *Catalog) Episode(id string) (*Episode, error) {
	return find(c.episodes, id, func(v Episode) string { return v.ID })
}

func (c *Catalog) Recipes() []Recipe { return c.recipes }

func (c *Catalog) Recipe(id string) (*Recipe, error) {
	return find(c.recipes, id, func(v Recipe) string { return v.ID })
}

func (c *Catalog) Story() Story { return c.story }

func (c *Catalog) StoryEpisode(id string) (*StoryEpisode, error) {
	return find(c.story.Episodes, id, func(v StoryEpisode) string { return v.ID })
}
