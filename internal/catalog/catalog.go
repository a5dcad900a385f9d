// Package catalog loads the reward catalog that points can be spent on.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gitlab.com/yelinaung/spendwise/internal/models"
)

//go:embed rewards.toml
var defaultCatalog string

var (
	// ErrEmptyCatalog is returned when a catalog file defines no rewards.
	ErrEmptyCatalog = errors.New("reward catalog is empty")
	// ErrInvalidReward is returned when a catalog entry fails validation.
	ErrInvalidReward = errors.New("invalid reward")
)

// Catalog is an ordered, read-only set of rewards.
type Catalog struct {
	rewards []models.Reward
	byID    map[string]int
}

type catalogFile struct {
	Rewards []models.Reward `toml:"rewards"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in reward catalog: %v", err))
	}
	return c
}

// Load reads a catalog from a TOML file. An empty path yields the default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to read reward catalog %s: %w", path, err)
	}

	c, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to load reward catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a TOML catalog document.
func Parse(doc string) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(doc, &f); err != nil {
		return nil, fmt.Errorf("failed to decode reward catalog: %w", err)
	}
	return New(f.Rewards)
}

// New builds a catalog from rewards, rejecting invalid or duplicate entries.
func New(rewards []models.Reward) (*Catalog, error) {
	if len(rewards) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		rewards: make([]models.Reward, 0, len(rewards)),
		byID:    make(map[string]int, len(rewards)),
	}

	var errs []error
	for i, r := range rewards {
		r.ID = strings.TrimSpace(r.ID)
		switch {
		case r.ID == "":
			errs = append(errs, fmt.Errorf("%w: entry %d has no id", ErrInvalidReward, i))
			continue
		case r.Cost < 0:
			errs = append(errs, fmt.Errorf("%w: %s has negative cost %d", ErrInvalidReward, r.ID, r.Cost))
			continue
		case !r.Category.Valid():
			errs = append(errs, fmt.Errorf("%w: %s has unknown category %q", ErrInvalidReward, r.ID, r.Category))
			continue
		}
		if _, dup := c.byID[r.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate id %s", ErrInvalidReward, r.ID))
			continue
		}
		c.byID[r.ID] = len(c.rewards)
		c.rewards = append(c.rewards, r)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// All returns a copy of the rewards in catalog order.
func (c *Catalog) All() []models.Reward {
	out := make([]models.Reward, len(c.rewards))
	copy(out, c.rewards)
	return out
}

// Get looks up a reward by id.
func (c *Catalog) Get(id string) (models.Reward, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return models.Reward{}, false
	}
	return c.rewards[i], true
}

// Len returns the number of rewards.
func (c *Catalog) Len() int { return len(c.rewards) }
