package recipe

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogData []byte

// datasetVersion is the only catalog file version this build understands.
const datasetVersion = 1

// Lookup resolves recipes by id. A missing id is reported through ok, never as an error.
type Lookup interface {
	Get(id string) (Recipe, bool)
}

// Catalog is a read-only, in-memory collection of recipes.
type Catalog struct {
	recipes []Recipe
	byID    map[string]int
}

type dataset struct {
	Version int      `yaml:"version"`
	Recipes []Recipe `yaml:"recipes"`
}

// NewCatalog validates the recipes and builds a catalog from them.
func NewCatalog(recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes: make([]Recipe, 0, len(recipes)),
		byID:    make(map[string]int, len(recipes)),
	}
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, &ValidationError{RecipeID: r.ID, Reason: "duplicate id"}
		}
		c.byID[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, r.clone())
	}
	return c, nil
}

// LoadCatalog parses a YAML recipe dataset.
func LoadCatalog(data []byte) (*Catalog, error) {
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse recipe dataset: %w", err)
	}
	if ds.Version != datasetVersion {
		return nil, fmt.Errorf("unsupported recipe dataset version %d (want %d)", ds.Version, datasetVersion)
	}
	return NewCatalog(ds.Recipes)
}

// DefaultCatalog returns the catalog seeded from the dataset bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultCatalogData)
}

// Get returns the recipe with the given id.
func (c *Catalog) Get(id string) (Recipe, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return c.recipes[i].clone(), true
}

// List returns every recipe in dataset order.
func (c *Catalog) List() []Recipe {
	out := make([]Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of recipes.
func (c *Catalog) Len() int {
	return len(c.recipes)
}
