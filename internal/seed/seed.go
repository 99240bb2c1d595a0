// Package seed holds the static reference data every store starts with.
package seed

import (
	_ "embed"
	"fmt"

	"paulinepos/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DemoProduct is a catalog template; it gets a restaurant id when seeded.
type DemoProduct struct {
	ID       model.ProductID  `yaml:"id"`
	Name     string           `yaml:"name"`
	Category model.CategoryID `yaml:"category"`
	Price    int64            `yaml:"price"`
	Unit     string           `yaml:"unit"`
}

type Demo struct {
	Tables   int           `yaml:"tables"`
	Products []DemoProduct `yaml:"products"`
}

type Data struct {
	Categories []model.Category `yaml:"categories"`
	Demo       Demo             `yaml:"demo"`
}

// Parse decodes a seed document.
func Parse(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("seed: %w", err)
	}
	for _, c := range d.Categories {
		if c.ID == "" || c.Code == "" {
			return Data{}, fmt.Errorf("seed: category %q has no id or code", c.Name)
		}
	}
	return d, nil
}

// Defaults returns the embedded seed. The document is compiled in, so a
// parse failure is a build defect and panics.
func Defaults() Data {
	d, err := Parse(defaultsYAML)
	if err != nil {
		panic(err)
	}
	return d
}

// Categories returns a fresh copy of the default categories.
func Categories() []model.Category {
	return append([]model.Category(nil), Defaults().Categories...)
}

// DemoProducts instantiates the demo catalog for a restaurant. Ids are
// suffixed with the restaurant id so several demo restaurants can coexist.
func DemoProducts(rid model.RestaurantID) []model.Product {
	d := Defaults().Demo
	out := make([]model.Product, 0, len(d.Products))
	for _, p := range d.Products {
		out = append(out, model.Product{
			ID:           model.ProductID(fmt.Sprintf("%s-%s", p.ID, rid)),
			Name:         p.Name,
			CategoryID:   p.Category,
			RestaurantID: rid,
			Price:        p.Price,
			IsAvailable:  true,
			Unit:         p.Unit,
		})
	}
	return out
}

// DemoTables returns "Table 1".."Table n" for a restaurant, all free.
func DemoTables(rid model.RestaurantID) []model.Table {
	n := Defaults().Demo.Tables
	out := make([]model.Table, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Table{
			ID:           model.TableID(fmt.Sprintf("T%d-%s", i, rid)),
			Name:         fmt.Sprintf("Table %d", i),
			Status:       model.TableLibre,
			Seats:        4,
			IsUsable:     true,
			RestaurantID: rid,
		})
	}
	return out
}
