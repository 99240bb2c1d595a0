package model

// CategoryCode: "ENTREE" | "PLAT" | "DESSERT" | "ACCOMP" | "SUPPL" | "BOISS"
type CategoryCode string

const (
	CodeEntree  CategoryCode = "ENTREE"
	CodePlat    CategoryCode = "PLAT"
	CodeDessert CategoryCode = "DESSERT"
	CodeAccomp  CategoryCode = "ACCOMP"
	CodeSuppl   CategoryCode = "SUPPL"
	CodeBoiss   CategoryCode = "BOISS"
)

// Category is static reference data seeded with the store.
type Category struct {
	ID   CategoryID   `json:"id"`
	Code CategoryCode `json:"code"`
	Name string       `json:"name"`
}

// Product is a catalog entry of one restaurant.
// Price is in the smallest currency unit (FCFA has no minor unit).
// Deleting a product does not touch orders: their items carry their own
// name/price copy.
type Product struct {
	ID           ProductID    `json:"id"`
	Name         string       `json:"name"`
	CategoryID   CategoryID   `json:"categoryId"`
	RestaurantID RestaurantID `json:"restaurantId"`
	Price        int64        `json:"price"`
	Description  string       `json:"description"`
	// IsAvailable hides the product from order builders when false
	IsAvailable bool   `json:"isAvailable"`
	Unit        string `json:"unit"`
}

type ProductPatch struct {
	Name        *string
	CategoryID  *CategoryID
	Price       *int64
	Description *string
	IsAvailable *bool
	Unit        *string
}

func (p ProductPatch) Apply(pr *Product) {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.CategoryID != nil {
		pr.CategoryID = *p.CategoryID
	}
	if p.Price != nil {
		pr.Price = *p.Price
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.IsAvailable != nil {
		pr.IsAvailable = *p.IsAvailable
	}
	if p.Unit != nil {
		pr.Unit = *p.Unit
	}
}
