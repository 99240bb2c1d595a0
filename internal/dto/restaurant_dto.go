package dto

// ─── Restaurants ─────────────────────────────────────────────────────────────

type CreateRestaurantRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=120"`
	Specialty   string `json:"specialty"   validate:"required,max=120"`
	Address     string `json:"address"     validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,min=10,max=1000"`
	// Demo seeds the restaurant with demo tables and the demo catalog.
	Demo bool `json:"demo"`
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=120"`
	Specialty   *string `json:"specialty"   validate:"omitempty,min=1,max=120"`
	Address     *string `json:"address"     validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,min=10,max=1000"`
}

// ─── Tables ──────────────────────────────────────────────────────────────────

type CreateTableRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=60"`
	Description string `json:"description" validate:"max=255"`
	Seats       int    `json:"seats"       validate:"min=0,max=50"`
	IsUsable    *bool  `json:"isUsable"`
}

type UpdateTableRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=60"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Seats       *int    `json:"seats"       validate:"omitempty,min=0,max=50"`
	IsUsable    *bool   `json:"isUsable"`
}

type RenameTableRequest struct {
	Name string `json:"name" validate:"required,min=1,max=60"`
}

// ─── Products ────────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=120"`
	CategoryID  string `json:"categoryId"  validate:"required"`
	Price       int64  `json:"price"       validate:"min=0"`
	Description string `json:"description" validate:"max=1000"`
	IsAvailable bool   `json:"isAvailable"`
	Unit        string `json:"unit"        validate:"max=30"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=120"`
	CategoryID  *string `json:"categoryId"  validate:"omitempty,min=1"`
	Price       *int64  `json:"price"       validate:"omitempty,min=0"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsAvailable *bool   `json:"isAvailable"`
	Unit        *string `json:"unit"        validate:"omitempty,max=30"`
}
