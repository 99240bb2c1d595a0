package model

// Restaurant owns tables and products by foreign key only. Deleting a
// restaurant leaves its tables, products and orders in place.
type Restaurant struct {
	ID          RestaurantID `json:"id"`
	Name        string       `json:"name"`
	Specialty   string       `json:"specialty"`
	Address     string       `json:"address"`
	Description string       `json:"description"`
	// OwnerID is the user who created the restaurant; empty for legacy data.
	OwnerID UserID `json:"ownerId,omitempty"`
}

type RestaurantPatch struct {
	Name        *string
	Specialty   *string
	Address     *string
	Description *string
}

func (p RestaurantPatch) Apply(r *Restaurant) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Specialty != nil {
		r.Specialty = *p.Specialty
	}
	if p.Address != nil {
		r.Address = *p.Address
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
}
