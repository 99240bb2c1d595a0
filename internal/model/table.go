package model

import (
	"encoding/json"
	"fmt"
)

// TableStatus: "LIBRE" | "OCCUPEE" | "EN_SERVICE"
type TableStatus string

const (
	TableLibre     TableStatus = "LIBRE"
	TableOccupee   TableStatus = "OCCUPEE"
	TableEnService TableStatus = "EN_SERVICE"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableLibre, TableOccupee, TableEnService:
		return true
	}
	return false
}

// Table is a physical table of a restaurant.
// Status follows the activity of the orders attached to the table; it is
// recomputed by the store after every order mutation.
type Table struct {
	ID           TableID      `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Status       TableStatus  `json:"status"`
	Seats        int          `json:"seats"`
	IsUsable     bool         `json:"isUsable"`
	RestaurantID RestaurantID `json:"restaurantId"`
}

// TablePatch excludes Status on purpose: status only moves through the
// order cascade or the explicit occupy/free helpers.
type TablePatch struct {
	Name        *string
	Description *string
	Seats       *int
	IsUsable    *bool
}

func (p TablePatch) Apply(t *Table) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Seats != nil {
		t.Seats = *p.Seats
	}
	if p.IsUsable != nil {
		t.IsUsable = *p.IsUsable
	}
}

// TakeawaySentinel is how a takeaway order's table reference is persisted.
const TakeawaySentinel = "takeaway"

// TableRef is either a dine-in reference to a table or a takeaway marker.
// The zero value is a takeaway.
type TableRef struct {
	table TableID
}

// Dine references a physical table.
func Dine(id TableID) TableRef { return TableRef{table: id} }

// Takeaway is not bound to any table and never touches table occupancy.
func Takeaway() TableRef { return TableRef{} }

func (r TableRef) IsTakeaway() bool { return r.table == "" }

// TableID returns the table id and true for dine-in references.
func (r TableRef) TableID() (TableID, bool) {
	return r.table, r.table != ""
}

func (r TableRef) String() string {
	if r.IsTakeaway() {
		return TakeawaySentinel
	}
	return string(r.table)
}

func (r TableRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the sentinel, an empty string or null as takeaway.
func (r *TableRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Takeaway()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tableId: %w", err)
	}
	*r = ParseTableRef(s)
	return nil
}

// ParseTableRef maps "" and the sentinel to Takeaway, anything else to Dine.
func ParseTableRef(s string) TableRef {
	if s == "" || s == TakeawaySentinel {
		return Takeaway()
	}
	return Dine(TableID(s))
}
