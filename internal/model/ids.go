package model

// Typed identifiers, one per entity kind. They are plain strings on the wire
// so persisted snapshots stay readable, but the compiler keeps a ProductID
// from being passed where a TableID is expected.
type (
	UserID       string
	RestaurantID string
	TableID      string
	CategoryID   string
	ProductID    string
	OrderID      string
	ItemID       string
	CommentID    string
)

// Id prefixes used by the store when it generates identifiers.
const (
	PrefixUser       = "u_"
	PrefixRestaurant = "r_"
	PrefixTable      = "t_"
	PrefixProduct    = "p_"
	PrefixOrder      = "o_"
	PrefixItem       = "it_"
	PrefixComment    = "c_"
)
