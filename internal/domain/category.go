package domain

// Category classifies a ticket channel by the monitored category it
// belongs to.
type Category string

const (
	CategoryOnline   Category = "Online"
	CategoryInPerson Category = "In-Person"
	CategoryUnknown  Category = "Unknown"
)
