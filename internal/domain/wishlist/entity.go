package wishlist

import "strings"

// Status is the reservation state of a wishlist item. It is a closed set;
// an absent status on a raw record means StatusOpen.
type Status string

const (
	StatusOpen      Status = "Open"
	StatusReserved  Status = "Reserved"
	StatusPurchased Status = "Purchased"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusReserved, StatusPurchased:
		return true
	}
	return false
}

// Priority is how badly an item is wanted.
type Priority string

const (
	PriorityMustHave   Priority = "Must-have"
	PriorityNiceToHave Priority = "Nice-to-have"
	PrioritySomeday    Priority = "Someday"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityMustHave, PriorityNiceToHave, PrioritySomeday:
		return true
	}
	return false
}

// Item represents a single wishlist entry.
//
// CreatedAt and UpdatedAt are kept as RFC3339 strings rather than time.Time:
// that is the wire format clients see, and lexicographic order on them equals
// chronological order, which the sorted views rely on.
type Item struct {
	ID         string   `gorm:"primaryKey;size:26" json:"id"`
	ListCode   string   `gorm:"size:40;not null;index" json:"-"`
	Title      string   `gorm:"not null" json:"title"`
	Notes      string   `json:"notes"`
	Link       string   `json:"link"`
	Price      string   `json:"price"`
	Priority   Priority `gorm:"size:16" json:"priority"`
	Status     Status   `gorm:"size:16" json:"status"`
	ReservedBy string   `json:"reservedBy"`
	CreatedAt  string   `gorm:"<-:create;size:40" json:"createdAt"`
	UpdatedAt  string   `gorm:"size:40" json:"updatedAt"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "wishlist_items"
}

// Normalized returns a copy of the item with the implicit field defaults made
// explicit: absent status becomes Open, absent priority becomes Nice-to-have.
// Applied once after reading a raw record so downstream code never re-derives
// the defaults.
func (i Item) Normalized() Item {
	if !i.Status.Valid() {
		i.Status = StatusOpen
	}
	if !i.Priority.Valid() {
		i.Priority = PriorityNiceToHave
	}
	return i
}

// searchText is the haystack the text filter matches against.
func (i Item) searchText() string {
	return strings.ToLower(i.Title + " " + i.Notes + " " + i.Link)
}

// Draft carries the user-entered fields for a new item. Title is required;
// everything else is optional.
type Draft struct {
	Title    string   `json:"title"`
	Notes    string   `json:"notes"`
	Link     string   `json:"link"`
	Price    string   `json:"price"`
	Priority Priority `json:"priority"`
}

// Snapshot is the full id→item mapping of one list as delivered by the store.
type Snapshot map[string]Item
