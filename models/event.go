package models

// Event is a community event as shown on the front page. Date is kept as
// the free text the admin typed ("2024-05-01 18:00"); the site never
// parses it.
type Event struct {
	ID       int64  `bson:"_id" json:"id"`
	Name     string `bson:"name,omitempty" json:"name,omitempty"`
	Link     string `bson:"link,omitempty" json:"link,omitempty"`
	Date     string `bson:"date,omitempty" json:"date,omitempty"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
	Over     bool   `bson:"over" json:"over"`
}
