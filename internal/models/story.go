package models

import "time"

// Story is a generated narrative over an inclusive date range.
type Story struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	From      string    `bson:"from" json:"from"`
	To        string    `bson:"to" json:"to"`
	Narrative string    `bson:"story" json:"story"`
	ImageURLs []string  `bson:"image_urls" json:"image_urls"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
