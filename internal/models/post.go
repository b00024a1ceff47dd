package models

import (
	"gorm.io/datatypes"
)

// Post mirrors a story from the upstream news API. The primary key is the
// upstream story id and is assigned explicitly on insert, never generated.
// Apart from admin deletion, only Popularity ever changes after insert.
type Post struct {
	ID          int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Author      string         `gorm:"size:100;not null" json:"by"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	URL         string         `gorm:"not null" json:"url"`
	PostType    string         `gorm:"size:20" json:"type"`
	Time        int64          `gorm:"index" json:"time"` // submission time, epoch seconds
	Score       int            `json:"score"`
	Descendants int            `json:"descendants"`
	Kids        datatypes.JSON `json:"kids"` // child comment ids
	Popularity  int            `gorm:"not null;default:0;index" json:"popularity"`
}
