package models

import "time"

// Content is an entry of the secondary contents feed.
type Content struct {
	ID            uint      `json:"contentId" gorm:"primaryKey;column:content_id"`
	Title         string    `json:"title" gorm:"type:varchar(255);index"`
	Author        string    `json:"author" gorm:"type:varchar(100)"`
	URL           string    `json:"url" gorm:"type:varchar(255)"`
	ImageURL      string    `json:"image_url" gorm:"type:varchar(255)"`
	PublishedDate time.Time `json:"publishedDate" gorm:"column:published_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// ContentQuery carries the feed browse parameters.
type ContentQuery struct {
	SearchTerm string
	SortField  string // title | publishedDate | contentId
	SortOrder  string // ASC | DESC
	Page       int
}
