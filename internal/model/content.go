package model

import "time"

// SiteContent is an admin managed block keyed by page and section.
type SiteContent struct {
	ID          uint64    `json:"id"`
	PageName    string    `json:"pageName"`
	SectionName string    `json:"sectionName"`
	ContentType string    `json:"contentType"`
	Content     string    `json:"content"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
