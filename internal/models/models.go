package models

// Bookmark is a saved link shown on the dashboard.
type Bookmark struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Created     string  `json:"created"`
}

// BookmarkPatch carries the fields of a bookmark edit; nil fields are left unchanged.
type BookmarkPatch struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// Apply merges the patch over b. The id and creation time are never changed.
func (p BookmarkPatch) Apply(b Bookmark) Bookmark {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.URL != nil {
		b.URL = *p.URL
	}
	if p.Description != nil {
		b.Description = p.Description
	}
	if p.Category != nil {
		b.Category = p.Category
	}
	return b
}
