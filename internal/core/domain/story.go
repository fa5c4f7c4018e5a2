package domain

import "time"

const (
	MaxStoryTitleLength = 100
	MaxStoryBodyLength  = 1000
)

// SellerStory is a free-text narrative published by its owning user.
type SellerStory struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Story     string    `json:"story"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoryFields is the validated payload for a seller story.
type StoryFields struct {
	Title string
	Story string
}

// Raw renders the fields back into validator input.
func (f StoryFields) Raw() map[string]string {
	return map[string]string{"title": f.Title, "story": f.Story}
}
