package application

import (
	"time"

	"github.com/platebook/platebook/internal/domain/entity"
)

// PostView is the JSON projection of a post joined with its owner's
// display fields.
type PostView struct {
	ID              string    `json:"id"`
	DishName        string    `json:"dish_name"`
	Ingredients     string    `json:"ingredients"`
	DishImage       string    `json:"dish_image,omitempty"`
	Status          string    `json:"status"`
	DatePosted      time.Time `json:"date_posted"`
	OwnerID         string    `json:"owner_id"`
	OwnerUsername   string    `json:"owner_username"`
	OwnerProfilePic string    `json:"owner_profile_pic,omitempty"`
	HeartCount      int       `json:"heart_count"`
}

// FeedPage is the pagination envelope every feed query returns.
type FeedPage struct {
	Items       []PostView `json:"items"`
	TotalCount  int        `json:"total_count"`
	TotalPages  int        `json:"total_pages"`
	CurrentPage int        `json:"current_page"`
}

func toPostView(p entity.Post) PostView {
	return PostView{
		ID:              p.ID,
		DishName:        p.DishName,
		Ingredients:     p.Ingredients,
		DishImage:       p.DishImage,
		Status:          string(p.Status),
		DatePosted:      p.DatePosted,
		OwnerID:         p.PostOwner,
		OwnerUsername:   p.OwnerUsername,
		OwnerProfilePic: p.OwnerProfilePic,
		HeartCount:      p.HeartCount,
	}
}

func toPostViews(posts []entity.Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostView(p))
	}
	return out
}
