package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Favorite is a per-user snapshot of a saved recipe. External recipes are
// keyed by their Edamam URI; local recipes by their decimal document id, so
// the same recipe can't be favorited twice by one user.
type Favorite struct {
	gorm.Model
	UserID    uint   `gorm:"index:idx_user_recipe_uri,unique;not null"`
	RecipeURI string `gorm:"index:idx_user_recipe_uri,unique;not null"`

	Label          string
	Image          string
	Source         string
	URL            string
	Ingredients    pq.StringArray `gorm:"type:text[]"`
	Calories       float64
	TotalNutrients TotalNutrients `gorm:"type:jsonb"`
	DietLabels     pq.StringArray `gorm:"type:text[]"`
	HealthLabels   pq.StringArray `gorm:"type:text[]"`
	IsExternal     bool
}

// Friendship is a directed edge in the friends graph: UserID added FriendID.
type Friendship struct {
	gorm.Model
	UserID   uint  `gorm:"index:idx_user_friend,unique;not null"`
	FriendID uint  `gorm:"index:idx_user_friend,unique;not null"`
	Friend   *User `gorm:"foreignKey:FriendID"`
}
