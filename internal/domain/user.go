package domain

import (
	"encoding/json/jsontext"
	"slices"
)

// User is a registered reader.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	// PasswordHash is an argon2id encoded hash.
	PasswordHash string `json:"password_hash,omitempty"`
	// LegacyPassword is the plaintext password found in old user files. It is
	// replaced by PasswordHash on the next successful login.
	LegacyPassword string `json:"password,omitempty"`
	// Favorites holds novel ids in the order they were favorited.
	Favorites []int `json:"favorites"`
	// RecentRead holds novel ids, first-read most recent first.
	RecentRead []int `json:"recent_read"`

	Unknown jsontext.Value `json:",unknown"`
}

// HasFavorite reports whether novelID is in the user's favorites.
func (u *User) HasFavorite(novelID int) bool {
	return slices.Contains(u.Favorites, novelID)
}

// ToggleFavorite removes novelID from favorites if present, otherwise appends
// it. It returns true when the novel is now a favorite.
func (u *User) ToggleFavorite(novelID int) bool {
	if i := slices.Index(u.Favorites, novelID); i >= 0 {
		u.Favorites = slices.Delete(u.Favorites, i, i+1)
		return false
	}
	u.Favorites = append(u.Favorites, novelID)
	return true
}

// MarkRead puts novelID at the front of the recently read list. A novel that
// is already listed keeps its position. It returns true if the list changed.
func (u *User) MarkRead(novelID int) bool {
	if slices.Contains(u.RecentRead, novelID) {
		return false
	}
	u.RecentRead = slices.Insert(u.RecentRead, 0, novelID)
	return true
}
