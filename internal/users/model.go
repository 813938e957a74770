package users

import "time"

// User is an account that signed in with Google. Guests never get a row.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	GivenName  string    `json:"givenName"`
	FamilyName string    `json:"familyName"`
	PictureURL string    `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Profile is the body of GET /me, shared by signed-in users and guests.
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email,omitempty"`
	FullName   string `json:"fullName,omitempty"`
	PictureURL string `json:"pictureUrl,omitempty"`
	Guest      bool   `json:"guest"`
}

// Profile projects the stored account onto the /me response.
func (u User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		PictureURL: u.PictureURL,
	}
}

// GuestProfile is what /me returns for an X-Guest-Id caller.
func GuestProfile(userID string) Profile {
	return Profile{ID: userID, Guest: true}
}
