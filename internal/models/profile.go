package models

// UserProfile is the acting user. The simulator only reads Handle and Followers.
type UserProfile struct {
	Name      string  `json:"name"`
	Handle    string  `json:"handle"`
	Avatar    string  `json:"avatar"`
	Banner    *string `json:"banner,omitempty"`
	Bio       string  `json:"bio"`
	Followers int     `json:"followers"`
	Following int     `json:"following"`
	Joined    string  `json:"joined"`
	Verified  bool    `json:"verified"`
	Location  string  `json:"location"`
}

// DefaultProfile returns the creator account a fresh feed starts with
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:      "New Creator",
		Handle:    "@creator",
		Avatar:    "https://api.dicebear.com/7.x/avataaars/svg?seed=Felix",
		Bio:       "Simulating success since 2025.",
		Followers: 1200,
		Following: 42,
		Joined:    "December 2023",
		Location:  "New York, NY",
	}
}

// AsAuthor builds the author descriptor used on posts the user writes
func (u UserProfile) AsAuthor() Author {
	return Author{
		Name:     u.Name,
		Handle:   u.Handle,
		Avatar:   u.Avatar,
		Verified: u.Verified,
	}
}
