package model

// AccessToken is the object carried by the JWT access token.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
