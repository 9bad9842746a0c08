package models

// User is a document in the MongoDB users collection.
type User struct {
	Username       string `json:"username"        bson:"username"`
	Password       string `json:"-"               bson:"password"` // bcrypt hash, never serialized
	PreferredStock string `json:"preferred_stock" bson:"preferred_stock"`
}

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	PreferredStock string `json:"preferredStock"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
