package models

import "time"

// User represents a platform account (patient by default; provider and admin
// roles are granted through role assignments, not stored on the record).
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	PhoneNumber  string    `bson:"phone_number" json:"phoneNumber,omitempty"`
	Country      string    `bson:"country" json:"country,omitempty"`
	ProfileImage string    `bson:"profile_image" json:"profileImage,omitempty"`
	FCMToken     string    `bson:"fcm_token" json:"-"`
	TokenHash    string    `bson:"token_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// UserRegistrationData carries the profile fields accepted at sign-up.
type UserRegistrationData struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Username    string `json:"username" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country"`
}
