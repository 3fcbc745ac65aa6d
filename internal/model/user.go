package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is the read-only projection of a user document. Accounts are owned by
// the auth service; the chat backend only ever reads these fields.
type User struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UserID     string             `json:"id" bson:"user_id"`
	Name       string             `json:"name" bson:"name"`
	Username   string             `json:"username" bson:"username"`
	Email      string             `json:"email" bson:"email"`
	ProfilePic string             `json:"profilePic" bson:"profile_pic"`
}
