package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account in the users collection. Host marks accounts allowed
// to create and manage property listings. The password hash never leaves
// the server.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Host         bool               `bson:"host" json:"host"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RefreshToken is a stored refresh session. Only the SHA-256 hash of the
// raw token is persisted; RevokedAt is nil while the token is active.
type RefreshToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	TokenHash string             `bson:"tokenHash"`
	ExpiresAt time.Time          `bson:"expiresAt"`
	RevokedAt *time.Time         `bson:"revokedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}
