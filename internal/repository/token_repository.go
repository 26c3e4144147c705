package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roamstay/property-rental/internal/model"
)

// ErrInvalidRefresh is returned for unknown, expired or revoked refresh tokens.
var ErrInvalidRefresh = errors.New("invalid refresh token")

// TokenRepo persists refresh token hashes.
type TokenRepo struct {
	col *mongo.Collection
}

func NewTokenRepo(db *mongo.Database) *TokenRepo {
	return &TokenRepo{col: db.Collection("refresh_tokens")}
}

// StoreRefresh inserts a refresh token hash document.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID primitive.ObjectID, tokenHash string, exp time.Time) error {
	_, err := r.col.InsertOne(ctx, model.RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: exp,
		CreatedAt: time.Now().UTC(),
	})
	return err
}

// ValidateRefresh returns the owning user id when a non-revoked,
// non-expired token with the given hash exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (primitive.ObjectID, error) {
	var tok model.RefreshToken
	err := r.col.FindOne(ctx, bson.M{"tokenHash": tokenHash}).Decode(&tok)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, ErrInvalidRefresh
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	if tok.RevokedAt != nil || time.Now().UTC().After(tok.ExpiresAt) {
		return primitive.NilObjectID, ErrInvalidRefresh
	}
	return tok.UserID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"tokenHash": tokenHash, "revokedAt": nil},
		bson.M{"$set": bson.M{"revokedAt": time.Now().UTC()}})
	return err
}

// RevokeAllForUser revokes all of a user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"userId": userID, "revokedAt": nil},
		bson.M{"$set": bson.M{"revokedAt": time.Now().UTC()}})
	return err
}
