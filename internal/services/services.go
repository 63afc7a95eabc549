// Package services holds the business rules between handlers and
// repositories. Services return taxonomy errors from the apperrors package;
// anything else bubbling up is treated as internal by the handlers.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unihub/internal/apperrors"
	"unihub/internal/models"
	"unihub/internal/repositories"
)

// requireCompletedProfile loads the caller and enforces the profile gate:
// campus-scoped writes need name, university, skills and about filled in.
func requireCompletedProfile(ctx context.Context, users repositories.UserRepository, userID primitive.ObjectID) (*models.User, error) {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	if !user.ProfileComplete() {
		return nil, apperrors.Forbidden("Complete your profile before using this feature")
	}
	return user, nil
}

// summariesByID resolves a set of user IDs into summaries for populating
// references.
func summariesByID(ctx context.Context, users repositories.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	unique := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := users.FindManyByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	result := make(map[primitive.ObjectID]*models.UserSummary, len(found))
	for i := range found {
		result[found[i].ID] = found[i].Summary()
	}
	return result, nil
}
