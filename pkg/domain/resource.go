package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ResourceType names a resource kind for error messages and generic
// resource addressing.
type ResourceType string

const (
	ResourceTypePlayer       ResourceType = "Players"
	ResourceTypePlayerRating ResourceType = "PlayerRatings"
	ResourceTypeMatch        ResourceType = "Matches"
	ResourceTypeGame         ResourceType = "Games"
	ResourceTypeRun          ResourceType = "RatingRuns"
)

// ResourceKeyMap maps each ResourceType to the path/query parameter name
// that identifies it, used when resolving a resource ID from a request.
var ResourceKeyMap = map[ResourceType]string{
	ResourceTypePlayer:       "player_id",
	ResourceTypePlayerRating: "player_id",
	ResourceTypeMatch:        "match_id",
	ResourceTypeGame:         "game_id",
	ResourceTypeRun:          "run_id",
}

// GetResourceFieldID resolves the path/query parameter name for a resource
// type given as a string (e.g. from a route segment).
func GetResourceFieldID(resourcePart string) (string, error) {
	for k, v := range ResourceKeyMap {
		if strings.EqualFold(fmt.Sprint(k), resourcePart) {
			return v, nil
		}
	}

	return "", fmt.Errorf("failed to parse ResourceIDField: unknown resource %s", resourcePart)
}

// Resource is a generic (ID, Type) pointer to any addressable resource.
type Resource struct {
	ID   uuid.UUID    `json:"id" bson:"_id"`
	Type ResourceType `json:"type" bson:"type"`
}
