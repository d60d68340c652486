package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/batagalla/mushmind-detector/internal/core/domain"
)

func TestObjectID_InvalidHexIsNotFound(t *testing.T) {
	if _, err := objectID("not-hex", domain.ErrImageNotFound); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex(), domain.ErrImageNotFound)
	if err != nil || got != oid {
		t.Fatalf("round trip failed: %v %v", got, err)
	}
}

func TestHexOrEmpty(t *testing.T) {
	if hexOrEmpty(primitive.NilObjectID) != "" {
		t.Fatal("nil object id must render empty")
	}
}

func TestLookupOneStages(t *testing.T) {
	stages := lookupOne(collectionImages, "image_id", "image")
	if len(stages) != 2 || stages[0][0].Key != "$lookup" || stages[1][0].Key != "$unwind" {
		t.Fatalf("unexpected stages: %v", stages)
	}
}
