package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func decodeCategory(t *testing.T, value interface{}) StringList {
	t.Helper()
	data, err := bson.Marshal(bson.M{"category": value})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out struct {
		Category StringList `bson:"category"`
	}
	if err := bson.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out.Category
}

func TestStringListDecodesLegacyString(t *testing.T) {
	got := decodeCategory(t, "  abc  ")
	if len(got) != 1 || got[0] != "abc" {
		t.Fatalf("expected [abc], got %v", got)
	}
}

func TestStringListDecodesObjectIDs(t *testing.T) {
	id := primitive.NewObjectID()
	got := decodeCategory(t, bson.A{id, "other"})
	if len(got) != 2 || got[0] != id.Hex() || got[1] != "other" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestStringListRejectsNumbers(t *testing.T) {
	data, _ := bson.Marshal(bson.M{"category": 12})
	var out struct {
		Category StringList `bson:"category"`
	}
	if err := bson.Unmarshal(data, &out); err == nil {
		t.Fatal("expected error decoding number into StringList")
	}
}

func TestProductRoundTripKeepsCategories(t *testing.T) {
	p := Product{Name: "Tea", Category: StringList{"a", "b"}, IsActive: true}
	data, err := bson.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Product
	if err := bson.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.HasCategory("b") || !back.Visible() {
		t.Fatalf("unexpected product %+v", back)
	}
}
