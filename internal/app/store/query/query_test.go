package query

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		field string
		op    string
		value interface{}
		want  bson.M
	}{
		{"equality", "chapter_id", OpEq, "gdg-providence", bson.M{"chapter_id": "gdg-providence"}},
		{"not equal", "status", OpNe, "draft", bson.M{"status": bson.M{"$ne": "draft"}}},
		{"less than", "member_count", OpLt, 10, bson.M{"member_count": bson.M{"$lt": 10}}},
		{"lte", "date", OpLte, "2025-06-15", bson.M{"date": bson.M{"$lte": "2025-06-15"}}},
		{"greater than", "member_count", OpGt, 10, bson.M{"member_count": bson.M{"$gt": 10}}},
		{"gte", "date", OpGte, "2025-06-15", bson.M{"date": bson.M{"$gte": "2025-06-15"}}},
		{"array contains", "platforms", OpArrayContains, "twitter", bson.M{"platforms": "twitter"}},
		{"in", "status", OpIn, []string{"draft", "scheduled"}, bson.M{"status": bson.M{"$in": []string{"draft", "scheduled"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(tt.field, tt.op, tt.value)
			if err != nil {
				t.Fatalf("Filter failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_UnknownOperator(t *testing.T) {
	if _, err := Filter("field", "~=", "x"); err == nil {
		t.Error("expected error for unknown operator")
	}
}
