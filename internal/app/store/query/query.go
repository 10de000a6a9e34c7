// Package query translates the single-field predicates exposed by the
// collection stores into MongoDB filters. Operators mirror the comparison
// set the stores support; multi-field composite queries are deliberately
// not modeled.
package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Supported comparison operators.
const (
	OpEq            = "=="
	OpNe            = "!="
	OpLt            = "<"
	OpLte           = "<="
	OpGt            = ">"
	OpGte           = ">="
	OpArrayContains = "array-contains"
	OpIn            = "in"
)

// Filter builds a bson filter for a single-field predicate.
// Returns an error for an unknown operator; an unknown FIELD is not an
// error; it simply matches nothing, same as the backend would.
func Filter(field, op string, value interface{}) (bson.M, error) {
	switch op {
	case OpEq:
		return bson.M{field: value}, nil
	case OpNe:
		return bson.M{field: bson.M{"$ne": value}}, nil
	case OpLt:
		return bson.M{field: bson.M{"$lt": value}}, nil
	case OpLte:
		return bson.M{field: bson.M{"$lte": value}}, nil
	case OpGt:
		return bson.M{field: bson.M{"$gt": value}}, nil
	case OpGte:
		return bson.M{field: bson.M{"$gte": value}}, nil
	case OpArrayContains:
		// Mongo matches array fields element-wise on plain equality.
		return bson.M{field: value}, nil
	case OpIn:
		return bson.M{field: bson.M{"$in": value}}, nil
	default:
		return nil, fmt.Errorf("unsupported query operator %q", op)
	}
}
