package utils

import (
	"fmt"
	"strings"

	"learnhub-backend/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefID reduces a reference to its comparable identity string. The reference
// may be a raw ObjectID, a hex string, or a populated document.
func RefID(ref any) string {
	switch v := ref.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		if v.IsZero() {
			return ""
		}
		return v.Hex()
	case *primitive.ObjectID:
		if v == nil {
			return ""
		}
		return RefID(*v)
	case string:
		return strings.TrimSpace(v)
	case *string:
		if v == nil {
			return ""
		}
		return RefID(*v)
	case models.UserSummary:
		return RefID(v.ID)
	case *models.UserSummary:
		if v == nil {
			return ""
		}
		return RefID(v.ID)
	case models.User:
		return RefID(v.ID)
	case *models.User:
		if v == nil {
			return ""
		}
		return RefID(v.ID)
	case bson.M:
		return refFromMap(v)
	case map[string]any:
		return refFromMap(v)
	case bson.D:
		return refFromMap(v.Map())
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	}
	return ""
}

func refFromMap(m map[string]any) string {
	if id, ok := m["_id"]; ok {
		return RefID(id)
	}
	if id, ok := m["id"]; ok {
		return RefID(id)
	}
	return ""
}

// SameRef reports whether two references name the same non-empty identity.
func SameRef(a, b any) bool {
	ida, idb := RefID(a), RefID(b)
	return ida != "" && ida == idb
}
