package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList holds category references. Older documents store the reference
// as a single string or as a raw ObjectID; both decode into a one-element list.
type StringList []string

// UnmarshalBSONValue accepts string, ObjectID and array BSON types so legacy
// documents decode without failing the whole listing.
func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = nil
		return nil
	case bsontype.Array:
		values, err := bson.Raw(data).Values()
		if err != nil {
			return err
		}
		out := make([]string, 0, len(values))
		for _, v := range values {
			ref, err := referenceFromValue(v)
			if err != nil {
				return err
			}
			if ref != "" {
				out = append(out, ref)
			}
		}
		*s = out
		return nil
	case bsontype.String, bsontype.ObjectID:
		ref, err := referenceFromValue(bson.RawValue{Type: t, Value: data})
		if err != nil {
			return err
		}
		if ref == "" {
			*s = []string{}
			return nil
		}
		*s = []string{ref}
		return nil
	default:
		return fmt.Errorf("cannot decode %s into StringList", t)
	}
}

// MarshalBSONValue always stores the list as an array.
func (s StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s == nil {
		return bson.MarshalValue([]string{})
	}
	return bson.MarshalValue([]string(s))
}

func referenceFromValue(v bson.RawValue) (string, error) {
	switch v.Type {
	case bsontype.String:
		return strings.TrimSpace(v.StringValue()), nil
	case bsontype.ObjectID:
		return v.ObjectID().Hex(), nil
	default:
		return "", fmt.Errorf("cannot decode %s into category reference", v.Type)
	}
}
