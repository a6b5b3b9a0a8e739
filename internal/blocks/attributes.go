package blocks

import (
	"math"
	"reflect"
)

// AttributeType is the JSON schema type of a block attribute.
type AttributeType string

// Attribute types understood by the registry.
const (
	TypeString  AttributeType = "string"
	TypeNumber  AttributeType = "number"
	TypeInteger AttributeType = "integer"
	TypeBoolean AttributeType = "boolean"
	TypeObject  AttributeType = "object"
	TypeArray   AttributeType = "array"
	TypeNull    AttributeType = "null"
)

// Attribute declares one block attribute.
type Attribute struct {
	Type    AttributeType `json:"type"`
	Default any           `json:"default,omitempty"`
}

func (t AttributeType) valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeObject, TypeArray, TypeNull:
		return true
	}
	return false
}

// Accepts reports whether value is an instance of the type.
func (t AttributeType) Accepts(value any) bool {
	switch t {
	case TypeNull:
		return value == nil
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeObject:
		if value == nil {
			return false
		}
		return reflect.TypeOf(value).Kind() == reflect.Map
	case TypeArray:
		if value == nil {
			return false
		}
		kind := reflect.TypeOf(value).Kind()
		return kind == reflect.Slice || kind == reflect.Array
	case TypeNumber:
		_, ok := number(value)
		return ok
	case TypeInteger:
		f, ok := number(value)
		return ok && f == math.Trunc(f) && !math.IsInf(f, 0)
	}
	return false
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), !math.IsNaN(float64(v))
	case float64:
		return v, !math.IsNaN(v)
	}
	return 0, false
}
