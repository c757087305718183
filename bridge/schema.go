package bridge

import (
	"fmt"

	"sinkbridge/connect"
)

// SchemaType tags the upstream schema of a record's payload.
type SchemaType int

const (
	SchemaNone SchemaType = iota
	SchemaBoolean
	SchemaInt8
	SchemaInt16
	SchemaInt32
	SchemaInt64
	SchemaFloat32
	SchemaFloat64
	SchemaString
	SchemaBytes
	SchemaKeyValue
)

func (t SchemaType) String() string {
	switch t {
	case SchemaBoolean:
		return "boolean"
	case SchemaInt8:
		return "int8"
	case SchemaInt16:
		return "int16"
	case SchemaInt32:
		return "int32"
	case SchemaInt64:
		return "int64"
	case SchemaFloat32:
		return "float32"
	case SchemaFloat64:
		return "float64"
	case SchemaString:
		return "string"
	case SchemaBytes:
		return "bytes"
	case SchemaKeyValue:
		return "key-value"
	default:
		return "none"
	}
}

// Schema is the upstream schema descriptor attached to a record.
type Schema interface {
	Type() SchemaType
}

// KeyValueSchema is implemented by schemas of key-value tagged payloads.
type KeyValueSchema interface {
	Schema
	KeySchema() Schema
	ValueSchema() Schema
}

var schemaTypeToSink = map[SchemaType]connect.Schema{
	SchemaBoolean: connect.SchemaBoolean,
	SchemaInt8:    connect.SchemaInt8,
	SchemaInt16:   connect.SchemaInt16,
	SchemaInt32:   connect.SchemaInt32,
	SchemaInt64:   connect.SchemaInt64,
	SchemaFloat32: connect.SchemaFloat32,
	SchemaFloat64: connect.SchemaFloat64,
	SchemaString:  connect.SchemaString,
	SchemaBytes:   connect.SchemaBytes,
}

// sinkSchemaForValue resolves a sink schema from the runtime kind of the
// value, used when the upstream schema itself does not map to one.
func sinkSchemaForValue(v any) (connect.Schema, bool) {
	switch v.(type) {
	case bool:
		return connect.SchemaBoolean, true
	case int8:
		return connect.SchemaInt8, true
	case int16:
		return connect.SchemaInt16, true
	case int32:
		return connect.SchemaInt32, true
	case int, int64:
		return connect.SchemaInt64, true
	case float32:
		return connect.SchemaFloat32, true
	case float64:
		return connect.SchemaFloat64, true
	case string:
		return connect.SchemaString, true
	case []byte:
		return connect.SchemaBytes, true
	}
	return connect.SchemaUnknown, false
}

// sinkSchemaFor resolves the sink schema for a value: the upstream schema
// table wins, the primitive table is the fallback. An unresolvable pair is
// a hard error, never silently defaulted.
func sinkSchemaFor(s Schema, v any) (connect.Schema, error) {
	if s != nil {
		if ks, ok := schemaTypeToSink[s.Type()]; ok {
			return ks, nil
		}
	}
	if ks, ok := sinkSchemaForValue(v); ok {
		return ks, nil
	}
	name := "none"
	if s != nil {
		name = s.Type().String()
	}
	return connect.SchemaUnknown, fmt.Errorf("no sink schema for upstream schema %s and value %T", name, v)
}
