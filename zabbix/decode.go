package zabbix

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Result decoding is strict about shape:
//
//   - fields tagged `zabbix:"required"` must be present and non-null;
//   - a value of the wrong JSON type is an error, reported with its path;
//   - nothing is defaulted or coerced beyond what encoding/json does.
//
// Unknown members are ignored, since the server returns whatever the caller
// selected with "output".

var jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()

// fieldInfo describes one JSON member of a record type.
type fieldInfo struct {
	name     string
	required bool
	// quoted is the ",string" option: the value travels as a JSON string.
	quoted bool
	typ    reflect.Type
}

var fieldCache sync.Map // reflect.Type -> []fieldInfo

func recordFields(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}
	var fields []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct {
			fields = append(fields, recordFields(f.Type)...)
			continue
		}
		if !f.IsExported() || tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		fields = append(fields, fieldInfo{
			name:     name,
			required: f.Tag.Get("zabbix") == "required",
			quoted:   slices.Contains(strings.Split(opts, ","), "string"),
			typ:      f.Type,
		})
	}
	fieldCache.Store(t, fields)
	return fields
}

// jsonKind names the JSON type of raw for error messages.
func jsonKind(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func joinPath(base, field string) string {
	switch {
	case field == "":
		return base
	case base == "":
		return field
	case field[0] == '[':
		return base + field
	default:
		return base + "." + field
	}
}

func indexPath(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}

// scalarKind is the JSON kind a scalar Go kind decodes from, or "" when t is
// not a scalar.
func scalarKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	}
	return ""
}

// checkShape walks raw alongside t, verifying required members and the JSON
// kind of every value, so that mismatches are reported with an indexed path.
func checkShape(raw json.RawMessage, t reflect.Type, path string) *DecodeError {
	return checkValue(raw, t, path, false)
}

func checkValue(raw json.RawMessage, t reflect.Type, path string, quoted bool) *DecodeError {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	kind := jsonKind(raw)
	if kind == "null" && t.Kind() != reflect.Struct {
		return nil
	}
	if reflect.PointerTo(t).Implements(jsonUnmarshalerType) {
		v := reflect.New(t).Interface().(json.Unmarshaler)
		if err := v.UnmarshalJSON(raw); err != nil {
			return translate(err, path)
		}
		return nil
	}
	if want := scalarKind(t); want != "" {
		if quoted {
			var s string
			if kind != "string" || json.Unmarshal(raw, &s) != nil {
				return &DecodeError{Path: path, Reason: "expected quoted " + want + ", got " + kind}
			}
			if inner := json.RawMessage(s); !json.Valid(inner) || jsonKind(inner) != want {
				return &DecodeError{Path: path, Reason: "expected quoted " + want + ", got string " + strconv.Quote(s)}
			}
			return nil
		}
		if kind != want {
			return &DecodeError{Path: path, Reason: "expected " + want + ", got " + kind}
		}
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		if kind != "object" {
			return &DecodeError{Path: path, Reason: "expected object, got " + kind}
		}
		var members map[string]json.RawMessage
		if err := json.Unmarshal(raw, &members); err != nil {
			return &DecodeError{Path: path, Reason: err.Error()}
		}
		for _, f := range recordFields(t) {
			v, ok := members[f.name]
			if !ok || jsonKind(v) == "null" {
				if f.required {
					return &DecodeError{Path: joinPath(path, f.name), Reason: "missing required field"}
				}
				continue
			}
			if err := checkValue(v, f.typ, joinPath(path, f.name), f.quoted); err != nil {
				return err
			}
		}
	case reflect.Map:
		if kind != "object" {
			return &DecodeError{Path: path, Reason: "expected object, got " + kind}
		}
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		if kind != "array" {
			return &DecodeError{Path: path, Reason: "expected array, got " + kind}
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return &DecodeError{Path: path, Reason: err.Error()}
		}
		for i, elem := range elems {
			if err := checkValue(elem, t.Elem(), indexPath(path, i), false); err != nil {
				return err
			}
		}
	}
	return nil
}

// translate maps an encoding/json error to a DecodeError rooted at path.
func translate(err error, path string) *DecodeError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		reason := "expected " + typeErr.Type.String()
		if typeErr.Value != "" {
			reason += ", got " + typeErr.Value
		}
		return &DecodeError{Path: joinPath(path, typeErr.Field), Reason: reason}
	}
	var synErr *json.SyntaxError
	if errors.As(err, &synErr) {
		return &DecodeError{Path: path, Reason: "invalid JSON: " + synErr.Error()}
	}
	return &DecodeError{Path: path, Reason: err.Error()}
}

func decodeInto(raw json.RawMessage, dst any, path string) *DecodeError {
	if err := checkShape(raw, reflect.TypeOf(dst).Elem(), path); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return translate(err, path)
	}
	return nil
}

// decodeRecords decodes the array result of a get method. An empty array
// is a valid, empty result.
func decodeRecords[T any](method string, raw json.RawMessage) ([]T, error) {
	if kind := jsonKind(raw); kind != "array" {
		return nil, &DecodeError{Method: method, Reason: "expected array, got " + kind}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, &DecodeError{Method: method, Reason: err.Error()}
	}
	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		var rec T
		if err := decodeInto(elem, &rec, indexPath("", i)); err != nil {
			err.Method = method
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// decodeIDs decodes the {"<key>": ["id", ...]} result of a create or update
// method.
func decodeIDs(method, key string, raw json.RawMessage) ([]string, error) {
	if kind := jsonKind(raw); kind != "object" {
		return nil, &DecodeError{Method: method, Reason: "expected object, got " + kind}
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, &DecodeError{Method: method, Reason: err.Error()}
	}
	list, ok := members[key]
	if !ok || jsonKind(list) == "null" {
		return nil, &DecodeError{Method: method, Path: key, Reason: "missing required field"}
	}
	if kind := jsonKind(list); kind != "array" {
		return nil, &DecodeError{Method: method, Path: key, Reason: "expected array, got " + kind}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(list, &elems); err != nil {
		return nil, &DecodeError{Method: method, Path: key, Reason: err.Error()}
	}
	if len(elems) == 0 {
		return nil, &DecodeError{Method: method, Path: key, Reason: "no identifiers returned"}
	}
	ids := make([]string, 0, len(elems))
	for i, elem := range elems {
		var id string
		if kind := jsonKind(elem); kind != "string" {
			return nil, &DecodeError{Method: method, Path: indexPath(key, i), Reason: "expected string identifier, got " + kind}
		}
		if err := json.Unmarshal(elem, &id); err != nil {
			return nil, &DecodeError{Method: method, Path: indexPath(key, i), Reason: err.Error()}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// decodeString decodes a scalar string result such as a version or token.
func decodeString(method string, raw json.RawMessage) (string, error) {
	if kind := jsonKind(raw); kind != "string" {
		return "", &DecodeError{Method: method, Reason: "expected string, got " + kind}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &DecodeError{Method: method, Reason: err.Error()}
	}
	return s, nil
}

// encodeWith marshals v and adds extra members, for the handful of params
// whose member names depend on the protocol variant.
func encodeWith(v any, extra map[string]any) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	members := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	for key, val := range extra {
		enc, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		members[key] = enc
	}
	return members, nil
}
