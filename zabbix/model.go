package zabbix

import (
	"encoding/json"
	"reflect"
	"strconv"
)

// ExtendOutput is the special output value returning every property.
const ExtendOutput = "extend"

// Output selects the properties a get method returns, or the properties of
// a related object returned by a select option.
//
// A nil Output leaves the server default in place. Output{"extend"} is sent
// as the string "extend" and Output{"count"} as "count".
type Output []string

// OutputExtend returns every property.
var OutputExtend = Output{ExtendOutput}

func (o Output) MarshalJSON() ([]byte, error) {
	if len(o) == 1 && (o[0] == ExtendOutput || o[0] == "count") {
		return json.Marshal(o[0])
	}
	return json.Marshal([]string(o))
}

// GetParams are the parameters shared by every get method.
//
// Filter matches property values exactly; Search matches substrings (or
// wildcard patterns when SearchWildcardsEnabled is set).
type GetParams struct {
	Output                 Output         `json:"output,omitempty"`
	Filter                 map[string]any `json:"filter,omitempty"`
	Search                 map[string]any `json:"search,omitempty"`
	SearchByAny            bool           `json:"searchByAny,omitempty"`
	SearchWildcardsEnabled bool           `json:"searchWildcardsEnabled,omitempty"`
	SortField              []string       `json:"sortfield,omitempty"`
	SortOrder              string         `json:"sortorder,omitempty"`
	Limit                  int            `json:"limit,omitempty"`
}

// Tag is a name/value tag on a host, item, trigger or web scenario.
type Tag struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// MacroType is the type of a user macro value.
type MacroType int

const (
	MacroText MacroType = iota
	MacroSecret
	MacroVault
)

func (t MacroType) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(t)))
}

func (t *MacroType) UnmarshalJSON(data []byte) error {
	v, err := enumCode(data, reflect.TypeFor[MacroType](), 0, 2)
	if err != nil {
		return err
	}
	*t = MacroType(v)
	return nil
}

// Macro is a user macro defined on a host.
type Macro struct {
	Macro       string    `json:"macro"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	Type        MacroType `json:"type,omitempty"`
}

// TemplateID references a template by id.
type TemplateID struct {
	TemplateID string `json:"templateid" zabbix:"required"`
}

// enumCode parses a Zabbix enumeration sent as a numeric string such as
// "1", rejecting numbers and out-of-range codes.
func enumCode(data []byte, typ reflect.Type, lo, hi int) (int, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, &json.UnmarshalTypeError{Value: jsonKind(data), Type: typ}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		return 0, &json.UnmarshalTypeError{Value: "string " + strconv.Quote(s), Type: typ}
	}
	return v, nil
}
