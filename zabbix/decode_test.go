package zabbix

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shapeItem struct {
	ItemID string `json:"itemid" zabbix:"required"`
	Count  int    `json:"count"`
	Rank   int    `json:"rank,string"`
}

type shapeRecord struct {
	ID     string            `json:"id" zabbix:"required"`
	Name   string            `json:"name"`
	Tags   []Tag             `json:"tags"`
	Items  []shapeItem       `json:"items"`
	Type   MacroType         `json:"type"`
	Macros []Macro           `json:"macros"`
	Labels map[string]string `json:"labels"`
}

type embeddedRecord struct {
	shapeItem
	Label string `json:"label"`
}

func TestDecodeRecords(t *testing.T) {
	recs, err := decodeRecords[shapeRecord]("test.get", json.RawMessage(`[
		{"id":"1","name":"a","tags":[{"tag":"env","value":"prod"}],"extra":"ignored"},
		{"id":"2","items":[{"itemid":"5","count":3,"rank":"4"}],"type":"1","labels":{"a":"b"}}
	]`))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].Name)
	assert.Equal(t, []Tag{{Tag: "env", Value: "prod"}}, recs[0].Tags)
	assert.Equal(t, 3, recs[1].Items[0].Count)
	assert.Equal(t, 4, recs[1].Items[0].Rank)
	assert.Equal(t, map[string]string{"a": "b"}, recs[1].Labels)
	assert.Equal(t, MacroSecret, recs[1].Type)
}

func TestDecodeRecordsEmpty(t *testing.T) {
	recs, err := decodeRecords[shapeRecord]("test.get", json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestDecodeRecordsErrors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantPath string
	}{
		{"object instead of array", `{"id":"1"}`, ""},
		{"string instead of array", `"1"`, ""},
		{"missing required", `[{"name":"x"}]`, "[0].id"},
		{"null required", `[{"id":null}]`, "[0].id"},
		{"wrong type", `[{"id":"1"},{"id":2}]`, "[1].id"},
		{"element not object", `[{"id":"1"},"x"]`, "[1]"},
		{"nested missing required", `[{"id":"1","items":[{"count":1}]}]`, "[0].items[0].itemid"},
		{"nested not array", `[{"id":"1","items":{}}]`, "[0].items"},
		{"nested element not object", `[{"id":"1","tags":[1]}]`, "[0].tags[0]"},
		{"enum out of range", `[{"id":"1","type":"7"}]`, "[0].type"},
		{"enum as number", `[{"id":"1","type":1}]`, "[0].type"},
		{"nested wrong scalar type", `[{"id":"1","items":[{"itemid":"5"},{"itemid":6}]}]`, "[0].items[1].itemid"},
		{"nested string for number", `[{"id":"1","items":[{"itemid":"5","count":"3"}]}]`, "[0].items[0].count"},
		{"nested bare number for quoted", `[{"id":"1","items":[{"itemid":"5","rank":4}]}]`, "[0].items[0].rank"},
		{"nested non-numeric quoted", `[{"id":"1","items":[{"itemid":"5","rank":"high"}]}]`, "[0].items[0].rank"},
		{"nested tag value", `[{"id":"1","tags":[{"tag":"a","value":"b"},{"tag":"c","value":1}]}]`, "[0].tags[1].value"},
		{"nested enum out of range", `[{"id":"1","macros":[{"macro":"{$A}","type":"0"},{"macro":"{$B}","type":"9"}]}]`, "[0].macros[1].type"},
		{"map not object", `[{"id":"1","labels":["a"]}]`, "[0].labels"},
		{"null element", `[{"id":"1"},null]`, "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRecords[shapeRecord]("test.get", json.RawMessage(tt.raw))
			var derr *DecodeError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, "test.get", derr.Method)
			assert.Equal(t, tt.wantPath, derr.Path)
			assert.NotEmpty(t, derr.Reason)
		})
	}
}

func TestDecodeRecordsEmbedded(t *testing.T) {
	_, err := decodeRecords[embeddedRecord]("test.get", json.RawMessage(`[{"label":"x"}]`))
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "[0].itemid", derr.Path)

	recs, err := decodeRecords[embeddedRecord]("test.get", json.RawMessage(`[{"itemid":"9","label":"x"}]`))
	require.NoError(t, err)
	assert.Equal(t, "9", recs[0].ItemID)
}

func TestDecodeIDs(t *testing.T) {
	ids, err := decodeIDs("host.create", "hostids", json.RawMessage(`{"hostids":["10105","10106"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"10105", "10106"}, ids)

	tests := []struct {
		name     string
		raw      string
		wantPath string
	}{
		{"not object", `["10105"]`, ""},
		{"missing key", `{"groupids":["1"]}`, "hostids"},
		{"null key", `{"hostids":null}`, "hostids"},
		{"not array", `{"hostids":"10105"}`, "hostids"},
		{"number element", `{"hostids":[10105]}`, "hostids[0]"},
		{"empty", `{"hostids":[]}`, "hostids"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeIDs("host.create", "hostids", json.RawMessage(tt.raw))
			var derr *DecodeError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, "host.create", derr.Method)
			assert.Equal(t, tt.wantPath, derr.Path)
		})
	}
}

func TestDecodeString(t *testing.T) {
	s, err := decodeString("apiinfo.version", json.RawMessage(`"7.0.5"`))
	require.NoError(t, err)
	assert.Equal(t, "7.0.5", s)

	_, err = decodeString("apiinfo.version", json.RawMessage(`7`))
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "expected string, got number", derr.Reason)
}

func TestDecodeErrorString(t *testing.T) {
	assert.Equal(t, "zabbix: decode host.get result[0].hostid: missing required field",
		(&DecodeError{Method: "host.get", Path: "[0].hostid", Reason: "missing required field"}).Error())
	assert.Equal(t, "zabbix: decode host.create result.hostids: no identifiers returned",
		(&DecodeError{Method: "host.create", Path: "hostids", Reason: "no identifiers returned"}).Error())
	assert.Equal(t, "zabbix: decode host.get result: expected array, got object",
		(&DecodeError{Method: "host.get", Reason: "expected array, got object"}).Error())
}

func TestOutputMarshal(t *testing.T) {
	tests := []struct {
		out  Output
		want string
	}{
		{OutputExtend, `"extend"`},
		{Output{"count"}, `"count"`},
		{Output{"hostid", "name"}, `["hostid","name"]`},
		{Output{"extend", "name"}, `["extend","name"]`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.out)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(data))
	}

	data, err := json.Marshal(GetParams{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	data, err = json.Marshal(GetParams{Output: OutputExtend, Filter: map[string]any{"host": []string{"a"}}, Limit: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"output":"extend","filter":{"host":["a"]},"limit":5}`, string(data))
}

func TestMacroType(t *testing.T) {
	data, err := json.Marshal(Macro{Macro: "{$SNMP}", Value: "public", Type: MacroSecret})
	require.NoError(t, err)
	assert.JSONEq(t, `{"macro":"{$SNMP}","value":"public","type":"1"}`, string(data))

	var m Macro
	require.NoError(t, json.Unmarshal([]byte(`{"macro":"{$X}","value":"v","type":"2"}`), &m))
	assert.Equal(t, MacroVault, m.Type)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"3"}`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"type":2}`), &m))
}

func TestEncodeWith(t *testing.T) {
	type params struct {
		Name   string   `json:"name"`
		Hidden []string `json:"-"`
	}
	members, err := encodeWith(params{Name: "x", Hidden: []string{"a"}}, map[string]any{"renamed": []string{"a"}})
	require.NoError(t, err)
	data, err := json.Marshal(members)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","renamed":["a"]}`, string(data))
}
