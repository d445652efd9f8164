package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalJSON_Variants(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind Kind
		wantText string
		hasText  bool
	}{
		{name: "string", input: `"Smith"`, wantKind: KindString, wantText: "Smith", hasText: true},
		{name: "number", input: `41`, wantKind: KindNumber, wantText: "41", hasText: true},
		{name: "float keeps shortest form", input: `12.5`, wantKind: KindNumber, wantText: "12.5", hasText: true},
		{name: "bool true", input: `true`, wantKind: KindBool, wantText: "true", hasText: true},
		{name: "bool false", input: `false`, wantKind: KindBool, wantText: "false", hasText: true},
		{name: "null", input: `null`, wantKind: KindNull, hasText: false},
		{name: "object matched as text", input: `{"city": "Pune"}`, wantKind: KindString, wantText: `{"city":"Pune"}`, hasText: true},
		{name: "array matched as text", input: `[1, 2]`, wantKind: KindString, wantText: `[1,2]`, hasText: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			assert.Equal(t, tt.wantKind, v.Kind())

			text, ok := v.Text()
			assert.Equal(t, tt.hasText, ok)
			if tt.hasText {
				assert.Equal(t, tt.wantText, text)
			}
		})
	}
}

func TestValue_MarshalJSON_RoundTrip(t *testing.T) {
	inputs := []string{`"hello"`, `42`, `true`, `null`, `{"a":1}`, `[1,2,3]`}

	for _, input := range inputs {
		var v Value
		require.NoError(t, json.Unmarshal([]byte(input), &v))

		out, err := json.Marshal(v)
		require.NoError(t, err)
		assert.JSONEq(t, input, string(out))
	}
}

func TestValue_Constructors(t *testing.T) {
	assert.Equal(t, KindString, String("x").Kind())
	assert.Equal(t, KindNumber, Number(1).Kind())
	assert.Equal(t, KindBool, Bool(true).Kind())
	assert.True(t, Null().IsNull())

	text, ok := Number(150).Text()
	require.True(t, ok)
	assert.Equal(t, "150", text)
}

func TestRecord_Matches(t *testing.T) {
	rec := Record{
		"last_name": String("Smith"),
		"age":       Number(41),
		"active":    Bool(true),
		"notes":     Null(),
	}

	tests := []struct {
		name string
		term string
		want bool
	}{
		{name: "case-insensitive substring", term: "smith", want: true},
		{name: "partial match", term: "mit", want: true},
		{name: "number as text", term: "41", want: true},
		{name: "bool as text", term: "true", want: true},
		{name: "no field contains term", term: "99", want: false},
		{name: "null never matches", term: "null", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rec.Matches(tt.term))
		})
	}
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	raw := `{"first_name": "Asha", "age": 28, "verified": false, "middle_name": null}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Len(t, rec, 4)
	assert.Equal(t, KindString, rec["first_name"].Kind())
	assert.Equal(t, KindNumber, rec["age"].Kind())
	assert.Equal(t, KindBool, rec["verified"].Kind())
	assert.True(t, rec["middle_name"].IsNull())
}

func TestMode_Valid(t *testing.T) {
	assert.True(t, ModeProfiles.Valid())
	assert.True(t, ModeCards.Valid())
	assert.False(t, Mode("invoices").Valid())
	assert.False(t, Mode("").Valid())
}
