package fhir

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceTypeIsFirstMember(t *testing.T) {
	b, err := json.Marshal(&Patient{ID: "p1", Gender: "female"})
	require.NoError(t, err)
	assert.Equal(t, `{"resourceType":"Patient","id":"p1","gender":"female"}`, string(b))

	b, err = json.Marshal(Basic{})
	require.NoError(t, err)
	assert.Equal(t, `{"resourceType":"Basic"}`, string(b))
}

func TestQuantityIsNumber(t *testing.T) {
	v := decimal.RequireFromString("15.20")
	b, err := json.Marshal(Quantity{Value: &v, Unit: "g/dL"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":15.2,"unit":"g/dL"}`, string(b))
}

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1980", "1980"},
		{"1980-02", "1980-02"},
		{"1980-02-03", "1980-02-03"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
	_, err := ParseDate("03/02/1980")
	assert.Error(t, err)
	assert.Empty(t, Date{}.String())
}

func TestDateTimeString(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		dt   DateTime
		want string
	}{
		{"utc", NewDateTime(time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC)), "2021-01-02T03:04:05+00:00"},
		{"offset", NewDateTime(time.Date(2021, 1, 2, 3, 4, 5, 0, ny)), "2021-01-02T03:04:05-05:00"},
		{"day precision", DateTime{Time: time.Date(2021, 1, 2, 0, 0, 0, 0, ny), Precision: "YYYY-MM-DD"}, "2021-01-02"},
		{"zero", DateTime{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dt.String())
		})
	}
}

func TestDateTimeUnmarshal(t *testing.T) {
	var dt DateTime
	require.NoError(t, json.Unmarshal([]byte(`"2021-01-02T03:04:05Z"`), &dt))
	assert.Equal(t, "FULL", dt.Precision)

	require.NoError(t, json.Unmarshal([]byte(`"2021-01"`), &dt))
	assert.Equal(t, "2021-01", dt.String())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &dt))
}

func TestHasCoding(t *testing.T) {
	cc := &CodeableConcept{Coding: []Coding{{System: "http://loinc.org", Code: "1"}}}
	assert.True(t, cc.HasCoding(Coding{System: "http://loinc.org", Code: "1"}))
	assert.False(t, cc.HasCoding(Coding{System: "http://loinc.org", Code: "2"}))
}
