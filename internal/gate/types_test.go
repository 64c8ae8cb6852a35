package gate

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidUnitNumber(t *testing.T) {
	for _, tc := range []struct {
		unit string
		want bool
	}{
		{"TCKU6034863", true},
		{"CSQU3054383", true},
		{"TCKU6034864", false},
		{"tcku6034863", false},
		{"TCKX6034863", false},
		{"TCKR6034861", false},
		{"TCKU603486", false},
		{"TCKU60348A3", false},
		{"", false},
	} {
		t.Run(tc.unit, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidUnitNumber(tc.unit))
		})
	}
}

func TestLetterValue(t *testing.T) {
	assert.Equal(t, 10, letterValue('A'))
	assert.Equal(t, 12, letterValue('B'))
	assert.Equal(t, 21, letterValue('K'))
	assert.Equal(t, 23, letterValue('L'))
	assert.Equal(t, 34, letterValue('V'))
	assert.Equal(t, 38, letterValue('Z'))
}

func TestNewGateStatusRequest(t *testing.T) {
	req, err := NewGateStatusRequest("TCKU6034863")
	require.NoError(t, err)
	assert.Equal(t, "TCKU6034863", req.UnitNumber)

	for _, unit := range []string{"", "   "} {
		_, err := NewGateStatusRequest(unit)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "unit number", verr.Field)
	}
}

func TestGateCreateRequestBody(t *testing.T) {
	at := time.Date(2025, time.March, 12, 0, 0, 0, 123456700, time.FixedZone("EDT", -4*60*60))

	for _, tc := range []struct {
		unit   string
		advice string
	}{
		{"TCKU6034863", "AXIAF32029"},
		{"CSQU3054383", "AXIAF32007"},
		{"ABCU1234560", "R-1"},
	} {
		t.Run(tc.unit, func(t *testing.T) {
			req, err := NewGateCreateRequest(tc.advice, tc.unit, DefaultDepot, at)
			require.NoError(t, err)

			data, err := json.Marshal(req)
			require.NoError(t, err)

			var body map[string]any
			require.NoError(t, json.Unmarshal(data, &body))
			assert.Equal(t, tc.unit, body["unitNumber"])
			assert.Equal(t, tc.advice, body["adviceNumber"])
			assert.Equal(t, "A", body["status"])
			assert.Equal(t, "IN", body["type"])
			assert.Equal(t, []any{}, body["photos"])
			assert.Equal(t, "2025-03-12T04:00:00.1234567Z", body["activityTime"])
			assert.Equal(t, map[string]any{
				"companyId": "CNXIAFTRI",
				"name":      "Xiamen Sanlly Container Services, Co., Ltd.",
				"code":      "XIAF",
			}, body["depot"])

			assert.True(t, strings.HasPrefix(string(data), `{"adviceNumber":"`+tc.advice+`","depot":{"companyId":"CNXIAFTRI"`))
			assert.Contains(t, string(data), `"photos":[]`)
		})
	}
}

func TestGateCreateRequestOptions(t *testing.T) {
	req, err := NewGateCreateRequest("AXIAF32029", "TCKU6034863", DefaultDepot, time.Now(),
		WithStatus(StatusDamaged), WithActivityType(ActivityOut), WithPhotos("photo-1", "photo-2"))
	require.NoError(t, err)
	assert.Equal(t, StatusDamaged, req.Status)
	assert.Equal(t, ActivityOut, req.Type)
	assert.Equal(t, []string{"photo-1", "photo-2"}, req.Photos)
}

func TestGateCreateRequestValidation(t *testing.T) {
	now := time.Now()
	for _, tc := range []struct {
		name      string
		advice    string
		unit      string
		depot     Depot
		opts      []CreateOption
		wantField string
	}{
		{"EmptyUnit", "AXIAF32029", "", DefaultDepot, nil, "unit number"},
		{"EmptyAdvice", " ", "TCKU6034863", DefaultDepot, nil, "advice number"},
		{"EmptyDepot", "AXIAF32029", "TCKU6034863", Depot{}, nil, "depot"},
		{"BadStatus", "AXIAF32029", "TCKU6034863", DefaultDepot, []CreateOption{WithStatus("X")}, "status"},
		{"BadType", "AXIAF32029", "TCKU6034863", DefaultDepot, []CreateOption{WithActivityType("SIDEWAYS")}, "type"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGateCreateRequest(tc.advice, tc.unit, tc.depot, now, tc.opts...)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestParseStatusAndType(t *testing.T) {
	s, err := ParseStatus("d")
	require.NoError(t, err)
	assert.Equal(t, StatusDamaged, s)

	_, err = ParseStatus("Q")
	assert.Error(t, err)

	a, err := ParseActivityType("out")
	require.NoError(t, err)
	assert.Equal(t, ActivityOut, a)

	_, err = ParseActivityType("UP")
	assert.Error(t, err)
}
