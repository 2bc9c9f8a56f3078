package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lenshq/lens/internal/classify"
)

func TestCoerceLeaf(t *testing.T) {
	tests := []struct {
		name string
		prev classify.Kind
		raw  string
		want any
	}{
		{"string", classify.KindString, "hello", "hello"},
		{"bool", classify.KindBool, "true", true},
		{"int", classify.KindInt, "-42", int64(-42)},
		{"uint", classify.KindUint, "42", uint64(42)},
		{"float", classify.KindFloat, "3.5", 3.5},
		{"duration", classify.KindDuration, "1m30s", 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceLeaf(tt.prev, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceLeaf_Time(t *testing.T) {
	got, err := CoerceLeaf(classify.KindTime, "2024-06-01T12:00:00Z")
	require.NoError(t, err)
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, want.Equal(got.(time.Time)))
}

func TestCoerceLeaf_Errors(t *testing.T) {
	tests := []struct {
		name string
		prev classify.Kind
		raw  string
	}{
		{"bad_bool", classify.KindBool, "maybe"},
		{"bad_int", classify.KindInt, "3.5"},
		{"bad_uint", classify.KindUint, "-1"},
		{"bad_float", classify.KindFloat, "x"},
		{"bad_time", classify.KindTime, "yesterday"},
		{"bad_duration", classify.KindDuration, "5 parsecs"},
		{"container_kind", classify.KindRecord, "{}"},
		{"circular_kind", classify.KindCircular, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CoerceLeaf(tt.prev, tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestCoerceLeaf_NilInfersFromRaw(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"null", nil},
		{"", nil},
		{"true", true},
		{"42", int64(42)},
		{"3.5", 3.5},
		{"plain text", "plain text"},
	}

	for _, tt := range tests {
		got, err := CoerceLeaf(classify.KindNil, tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestCoerceLike_PreservesDynamicType(t *testing.T) {
	got, err := CoerceLike(8080, "9090")
	require.NoError(t, err)
	assert.Equal(t, 9090, got, "an int field takes an int back, not an int64")

	got, err = CoerceLike(int32(1), "2")
	require.NoError(t, err)
	assert.Equal(t, int32(2), got)

	got, err = CoerceLike(float32(1.5), "2.5")
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), got)

	got, err = CoerceLike(uint16(1), "3")
	require.NoError(t, err)
	assert.Equal(t, uint16(3), got)
}

func TestCoerceLike_StringAndBoolPassThrough(t *testing.T) {
	got, err := CoerceLike("old", "new")
	require.NoError(t, err)
	assert.Equal(t, "new", got)

	got, err = CoerceLike(false, "true")
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestCoerceLike_Duration(t *testing.T) {
	got, err := CoerceLike(5*time.Second, "250ms")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, got)
}

func TestCoerceLike_NilPrev(t *testing.T) {
	got, err := CoerceLike(nil, "7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
}

func TestCoerceLike_BadRaw(t *testing.T) {
	_, err := CoerceLike(1, "not a number")
	assert.Error(t, err)
}
