package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloat(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{`12.5`, 12.5, false},
		{`"12,5"`, 12.5, false},
		{`" 7 "`, 7, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"abc"`, 0, true},
		{`"NaN"`, 0, true},
		{`"Inf"`, 0, true},
		{`"-Infinity"`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f FlexFloat
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, float64(f))
		})
	}
}

func TestDecodeCategories(t *testing.T) {
	cats, err := DecodeCategories([]byte(`[
		{"id": 1, "name": "Phones", "products": [{"id": "p1", "price": "10,50"}]},
		{"id": "2", "name": "Empty", "products": null}
	]`))
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, FlexString("1"), cats[0].ID)
	assert.Equal(t, FlexFloat(10.5), cats[0].Products[0].Price)
	assert.Empty(t, cats[1].Products)

	t.Run("non-finite price", func(t *testing.T) {
		for _, price := range []string{`"NaN"`, `"Infinity"`} {
			_, err := DecodeCategories([]byte(`[{"id": "1", "products": [{"id": "p1", "price": ` + price + `}]}]`))
			assert.Error(t, err, price)
		}
	})

	t.Run("products must be an array", func(t *testing.T) {
		_, err := DecodeCategories([]byte(`[{"id": "1", "products": {"id": "p1"}}]`))
		assert.ErrorIs(t, err, ErrNotArray)
	})
}
