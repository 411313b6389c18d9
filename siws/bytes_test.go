package siws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesUnmarshalJSON(t *testing.T) {
	t.Run("array form", func(t *testing.T) {
		var b Bytes
		require.NoError(t, json.Unmarshal([]byte(`[0,1,255]`), &b))
		assert.Equal(t, Bytes{0, 1, 255}, b)
	})

	t.Run("numeric-keyed object form", func(t *testing.T) {
		var b Bytes
		require.NoError(t, json.Unmarshal([]byte(`{"2":255,"0":12,"1":34}`), &b))
		assert.Equal(t, Bytes{12, 34, 255}, b)
	})

	t.Run("empty forms", func(t *testing.T) {
		var b Bytes
		require.NoError(t, json.Unmarshal([]byte(`[]`), &b))
		assert.Empty(t, b)
		require.NoError(t, json.Unmarshal([]byte(`{}`), &b))
		assert.Empty(t, b)
		require.NoError(t, json.Unmarshal([]byte(`null`), &b))
		assert.Nil(t, b)
	})

	t.Run("sparse object keys rejected", func(t *testing.T) {
		var b Bytes
		assert.Error(t, json.Unmarshal([]byte(`{"0":1,"2":3}`), &b))
	})

	t.Run("non-numeric key rejected", func(t *testing.T) {
		var b Bytes
		assert.Error(t, json.Unmarshal([]byte(`{"0":1,"x":2}`), &b))
	})

	t.Run("value out of byte range rejected", func(t *testing.T) {
		var b Bytes
		assert.Error(t, json.Unmarshal([]byte(`[0,256]`), &b))
		assert.Error(t, json.Unmarshal([]byte(`[-1]`), &b))
		assert.Error(t, json.Unmarshal([]byte(`{"0":1.5}`), &b))
	})

	t.Run("wrong types rejected", func(t *testing.T) {
		var b Bytes
		assert.Error(t, json.Unmarshal([]byte(`"AAEC"`), &b))
		assert.Error(t, json.Unmarshal([]byte(`[1,"2"]`), &b))
		assert.Error(t, json.Unmarshal([]byte(`42`), &b))
	})
}

func TestBytesMarshalJSON(t *testing.T) {
	out, err := json.Marshal(Bytes{0, 1, 255})
	require.NoError(t, err)
	assert.JSONEq(t, `[0,1,255]`, string(out))

	// Round trip through a struct field.
	type wrapper struct {
		Data Bytes `json:"data"`
	}
	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"0":7,"1":8}}`), &w))
	assert.Equal(t, Bytes{7, 8}, w.Data)
}
