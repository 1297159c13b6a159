package apiv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_NullActiveID(t *testing.T) {
	data, err := Codec{}.Marshal(&PlayerState{State: "empty", Volume: 1, Brightness: 1})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"activeId":null`)
	assert.Contains(t, string(data), `"playlist":null`)

	id := "video-1"
	data, err = Codec{}.Marshal(&PlayerState{ActiveId: &id})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"activeId":"video-1"`)
}

func TestCodec_Unmarshal(t *testing.T) {
	var req AddVideoRequest
	require.NoError(t, Codec{}.Unmarshal([]byte(`{"fileName":"a.mp4","data":"AAEC"}`), &req))
	assert.Equal(t, "a.mp4", req.FileName)
	assert.Equal(t, []byte{0, 1, 2}, req.Data)

	var empty Empty
	assert.NoError(t, Codec{}.Unmarshal(nil, &empty))

	assert.Error(t, Codec{}.Unmarshal([]byte("{"), &req))
	assert.Equal(t, "json", Codec{}.Name())
}
