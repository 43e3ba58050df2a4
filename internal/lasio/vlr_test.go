package lasio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVLRRoundTrip(t *testing.T) {
	v := NewVLR("copc", 1, "COPC info", make([]byte, 160))
	raw, err := v.Marshal()
	require.NoError(t, err)
	require.Len(t, raw, VLRHeaderSize+160)

	got, err := ReadVLR(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "copc", got.UserIDString())
	require.Equal(t, "COPC info", got.DescriptionString())
	require.Equal(t, uint16(1), got.RecordID)
	require.Len(t, got.Data, 160)
}

func TestVLRRejectsOversizedPayload(t *testing.T) {
	v := NewVLR("copc", 1, "too big", make([]byte, 0x10000))
	_, err := v.Marshal()
	require.Error(t, err)
}

func TestEVLRRoundTrip(t *testing.T) {
	e := NewEVLR("entwine", 1000, "EPT hierarchy", bytes.Repeat([]byte{0xAB}, 1<<20))
	raw := e.Marshal()
	require.Len(t, raw, EVLRHeaderSize+(1<<20))

	got, err := ReadEVLR(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "entwine", got.UserIDString())
	require.Equal(t, uint16(1000), got.RecordID)
	require.Len(t, got.Data, 1<<20)
	require.Equal(t, byte(0xAB), got.Data[0])
}
