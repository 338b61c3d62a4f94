package format_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libyal/go-libpff-table/internal/format"
)

func TestCheckedReadBounds(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	u16, err := format.CheckedReadU16(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0201), u16)

	_, err = format.CheckedReadU16(buf, 7)
	require.ErrorIs(t, err, format.ErrBoundsCheck)

	u32, err := format.CheckedReadU32(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0x04030201), u32)

	_, err = format.CheckedReadU32(buf, 6)
	require.ErrorIs(t, err, format.ErrBoundsCheck)

	u64, err := format.CheckedReadU64(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0807060504030201), u64)
}

func TestLEUint(t *testing.T) {
	require.Equal(t, uint64(0x12), format.LEUint([]byte{0x12}))
	require.Equal(t, uint64(0x3412), format.LEUint([]byte{0x12, 0x34}))
	require.Equal(t, uint64(0x78563412), format.LEUint([]byte{0x12, 0x34, 0x56, 0x78}))
	require.Equal(t, uint64(0), format.LEUint([]byte{0x12, 0x34, 0x56}))
}

func TestIsKnownTableType(t *testing.T) {
	for _, tt := range []uint8{0x6c, 0x7c, 0x8c, 0x9c, 0xa5, 0xac, 0xbc} {
		require.True(t, format.IsKnownTableType(tt))
	}
	require.False(t, format.IsKnownTableType(0x00))
	require.False(t, format.IsKnownTableType(0xff))
}

func TestIsMultiValue(t *testing.T) {
	require.True(t, format.IsMultiValue(format.ValueTypeMultiInt32))
	require.False(t, format.IsMultiValue(format.ValueTypeInt32))
}
