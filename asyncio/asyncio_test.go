package asyncio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeycumines/corework/taskrunner"
)

func TestFileDescriptor_RetainDupAndClose(t *testing.T) {
	// fd 0 (stdin) is always valid and safe to dup/close in a test process.
	fd := NewFileDescriptor(0, ModeRead, "stdin")
	dup, err := fd.Retain()
	require.NoError(t, err)
	require.True(t, dup.IsOpen())
	require.NoError(t, dup.Close())
	require.False(t, dup.IsOpen())
	require.NoError(t, dup.Close()) // second close is a no-op
	require.True(t, fd.IsOpen())
}

func TestFileDescriptor_ReopenFailsOnModeMismatch(t *testing.T) {
	fd := NewFileDescriptor(0, ModeRead, "stdin")
	require.Error(t, fd.Reopen(ModeWrite))
	require.NoError(t, fd.Reopen(ModeRead))
}

func TestByteStream_WriteThenReadRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	ws := NewByteStream(buf)
	n, err := ws.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, 4, n)

	rs := NewByteStream(buf)
	out := make([]byte, 4)
	n, err = rs.Read(out)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{1, 2, 3, 4}, out)
}

func TestAsyncStream_ReadU32RoundTripViaIOManager(t *testing.T) {
	require.NoError(t, InitIOManager(taskrunner.WithSlotCapacity(8), taskrunner.WithInputQueueSize(8)))
	defer ShutdownIOManager()

	backing := make([]byte, 16)
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint32(backing[i*4:], uint32(100+i))
	}
	in := NewByteStream(backing)

	stream := IOManagerInstance().NewAsyncStream(in, nil)
	out := make([]byte, 16)
	res := stream.ReadU32(out, 4)

	ok := res.WaitForResult()
	require.True(t, ok)
	require.Equal(t, 16, res.BytesTransferred())

	_, hasTask := res.Task()
	require.False(t, hasTask, "back-pointer must be cleared once the task completes")

	require.Equal(t, backing, out)
}

func TestAsyncStream_WriteU64(t *testing.T) {
	require.NoError(t, InitIOManager())
	defer ShutdownIOManager()

	backing := make([]byte, 16)
	out := NewByteStream(backing)
	stream := IOManagerInstance().NewAsyncStream(nil, out)

	payload := make([]byte, 16)
	binary.BigEndian.PutUint64(payload[0:], 42)
	binary.BigEndian.PutUint64(payload[8:], 43)

	wres := stream.WriteU64(payload, 2)
	require.True(t, wres.WaitForResult())
	require.Equal(t, 16, wres.BytesTransferred())
	require.Equal(t, payload, backing)
}

func TestAsyncStream_ReadCStringWithLengthPrefix(t *testing.T) {
	require.NoError(t, InitIOManager())
	defer ShutdownIOManager()

	payload := []byte("hello")
	backing := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(backing, uint32(len(payload)))
	copy(backing[4:], payload)

	in := NewByteStream(backing)
	stream := IOManagerInstance().NewAsyncStream(in, nil)

	out := make([]byte, len(payload))
	res := stream.ReadCString(out)
	require.True(t, res.WaitForResult())
	require.Equal(t, len(payload)+4, res.BytesTransferred())
	require.Equal(t, payload, out)
}

func TestIOManagerInstance_PanicsBeforeInit(t *testing.T) {
	require.Panics(t, func() {
		IOManagerInstance()
	})
}

func TestInitIOManager_TwiceFails(t *testing.T) {
	require.NoError(t, InitIOManager())
	defer ShutdownIOManager()
	require.Error(t, InitIOManager())
}
