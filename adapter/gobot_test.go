package adapter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/rotary"
	"github.com/mklimuk/rotary/position"
)

type fakeConn struct {
	written  bytes.Buffer
	readData []byte
	short    bool
	closed   bool
}

func (c *fakeConn) Write(p []byte) (int, error) {
	if c.short {
		return len(p) - 1, nil
	}
	return c.written.Write(p)
}

func (c *fakeConn) Read(p []byte) (int, error) {
	n := copy(p, c.readData)
	if c.short {
		return n - 1, nil
	}
	return n, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func newTestGobotBus(conn *fakeConn, opens *int) *GobotBus {
	b := &GobotBus{bus: 2, conns: map[byte]io.ReadWriter{}}
	b.open = func(address byte) (io.ReadWriter, error) {
		*opens++
		if address != position.DefaultAddress {
			return nil, errors.New("no device")
		}
		return conn, nil
	}
	return b
}

func TestGobotBus_ReadAngle(t *testing.T) {
	conn := &fakeConn{readData: []byte{0x04, 0x00}}
	var opens int
	bus := newTestGobotBus(conn, &opens)
	s := position.NewAS5600(bus)

	raw, err := s.ReadRawAngle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(1024), raw)
	assert.Equal(t, []byte{0x0C}, conn.written.Bytes())
	assert.Equal(t, 1, opens, "connection must be reused between write and read")

	require.NoError(t, bus.Close())
	assert.True(t, conn.closed)
}

func TestGobotBus_ShortTransfers(t *testing.T) {
	conn := &fakeConn{readData: []byte{0x00, 0x00}, short: true}
	var opens int
	bus := newTestGobotBus(conn, &opens)
	ctx := context.Background()

	assert.ErrorIs(t, bus.WriteToAddr(ctx, position.DefaultAddress, []byte{0x07, 0x00, 0x00}), rotary.ErrShortWrite)
	assert.ErrorIs(t, bus.ReadFromAddr(ctx, position.DefaultAddress, make([]byte, 2)), rotary.ErrShortRead)
}

func TestGobotBus_OpenError(t *testing.T) {
	var opens int
	bus := newTestGobotBus(&fakeConn{}, &opens)
	assert.Error(t, bus.WriteToAddr(context.Background(), 0x40, []byte{0x00}))
	assert.Empty(t, bus.conns)
}
