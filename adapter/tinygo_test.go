package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/rotary/position"
)

type MockTinyGoI2C struct {
	mock.Mock
}

func (m *MockTinyGoI2C) Tx(addr uint16, w, r []byte) error {
	args := m.Called(addr, w, len(r))
	if data, ok := args.Get(0).([]byte); ok {
		copy(r, data)
	}
	return args.Error(1)
}

func (m *MockTinyGoI2C) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return m.Tx(uint16(addr), []byte{r}, buf)
}

func (m *MockTinyGoI2C) WriteRegister(addr uint8, r uint8, buf []byte) error {
	return m.Tx(uint16(addr), append([]byte{r}, buf...), nil)
}

func TestTinyGoBus_RepeatedStartRead(t *testing.T) {
	i2c := &MockTinyGoI2C{}
	i2c.On("Tx", uint16(0x36), []byte{0x0E}, 2).Return([]byte{0x01, 0x00}, nil).Once()
	s := position.NewAS5600(NewTinyGoBus(i2c))

	raw, err := s.ReadAngle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(256), raw)
	i2c.AssertExpectations(t)
}

func TestTinyGoBus_Write(t *testing.T) {
	i2c := &MockTinyGoI2C{}
	i2c.On("Tx", uint16(0x36), []byte{0x01, 0x08, 0x00}, 0).Return(nil, nil).Once()
	s := position.NewAS5600(NewTinyGoBus(i2c))

	require.NoError(t, s.SetZPosition(context.Background(), 2048))
	i2c.AssertExpectations(t)
}

func TestTinyGoBus_Error(t *testing.T) {
	i2c := &MockTinyGoI2C{}
	i2c.On("Tx", uint16(0x36), []byte{0x0B}, 1).Return(nil, errors.New("nack")).Once()
	s := position.NewAS5600(NewTinyGoBus(i2c))

	_, err := s.GetStatus(context.Background())
	assert.ErrorIs(t, err, position.ErrRegisterRead)
	assert.Equal(t, position.CodeRegisterRead, s.LastError())
}
