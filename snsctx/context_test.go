package snsctx

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerbose(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsVerbose(ctx))
	assert.True(t, IsVerbose(SetVerbose(ctx, true)))
	assert.False(t, IsVerbose(SetVerbose(SetVerbose(ctx, true), false)))
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	ctx := SetBusName(context.Background(), "mcp2221")
	Dump(ctx, "request", []byte{0x91, 0x02})
	assert.Empty(t, out.String(), "quiet context must not log")

	Dump(SetVerbose(ctx, true), "request", []byte{0x91, 0x02})
	assert.Contains(t, out.String(), "msg=request")
	assert.Contains(t, out.String(), "bus=mcp2221")
	assert.Contains(t, out.String(), "91 02")
}
