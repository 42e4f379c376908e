package snsctx

import (
	"context"
	"encoding/hex"
	"log/slog"
)

type ctxIndex int

const (
	ctxIndexVerbose ctxIndex = iota
	ctxIndexBus
)

func IsVerbose(ctx context.Context) bool {
	val := ctx.Value(ctxIndexVerbose)
	if val == nil {
		return false
	}
	return val.(bool)
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, ctxIndexVerbose, value)
}

// BusName returns the transport label attached with SetBusName, empty if none.
func BusName(ctx context.Context) string {
	val := ctx.Value(ctxIndexBus)
	if val == nil {
		return ""
	}
	return val.(string)
}

func SetBusName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ctxIndexBus, name)
}

// Dump logs a hex dump of buf at debug level. Nothing is logged unless ctx is verbose.
func Dump(ctx context.Context, msg string, buf []byte) {
	if !IsVerbose(ctx) {
		return
	}
	attrs := []any{"len", len(buf), "dump", "\n" + hex.Dump(buf)}
	if bus := BusName(ctx); bus != "" {
		attrs = append(attrs, "bus", bus)
	}
	slog.DebugContext(ctx, msg, attrs...)
}
