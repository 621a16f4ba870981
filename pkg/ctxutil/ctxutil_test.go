package ctxutil

import (
	"context"
	"testing"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "set", ctx: WithRequestID(context.Background(), "req-123"), want: "req-123"},
		{name: "absent", ctx: context.Background(), want: ""},
		{name: "wrong type", ctx: context.WithValue(context.Background(), requestIDKey, 12345), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RequestIDFromCtx(tt.ctx); got != tt.want {
				t.Fatalf("RequestIDFromCtx() = %q, want %q", got, tt.want)
			}
		})
	}
}
