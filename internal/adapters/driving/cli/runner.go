package cli

import (
	"context"
	"time"
)

// runner is a long-running channel started by a command.
type runner interface {
	Run(ctx context.Context) error
}

// server is an HTTP channel started on an address.
type server interface {
	Run(ctx context.Context, addr string) error
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
