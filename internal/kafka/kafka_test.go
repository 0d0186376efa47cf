package kafka

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaitKafkaReady_Listening(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	require.NoError(t, WaitKafkaReady(context.Background(), ln.Addr().String(), 3, time.Millisecond))
}

func TestWaitKafkaReady_GivesUp(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	err = WaitKafkaReady(context.Background(), addr, 2, time.Millisecond)
	require.Error(t, err)
}

func TestWaitKafkaReady_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitKafkaReady(ctx, "127.0.0.1:1", 5, time.Hour)
	require.Error(t, err)
}
