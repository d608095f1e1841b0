package runner

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListener_KillByte(t *testing.T) {
	var calls atomic.Int32
	l := Listener{
		Reader: strings.NewReader("abck k"),
		OnKill: func() bool { calls.Add(1); return true },
	}
	assert.True(t, l.Listen(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestListener_EOF(t *testing.T) {
	var calls atomic.Int32
	l := Listener{
		Reader: strings.NewReader("xyz\n"),
		OnKill: func() bool { calls.Add(1); return true },
	}
	assert.False(t, l.Listen(context.Background()))
	assert.Zero(t, calls.Load())
}

func TestListener_KillDeclined(t *testing.T) {
	var calls atomic.Int32
	l := Listener{
		Reader: strings.NewReader("kxk"),
		OnKill: func() bool { return calls.Add(1) == 2 },
	}
	assert.True(t, l.Listen(context.Background()))
	assert.Equal(t, int32(2), calls.Load())

	calls.Store(0)
	l.Reader = strings.NewReader("kk")
	l.OnKill = func() bool { calls.Add(1); return false }
	assert.False(t, l.Listen(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestListener_ReadError(t *testing.T) {
	l := Listener{Reader: errReader{}}
	assert.False(t, l.Listen(context.Background()))
}

func TestListener_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := Listener{Reader: strings.NewReader("k")}
	assert.False(t, l.Listen(ctx))
}

func TestListener_Pipe(t *testing.T) {
	pr, pw := io.Pipe()
	killed := make(chan struct{})
	l := Listener{
		Reader: pr,
		OnKill: func() bool { close(killed); return true },
	}
	done := make(chan bool, 1)
	go func() { done <- l.Listen(context.Background()) }()

	pw.Write([]byte("x"))
	select {
	case <-killed:
		t.Fatal("killed without kill byte")
	case <-time.After(20 * time.Millisecond):
	}

	pw.Write([]byte("k"))
	select {
	case <-killed:
	case <-time.After(5 * time.Second):
		t.Fatal("kill byte not handled")
	}
	assert.True(t, <-done)
	pw.Close()
}
