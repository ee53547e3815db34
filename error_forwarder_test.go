package preprocessor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func recvErr(t *testing.T, ch <-chan error, d time.Duration) (error, bool) {
	t.Helper()
	select {
	case v := <-ch:
		return v, true
	case <-time.After(d):
		return nil, false
	}
}

func noRecvErr(t *testing.T, ch <-chan error) bool {
	t.Helper()
	select {
	case <-ch:
		return false
	default:
		return true
	}
}

func TestErrorForwarder_BufferedOut_ForwardsFirst(t *testing.T) {
	in := make(chan error, 1)
	out := make(chan error, 1)
	closeCh := make(chan struct{})
	var sendWG sync.WaitGroup

	f := newErrorForwarder(in, out, closeCh, &sendWG)
	sendWG.Add(1)
	done := make(chan struct{})
	go func() { f.run(); close(done) }()

	in <- errors.New("boom")

	v, ok := recvErr(t, out, 100*time.Millisecond)
	require.True(t, ok)
	require.EqualError(t, v, "boom")

	close(closeCh)
	<-done
	sendWG.Wait()
}

func TestErrorForwarder_UnbufferedOut_UsesDetachedSenderAndDropsOnClose(t *testing.T) {
	in := make(chan error, 1)
	out := make(chan error)
	closeCh := make(chan struct{})
	var sendWG sync.WaitGroup

	f := newErrorForwarder(in, out, closeCh, &sendWG)
	sendWG.Add(1)
	done := make(chan struct{})
	go func() { f.run(); close(done) }()

	in <- errors.New("boom")

	time.Sleep(30 * time.Millisecond)
	close(closeCh)
	<-done
	sendWG.Wait()
	require.True(t, noRecvErr(t, out))
}

func TestErrorForwarder_OnlyFirstForwarded_SubsequentDropped(t *testing.T) {
	in := make(chan error, 4)
	out := make(chan error, 4)
	closeCh := make(chan struct{})
	var sendWG sync.WaitGroup

	f := newErrorForwarder(in, out, closeCh, &sendWG)
	sendWG.Add(1)
	done := make(chan struct{})
	go func() { f.run(); close(done) }()

	in <- errors.New("first")
	in <- errors.New("second")
	in <- errors.New("third")

	v, ok := recvErr(t, out, 100*time.Millisecond)
	require.True(t, ok)
	require.EqualError(t, v, "first")

	close(closeCh)
	<-done
	sendWG.Wait()
	require.True(t, noRecvErr(t, out))
}
