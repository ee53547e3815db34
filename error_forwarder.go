package preprocessor

import "sync"

// errorForwarder consumes internal fatal worker errors (in) and forwards the
// first one to the outward Manager.Errors() channel (out). Subsequent
// errors are dropped: once one worker has reported a fatal queue-wait
// failure, further occurrences add no new information for the supervisor.
//
// If out is not immediately writable, forwarding happens on a detached
// goroutine tracked by sendWG so run() never blocks worker shutdown; the
// detached sender gives up once closeCh is closed.
type errorForwarder struct {
	in      <-chan error
	out     chan<- error
	closeCh <-chan struct{}
	sendWG  *sync.WaitGroup
}

func newErrorForwarder(in <-chan error, out chan<- error, closeCh <-chan struct{}, sendWG *sync.WaitGroup) *errorForwarder {
	return &errorForwarder{in: in, out: out, closeCh: closeCh, sendWG: sendWG}
}

// run drains f.in until f.closeCh is closed. The caller must have added 1
// to sendWG before calling run in a goroutine, so that waiting on sendWG
// also waits for run itself to return, not just its detached senders.
func (f *errorForwarder) run() {
	defer f.sendWG.Done()
	forwardedFirst := false
	for {
		select {
		case e := <-f.in:
			if !forwardedFirst {
				forwardedFirst = true
				select {
				case f.out <- e:
				default:
					f.sendWG.Add(1)
					go func(err error) {
						defer f.sendWG.Done()
						select {
						case f.out <- err:
						case <-f.closeCh:
						}
					}(e)
				}
			}
		case <-f.closeCh:
			for {
				select {
				case <-f.in:
				default:
					return
				}
			}
		}
	}
}
