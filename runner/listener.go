package runner

import (
	"context"
	"io"
)

// KillByte is the control byte on the runner's stdin requesting termination
const KillByte = 'k'

// Listener watches a control stream for the kill byte
type Listener struct {
	Reader io.Reader

	// OnKill is called for each kill byte until it reports that the request
	// was taken
	OnKill func() bool
}

// Listen reads one byte at a time until a kill byte is taken, end of input or
// a read error. It reports whether a kill request was taken. The context is checked
// between reads only, a blocked read is not interrupted.
func (l *Listener) Listen(ctx context.Context) bool {
	var b [1]byte
	for ctx.Err() == nil {
		n, err := l.Reader.Read(b[:])
		if n == 1 && b[0] == KillByte {
			if l.OnKill == nil || l.OnKill() {
				return true
			}
		}
		if err != nil {
			return false
		}
	}
	return false
}
