package command

import (
	"context"
	"time"
)

// readLines assembles LF-terminated lines from the port and hands complete
// lines to out. CR is dropped so CRLF terminals work unchanged. Lines longer
// than maxLine are truncated; empty lines are discarded. The out channel is
// never blocked on: if a previous command is still pending, new lines are
// dropped rather than queued.
func readLines(ctx context.Context, port UARTPort, maxLine int, out chan<- []byte) {
	buf := make([]byte, 64)
	line := make([]byte, 0, maxLine)

	for {
		select {
		case <-ctx.Done():
			return
		case <-port.Readable():
		}

		rctx, rcancel := context.WithTimeout(ctx, 250*time.Millisecond)
		n, _ := port.RecvSomeContext(rctx, buf)
		rcancel()
		if n <= 0 {
			continue
		}

		for _, b := range buf[:n] {
			switch b {
			case '\n':
				if len(line) == 0 {
					continue
				}
				payload := append([]byte(nil), line...)
				line = line[:0]
				select {
				case out <- payload:
				default:
				}
			case '\r':
				// ignore
			default:
				if len(line) < maxLine {
					line = append(line, b)
				}
			}
		}
	}
}
