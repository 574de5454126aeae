// internal/line/source.go
package line

// Source is the receive side of the serial line.
// Poll never blocks: ok=false is the normal "nothing pending" case.
// When ok=true exactly one byte has been consumed from the line.
type Source interface {
	Poll() (b byte, ok bool, err error)
}
