package scope

import "github.com/ygrebnov/sender"

// AttachFunc nests a plain value-producing function under sc. It is a
// convenience for the common case of admitting a synchronous callback into
// a scope's lifetime without hand-writing a Sender for it.
func AttachFunc[T any](sc *Scope, fn func() (T, error)) sender.Sender[T] {
	return Nest(sc, sender.JustFrom(fn))
}
