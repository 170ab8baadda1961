// Package pass provides a single-slot rendezvous between one caller and
// one acceptor, in both synchronous (Try*) and sender-based (Async*) form.
//
// At most one of a waiting call or a waiting accept exists at any time.
// Whichever side's operation observes the other already waiting claims it
// under the Pass's mutex and, after releasing the mutex, performs the
// completion itself, through the waiting receiver's declared scheduler if
// it has one; the side that finds nobody waiting registers itself and is
// completed later by whoever arrives next. A stop request against an Async* operation's receiver
// cancels the wait (SetDone) if nobody has claimed it yet.
package pass
