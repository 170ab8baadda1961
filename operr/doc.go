// Package operr tags errors observed by a Receiver's SetError with the
// identity of the operation (and, where applicable, the scope) that
// produced them, so that application code can errors.As its way back to a
// specific spawned operation among many concurrent ones.
package operr
