// Package exec speaks text through an external text-to-speech command.
//
// Each utterance runs as its own process group so cancelling it also stops
// any helpers the command spawned.
package exec
