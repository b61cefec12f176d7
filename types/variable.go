// Package types implements Subs, the union-find substitution table
// mapping type variables to Content. The machinery that copies a
// subset of it across a module boundary lives in the sibling storage
// package.
package types

// Variable is an opaque handle into a Subs. Go has no lifetime system
// to tie a Variable to the Subs that minted it, so callers must treat
// a Variable as meaningless outside the Subs it came from.
type Variable uint32
