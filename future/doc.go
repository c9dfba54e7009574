// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package future provides hand-expanded state machines that implement
// api.Computation.
//
// Each suspension point of a sequential "do A, wait, do B, wait" routine is
// one phase of an explicit machine. Phases only move forward:
//
//	Start -> Waiting(1) -> Waiting(2) -> ... -> Resolved
//
// A Waiting phase owns the nested computation it is waiting on. Driving the
// outer machine drives the nested one and advances only when the nested one
// is done. Driving a machine after it resolved panics with
// api.ErrAlreadyResolved.
//
// Computations that keep a position inside a buffer they own do so with a
// Cursor, which stores an offset instead of an address. Recomputing the
// slice at the point of use keeps the position valid however often the
// value holding it is copied or moved.
package future
