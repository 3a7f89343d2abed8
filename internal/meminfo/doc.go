// Package meminfo reports the process's current resident set size.
//
// The value feeds the advisory memory budget of the task executor: it is a
// best-effort observation, not a guarantee, and callers must tolerate a zero
// result on platforms without a usable probe.
package meminfo
