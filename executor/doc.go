// Package executor provides a memory-budget-aware parallel task runner.
//
// Callers enqueue (task, estimated peak cost) pairs and drain them with a
// single blocking ExecTasks call. Admission control keeps the summed cost
// of concurrently running tasks within a configured budget, preventing a
// burst of expensive per-feature jobs from blowing past the process's RAM
// ceiling.
package executor
