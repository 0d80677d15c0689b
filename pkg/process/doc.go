// Package process answers two questions about OS processes: whether a pid
// is currently running, and which ancestor of the current process stands for
// the long-lived host session.
//
// On POSIX systems the parent pid is authoritative. On Windows hooks reach
// the registry through launcher layers (py.exe, bash.exe, ...), so the
// ancestry is walked over a [Snapshot] of the process table. The walk itself
// is pure and operates on whatever snapshot it is given.
package process
