// Package process enumerates live processes and matches them to resolved
// applications.
//
// Matching runs the fuzzy matcher over executable basenames with the fixed
// process-name bar. Candidates are ordered most-recently-launched first, so
// "the" instance of an application with several processes is the newest
// one. Zombie processes are never matched. Termination failures are
// per-process and non-fatal.
package process
