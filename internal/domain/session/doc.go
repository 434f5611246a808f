// Package session is the top-level state machine for launch and close
// requests.
//
// A launch targeting an application that is not running spawns it directly.
// A launch targeting a running application opens a confirmation session:
// the user is told it is already running, offered a focus switch when
// window management is available, then offered a second instance. Each
// yes/no question retries up to five times on non-answers and falls through
// to the default action when the budget is exhausted, so the machine cannot
// hang on silence. Close attempts a graceful window close first and falls
// back to process termination.
package session
