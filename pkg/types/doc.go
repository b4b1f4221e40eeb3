// Package types defines the questionnaire domain: roles, Likert tokens,
// instruments, the response collector, the directory capability contracts,
// and the standard error values shared by the store, the session
// controller, and the front ends.
package types
