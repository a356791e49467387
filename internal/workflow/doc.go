// Package workflow is the state-transition authority for an order's lifecycle.
//
// It holds the static transition table, the proof upload transition, the
// derived list of actions exposed to users and the quick action mapping used
// by bulk operations. Everything here is a pure function of an order's status
// and revision count; persistence and side effects live in the use cases.
package workflow
