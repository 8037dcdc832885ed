// Package engine contains the simulation driver and its subsystems.
// This is the heartbeat of the mine: production, transport and sale advance here.
//
// ARCHITECTURAL RULE: only the Engine mutates the economy state. Everything
// else reads snapshots or issues commands through the Engine's methods.
package engine
