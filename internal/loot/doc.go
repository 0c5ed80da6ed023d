// Package loot resolves randomness into tree drops.
//
// The package is pure: every function is deterministic with respect to its
// explicit inputs. Probability tables are injected configuration, validated
// at load time, and versioned so a host can replace them at runtime without
// touching resolution code. Replaying the same entropy and batch index always
// reproduces the same drop; there is no way to re-roll a past outcome.
package loot
