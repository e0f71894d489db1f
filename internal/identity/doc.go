// Package identity derives and persists the device's stable identifier.
//
// The device id is the network hardware address with separators removed and letters
// upper-cased, so AA:BB:CC:11:22:33 becomes AABBCC112233. It is derived once, the first
// time the device has connectivity, and persisted through a credstore.Store. Later boots
// take the fast path and never touch the network.
//
// Network readiness and the hardware address come from a Network. SystemNetwork reads
// the host's interfaces; StaticNetwork serves tests and fixed setups.
package identity
