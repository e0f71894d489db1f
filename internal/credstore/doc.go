// Package credstore provides durable key/value persistence for device identity and secrets.
//
// Every record lives under a single namespace ("dev_conf") and is a plain string. A record
// that was never written is reported as absent, which is distinct from a stored empty
// string. FactoryReset erases the whole namespace.
//
// # Backends
//
// The backend is chosen by a location URI:
//   - file:///var/lib/inkbridge/credentials.yaml - YAML document, atomic writes
//   - sqlite:///var/lib/inkbridge/credentials.db - SQLite table kv(namespace, key, value)
//   - memory:// - in-process map (tests, ephemeral devices)
//
// # Usage Example
//
//	store, err := credstore.Open("file:///var/lib/inkbridge/credentials.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.Init(); err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = store.Save(credstore.KeyAPIKey, "k1")
//	key, ok := store.Load(credstore.KeyAPIKey)
//
// # Failure Semantics
//
// Each operation opens, writes and closes its backing resource. When the storage cannot be
// opened, Load reports absent and Save skips the write and returns the error. Callers must
// not assume persistence succeeded and should treat absent exactly like empty.
package credstore
