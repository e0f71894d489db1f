// Package mockbackend is an in-process fake of the InkBridge backend.
//
// It serves the registration resource and every domain endpoint with canned JSON,
// enforcing the same identity headers the real backend checks. Tests point a bridge
// at an httptest server wrapping Handler; cmd/inkbridge-mock serves it on a port and
// can advertise it over mDNS.
//
// Registration issues random credentials (UUIDs) and remembers them per device id, so
// a device registering twice receives the same API key.
//
// Hooks for tests:
//
//	srv := mockbackend.New(mockbackend.Config{})
//	srv.ForceStatus("/weather", http.StatusNotFound)
//	srv.SetRejectRegistration(true, "device not linked")
//	hits := srv.Hits("/setup")
package mockbackend
