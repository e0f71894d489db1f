// Package bridge is the device-side bootstrap-and-request engine.
//
// A Bridge owns the device identity (device id, uid, friendly name) and credentials
// (API key, API base URL). Begin loads them from a credstore.Store, derives the device
// id from the network hardware address on first boot and registers an unregistered
// device with the backend:
//
//	b := bridge.New(bridge.Options{Store: store})
//	ok, err := b.Begin(ctx)
//	if err != nil {
//	    fmt.Println(bridge.ShortMessage(err))
//	    fmt.Println(bridge.Hint(err))
//	}
//
// # Requests
//
// Every call goes through Transport, which never returns a Go error. The result is a
// Response whose Outcome classifies what happened:
//
//	OK                 2xx/3xx with a JSON body
//	HTTP_ERROR_<code>  status >= 400, body parsed best effort
//	JSON_PARSE_ERROR   success status, body not JSON
//	TRANSPORT_ERROR    no status after every attempt
//	WIFI_DISCONNECTED  network down, nothing sent
//	ALLOCATION_ERROR   body over the size limit
//	CONNECT_FAILED     request could not be built
//
// Only transport-level failures are retried: an attempt that yields any HTTP status,
// including an error status, ends the loop.
//
// # Resource Cache
//
// Cache keeps one slot per resource Kind. GetOrFetch fetches only when the slot is
// empty and stores whatever comes back, so by default a failed response with a body
// stays cached for the session. CachePolicy.RefetchFailures changes that; Invalidate
// and Clear empty slots explicitly.
//
// # Projections
//
// Lookup, ByKey, ByIndex and FindBy walk parsed JSON; String, Float, Int, Bool and Len
// read the value found. None of them panic: a missing field reads as the zero value.
package bridge
