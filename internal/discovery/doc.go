// Package discovery provides mDNS-based discovery of InkBridge backend deployments.
//
// Alternate backends (a staging deployment, a self-hosted instance, or the mock
// backend) advertise themselves on the local network with the "_inkbridge._tcp"
// service type. A device that finds one can persist its base URL instead of the
// production default.
//
// # TXT Records
//
//   - scheme: "http" or "https" (default "https")
//   - path: API root path appended to host:port (default "")
//   - version: backend version string, informational
//
// # Usage Example
//
//	backends, err := discovery.ScanForBackends(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range backends {
//	    fmt.Printf("Found: %s at %s\n", b.Instance, b.BaseURL())
//	}
//
// # Advertising
//
//	server, err := discovery.Advertise("dev-backend", 8443, map[string]string{
//	    "scheme": "https",
//	    "path":   "/api",
//	})
//	defer server.Shutdown()
//
// # Network Requirements
//
// mDNS uses multicast UDP on port 5353; browsing may find nothing on networks that
// filter multicast.
package discovery
