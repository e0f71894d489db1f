// Package urls provides centralized constants for the URLs used throughout the
// application: the default backend root and the documentation pages printed in hints.
//
// Usage:
//
//	import "github.com/Cgriz365/inkbridge/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.Troubleshooting)
package urls
