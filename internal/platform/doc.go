// Package platform describes target variants: their static properties,
// the features they support and the readiness flags reported to the build
// pipeline.
//
// A variant is a plain value. Behaviour that differs between a dedicated
// server, a client-only build and an editor-data build branches on the
// fields of Properties.
//
// Usage:
//
//	for _, v := range platform.Variants("Linux", platform.OSLinux) {
//	    fmt.Println(v.Name(), v.DisplayName())
//	}
package platform
