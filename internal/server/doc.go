// Package server implements the local HTTP endpoint the implicit-grant
// redirect lands on.
//
// The provider returns the access credential in the location fragment,
// which never reaches the server in the request line. The callback page
// therefore runs a small script that reads the fragment, clears it from the
// visible location, and hands it to the process via a second request. The
// capture handler delivers the raw fragment exactly once over a channel.
package server
