// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the socket readiness primitive behind the
// udpev event loop: register bound descriptors under an application
// name, then wait for readability bounded by the loop's next deadline.
package reactor
