// Copyright (c) 2026
// Author: momentics <momentics@gmail.com>

// Package netutil isolates platform-specific socket options and sockaddr
// conversions behind one file per target platform. Protocol logic above
// this package never branches on the platform.
package netutil
