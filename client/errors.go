package client

import "errors"

// ErrNilTransport is returned by NewClient without a transport.
var ErrNilTransport = errors.New("client requires a transport")
