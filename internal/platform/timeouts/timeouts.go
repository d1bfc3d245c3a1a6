// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the bridge daemon.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single bridge daemon request.
const GRPCRequest = 2 * time.Second

// TelemetryShutdown limits how long span export may take on exit.
const TelemetryShutdown = 5 * time.Second

// CallbackPump is the default interval between vendor callback dispatches.
// The vendor recommends pumping at least a few times per second.
const CallbackPump = 100 * time.Millisecond

// SessionShutdown bounds the wait for the session thread to release the
// vendor session on exit.
const SessionShutdown = 2 * time.Second
