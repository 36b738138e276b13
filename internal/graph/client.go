package graph

import (
	"context"
	"errors"
)

// Client is the minimal contract the repository needs to talk to the graph
// database holding homeowners, snags and shares.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")

// ErrOutcomeUnknown marks a write whose commit outcome could not be
// determined: the statement was dispatched but the connection was lost before
// the driver observed the result. Callers needing all-or-nothing semantics
// must treat such failures as possibly applied.
var ErrOutcomeUnknown = errors.New("write outcome unknown")
