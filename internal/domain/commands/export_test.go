package commands

// InWorkspace exports inWorkspace for testing.
var InWorkspace = inWorkspace //nolint:gochecknoglobals // test export
