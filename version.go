package treadle

// Version is the library version, overridable at build time with
// -ldflags "-X github.com/aretw0/treadle.Version=...".
var Version = "0.1.0-dev"
