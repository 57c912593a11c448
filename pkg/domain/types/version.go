package types

// Version is the porter build version, overridden via -ldflags at release time
var Version = "dev"
