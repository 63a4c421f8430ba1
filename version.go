package lintrans

// Version is the version of the lintrans core, stamped into session files
// and reported by the CLI.
const Version = "0.3.0"
