// internal/version/version.go
package version

// Version is reported in the output header and in the @PG line of the
// filtered alignment output.
var Version = "1.2.0"
