// Package naming decides where files go: the dated output folder for
// successful conversions, output file names, and collision-safe quarantine
// paths for failures. It also owns the small filesystem helpers that put
// files there (atomic writes and cross-device moves).
package naming
