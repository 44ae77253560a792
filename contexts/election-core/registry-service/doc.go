// Package registryservice owns the write side of the election catalog:
// positions and their candidates, including candidate image storage. The
// ballot module reads these records as projections; this module is the only
// writer.
package registryservice
