// Package model holds the observable data models behind geometry calibration.
//
//   - Signal: a synchronous list of change handlers, with batching
//   - Scalar: one optional float64 that fires Changed when it is modified
//   - Geometry: the seven detector geometry parameters, re-broadcasting any
//     child change as a single aggregate Changed notification
//
// Nothing in this package is safe for concurrent use. Hosts sharing a model
// between goroutines must serialize access themselves.
package model
