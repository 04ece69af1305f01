// Package calibration defines the view types the geometry daemon exchanges
// with its clients. It contains:
//
//   - Status: the geometry together with its validity, returned by the
//     geometry endpoints and rendered by the CLI
//   - FieldStatus: one named field of that view
//
// These types are shared across daemon and client code to avoid duplicate
// definitions and keep JSON contracts consistent.
package calibration
