// Package api is the collaborator surface of the catalog. Service wraps the
// collection coordinator with the calls the UI makes, and this package
// defines the wire types those calls exchange.
//
// # Key Types
//
// Game: transport representation of a record, including the derived
// screenshot_data and display_link fields.
//
// GameInput: the field set accepted by create and update. Rating accepts a
// number, a numeric string, or null.
//
// Statistics: total and per-status counts.
//
// # Design Notes
//
// JSON keys use snake_case to match the stored column names the UI already
// consumes. Service methods never return errors: failures are logged and
// surface as empty, false, or zero results.
package api
