// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The two report surfaces live here: DraftController (controls) and
// ReportEditor (content). They share nothing but the bus.
package services
