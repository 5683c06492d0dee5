// Package records provides reference record lookups backed by TOML files,
// with an optional in-memory cache in front.
//
// Records live under a directory per kind:
//
//	<dir>/catalog/<id>.toml
//	<dir>/comms_plan/<id>.toml
//	<dir>/rezoning_submittal/<id>.toml
//
// Each file is a flat table of fields, for example:
//
//	name = "Parks Master Plan"
//	department = "Recreation"
package records
