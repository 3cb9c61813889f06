// Package profiles registers the import profiles with the core registry.
// Import this package to ensure all profiles are registered.
package profiles

// This file exists to provide a single import point.
// Each profile file uses init() to register its profile.
