// Package config loads and validates the Online School API configuration.
//
// Configuration comes from a YAML file with environment variable
// overrides (ONLINESCHOOL_*). Validation runs at load time so that fatal
// misconfiguration — most importantly a missing JWT signing key — stops
// the process at startup instead of failing every request.
package config
