// Package config parses environment variables into typed structs.
//
// A .env file in the working directory is loaded once per process before
// the first parse; missing files are fine. Each struct type is parsed once
// and cached, so repeated Load calls for the same type are cheap and
// always agree.
package config
