// Package config loads typed configuration structs from environment
// variables (with optional .env file support for local development).
// Each struct type is parsed once per process and cached, so authorization
// settings such as the demo-mode indicator cannot drift between packages
// during a request.
package config
