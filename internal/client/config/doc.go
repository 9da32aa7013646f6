// Package config loads runtime configuration for the ProtoDrive CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c / -config, or the
//     PROTODRIVE_CONFIG environment variable when no flag is given.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the storage service
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "30s" or integer nanoseconds. Absent keys keep their
// current value:
//
//	{
//	  "server_base_url": "http://localhost:3001/",
//	  "request_timeout": "30s",
//	  "log_level": "info"
//	}
package config
