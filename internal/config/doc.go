// Package config handles configuration loading for the minilist binaries.
//
// Configuration is loaded from YAML files with environment variable
// expansion. Both variants read the same file shape; the cloud variant
// additionally requires the service section.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from MINILIST_CONFIG environment variable
//  2. ~/.config/minilist/minilist.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	service:
//	  api_key: "${MINILIST_API_KEY}"
//
// # Configuration Sections
//
// Server and store:
//
//	server:
//	  http_addr: "localhost:8344"
//	database:
//	  path: "~/.local/share/minilist/minilist.db"
//
// Hosted service (cloud variant only, both fields required there):
//
//	service:
//	  url: "https://xyzcompany.supabase.co"
//	  api_key: "${MINILIST_API_KEY}"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates the shared fields; the cloud variant calls
// ValidateService() as well and treats a failure as fatal before any
// network call is attempted.
package config
