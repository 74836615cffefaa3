// Package config provides configuration management for the puzzle
// server.
//
// Configurations are JSON files in a config directory. Each names a
// level set: levels may be embedded as text under "levels" or referenced
// as files under "level_files" (paths relative to the config directory).
// Level content itself uses the plain-text level format parsed by the
// engine package.
//
// The Manager caches parsed configurations, resolves the default
// configuration (campaign.json when present), and can write
// configurations back to disk with levels embedded.
package config
