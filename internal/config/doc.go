// Package config loads, normalizes, and validates medialib configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MEDIALIB_API_TOKEN. A single Config value is built at startup and handed to
// the store, dispatcher, fetcher and daemon; nothing reads settings from
// package-level state.
package config
