// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the console's configuration.
//
// Configuration comes from built-in defaults, optionally overlaid by a
// YAML file named with --config, and finally by command-line flags the
// operator set explicitly. There is no automatic discovery of config
// files: a console started without --config runs on defaults and flags
// alone.
//
// Example file:
//
//	renderer:
//	  host: render-box.local
//	  port: 3000
//	log:
//	  level: debug
//	  output: ${HOME}/.cache/remote-ui/console.jsonl
//	menu:
//	  path: ${HOME}/models/nif-paths.json
//	export:
//	  directory: ${HOME}/captures
//	  compress: true
package config
