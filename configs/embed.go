// Package configs provides embedded configuration templates for amanalign.
//
// Templates are embedded at build time so `amanalign config init` works from
// any distribution. Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config ($XDG_CONFIG_HOME/amanalign/config.yaml)
//  3. Project config (.amanalign.yaml)
//  4. Environment variables (AMANALIGN_*)
//  5. Command-line flags
package configs

import _ "embed"

// UserConfigTemplate is the template for user/machine-level configuration.
// Created by: `amanalign config init`.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is the template for a per-directory .amanalign.yaml.
// Created by: `amanalign config init --project`.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
