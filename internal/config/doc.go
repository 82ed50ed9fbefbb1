// Package config resolves the tool's runtime settings from multiple sources
// (YAML settings file, environment variables, CLI flags) with precedence:
// CLI flags > YAML settings > Environment variables > Defaults. Settings
// select which declaration files are loaded and how; the declaration files
// themselves are parsed by the loader package.
package config
