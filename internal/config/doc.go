// Package config defines installer settings used by the nupack CLI and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the install root, the packages folder and the
// console log level.
package config
