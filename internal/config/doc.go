// Package config loads diffsquare configuration from local and global YAML
// files. Values are pointers so an unset key can be told apart from a zero
// value; the CLI layers flags over local over global.
package config
