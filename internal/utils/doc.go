// Package utils hosts shared infrastructure for the batchpr CLI: the zap
// logger factory and the viper-backed configuration loader.
package utils
