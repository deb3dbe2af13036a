// Package cli assembles the batchpr command-line application: the cobra root
// command, the viper-backed configuration loader, and the zap logger shared by
// every subcommand.
package cli
