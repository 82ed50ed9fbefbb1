// Package application wires configuration settings, logging, the file loader,
// and the snapshot manager together, keeping the main package focused on CLI
// parsing and orchestration.
package application
