// Package workspace manages the output directory of preview builds.
//
// An ephemeral workspace is a fresh temporary directory removed on Cleanup.
// A persistent workspace is a caller-chosen directory that survives Cleanup,
// used when a preview should leave its output behind.
package workspace
