//go:build !nocasm

package program

// CompiledClassSupported reports whether FromCompiledClass is available.
const CompiledClassSupported = true
