//go:build js && wasm

// Command wasm exposes the swerve simulator to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	runSimulation(yamlString) -> jsonString
//
// The input is a YAML-encoded motion plan and the output is the JSON-encoded
// SimulationLog, matching the same contract used by the CLI.
package main

import (
	"syscall/js"

	"github.com/edaniels/golog"

	"github.com/pvandervelde/basic-swerve-sim/internal/engine"
)

var logger = golog.NewDevelopmentLogger("swerve-sim-wasm")

func main() {
	js.Global().Set("runSimulation", js.FuncOf(runSimulation))
	select {} // keep the WASM module alive until the page is closed
}

func runSimulation(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	result, err := engine.RunYAML(args[0].String(), logger)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
