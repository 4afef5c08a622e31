// =============================================================================
// CSV to IIF Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   converter process       - Convert every journal export in the input directory
//   converter validate      - Check inputs and configuration without writing output
//   converter version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : the conversion pipeline (config, parsers, validation, converter)
//   - pkg/       : the IIF transaction model, builders and document renderer
//   - configs/   : department-specific YAML configurations
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/CSV-to-IIF-conversion/cmd"
)

func main() {
	cmd.Execute()
}
