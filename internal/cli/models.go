// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/morganforge/ollama-tui/internal/config"
	"github.com/morganforge/ollama-tui/internal/ollama"
)

// HandleModels prints the installed models as a table, in server order.
func HandleModels(cfg *config.Config, args *ArgParser) int {
	client := ollama.New(ollama.Config{
		BaseURL: args.FlagOrDefault("url", cfg.Server.URL),
		Timeout: cfg.Timeout(),
	})

	models, err := client.ListModels(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, warningStyle.Render("failed to list models: "+err.Error()))
		return 1
	}
	if len(models) == 0 {
		fmt.Println("no models installed - try: ollama pull llama3")
		return 0
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFAMILY\tPARAMS\tQUANT\tSIZE")
	for _, m := range models {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.Name,
			m.Details.Family,
			m.Details.ParameterSize,
			m.Details.QuantizationLevel,
			ollama.FormatSize(m.Size),
		)
	}
	w.Flush()
	return 0
}
