package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arya-labs/aryamail/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aryamaild",
		Short: "Arya mail daemon and CLI",
		Long:  "Arya daemon for answering support emails from a scraped FAQ knowledge base",
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.BuildKBCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
