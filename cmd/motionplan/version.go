package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/motionplan"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of motionplan",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("motionplan version %s\n", strings.TrimSpace(motionplan.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
