package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "clubd",
	Short: "clubd — club management backend",
	Long:  "clubd is the backend for a club management site: member roster, events, news with comments and likes, announcements, gallery, leadership, resources, reports, contact messages, and an admin area with role-based access.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/clubd.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
