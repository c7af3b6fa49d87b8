package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to config.yaml",
	RunE: func(_ *cobra.Command, _ []string) error {
		if _, err := os.Stat("config.yaml"); err == nil {
			return eris.New("config.yaml already exists, refusing to overwrite")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "config init: marshal")
		}
		if err := os.WriteFile("config.yaml", data, 0644); err != nil {
			return eris.Wrap(err, "config init: write")
		}

		fmt.Println("wrote config.yaml")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(_ *cobra.Command, _ []string) error {
		c := *cfg
		if c.LLM.Key != "" {
			c.LLM.Key = "[redacted]"
		}
		data, err := yaml.Marshal(c)
		if err != nil {
			return eris.Wrap(err, "config show")
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
