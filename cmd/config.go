package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/shiftsync/internal/config"
)

var remoteImportFile string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configRemoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Configure the remote store",
}

var configRemoteImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Read remote settings from a pasted JSON, YAML or key: \"value\" snippet",
	Args:  cobra.NoArgs,
	RunE:  runConfigRemoteImport,
}

func init() {
	configRemoteImportCmd.Flags().StringVar(&remoteImportFile, "file", "", "Read the snippet from this file instead of stdin")
	configRemoteCmd.AddCommand(configRemoteImportCmd)
	configCmd.AddCommand(configPathCmd, configShowCmd, configRemoteCmd)
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	p, err := config.DefaultPath()
	if err != nil {
		fail(2, err)
	}
	return p
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(resolvedConfigPath())
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	shown := *cfg
	if shown.Identity.ClientSecret != "" {
		shown.Identity.ClientSecret = "********"
	}
	if shown.Remote.Token != "" {
		shown.Remote.Token = "********"
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		fail(2, err)
	}
	os.Stdout.Write(data)
	return nil
}

func runConfigRemoteImport(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if remoteImportFile != "" {
		f, err := os.Open(remoteImportFile)
		if err != nil {
			fail(1, err)
		}
		defer f.Close()
		in = f
	}
	text, err := io.ReadAll(in)
	if err != nil {
		fail(2, err)
	}

	remote, err := config.ParseRemoteSnippet(string(text))
	if err != nil {
		fail(1, err)
	}

	cfg := loadConfig()
	cfg.Remote = remote
	if err := config.Save(resolvedConfigPath(), cfg); err != nil {
		fail(2, err)
	}
	fmt.Printf("Remote store set to %s (bucket %s)\n", remote.URL, remote.Bucket)
	return nil
}
