package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/investo/internal/profile"
	"github.com/wonny/investo/pkg/config"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the effective analysis profile",
	Long: `Loads the analysis profile (--path, else --profile, else $ANALYSIS_PROFILE,
else the built-in defaults), validates it and prints it as YAML with its hash.

Example:
  go run ./cmd/investo profile
  go run ./cmd/investo profile --path config/profiles/aggressive.yaml`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

var profileFile string

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVar(&profileFile, "path", "", "profile YAML to load")
}

func runProfile(cmd *cobra.Command, args []string) error {
	path := profileFile
	if path == "" {
		path = profilePath
	}
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.ProfilePath
	}

	p, err := profile.Load(path)
	if err != nil {
		return err
	}
	hash, err := profile.Hash(p)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	out := cmd.OutOrStdout()
	source := path
	if source == "" {
		source = "built-in defaults"
	}
	fmt.Fprintf(out, "# source: %s\n# hash:   %s\n", source, hash)
	_, err = out.Write(data)
	return err
}
