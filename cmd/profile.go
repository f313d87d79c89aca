// cmd/profile.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/David-Botos/raw-to-ready/pkg/profile"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Save and inspect reusable cleaning profiles",
	}
	cmd.AddCommand(newProfileInitCmd(a), newProfileShowCmd())
	return cmd
}

func newProfileInitCmd(a *app) *cobra.Command {
	o := &cleanOptions{}
	var force bool

	cmd := &cobra.Command{
		Use:     "init <path>",
		Short:   "Write a profile from the given cleaning flags",
		Example: `  rawready profile init crm.yaml --missing fill_mode --remove-duplicates --fix-dates`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.cleaningConfig(cmd, o)
			if err != nil {
				return err
			}
			if err := profile.Save(args[0], cfg, force); err != nil {
				return err
			}
			a.logger.Info("Saved cleaning profile", zap.String("path", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote profile %s\n", args[0])
			return nil
		},
	}
	bindCleaningFlags(cmd.Flags(), o)
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing profile")
	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Print a profile with defaults filled in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := profile.Load(args[0])
			if err != nil {
				return err
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal profile: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
