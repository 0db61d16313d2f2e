package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/confguard/pkg/commands"
)

// projectDir returns the optional <source_dir> argument
func projectDir(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newGuardCmd() *cobra.Command {
	var absolute bool

	cmd := &cobra.Command{
		Use:     "guard [source_dir]",
		Short:   MsgGuardShort,
		Long:    MsgGuardLong,
		Example: MsgGuardExample,
		GroupID: "project",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			log.Info().Str("source", projectDir(args)).Bool("absolute", absolute).Msg("Guarding project")

			view, err := commands.Guard(commands.GuardOptions{
				SourceDir: projectDir(args),
				Absolute:  absolute,
				Settings:  settings,
			})
			// A failed transaction still reports its rollback and warnings
			if view != nil {
				if renderErr := render(cmd, view); renderErr != nil && err == nil {
					err = renderErr
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&absolute, "absolute", false, MsgFlagAbsolute)
	return cmd
}

func newGuardOneCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "guard-one <source_dir> <path>",
		Short:   MsgGuardOneShort,
		Long:    MsgGuardOneLong,
		Example: MsgGuardOneExample,
		GroupID: "project",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			log.Info().Str("source", args[0]).Str("path", args[1]).Msg("Guarding one path")

			view, err := commands.GuardOne(commands.GuardOneOptions{
				SourceDir: args[0],
				Path:      args[1],
				Settings:  settings,
			})
			// Rejected paths leave nothing to report
			if view != nil && (err == nil || view.RolledBack) {
				if renderErr := render(cmd, view); renderErr != nil && err == nil {
					err = renderErr
				}
			}
			return err
		},
	}
}

func newUnguardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "unguard [source_dir]",
		Short:   MsgUnguardShort,
		Long:    MsgUnguardLong,
		Example: MsgUnguardExample,
		GroupID: "project",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			log.Info().Str("source", projectDir(args)).Msg("Unguarding project")

			view, err := commands.Unguard(commands.UnguardOptions{
				SourceDir: projectDir(args),
				Settings:  settings,
			})
			if view != nil {
				if renderErr := render(cmd, view); renderErr != nil && err == nil {
					err = renderErr
				}
			}
			return err
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show [source_dir]",
		Short:   MsgShowShort,
		Long:    MsgShowLong,
		Example: MsgShowExample,
		GroupID: "project",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			view, err := commands.Show(commands.ShowOptions{
				SourceDir: projectDir(args),
				Settings:  settings,
			})
			if err != nil {
				return err
			}
			return render(cmd, view)
		},
	}
}

func newInitCmd() *cobra.Command {
	var targets []string

	cmd := &cobra.Command{
		Use:     "init [source_dir]",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "project",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			view, err := commands.Init(commands.InitOptions{
				SourceDir: projectDir(args),
				Targets:   targets,
				Settings:  settings,
			})
			if err != nil {
				return err
			}
			return render(cmd, view)
		},
	}

	cmd.Flags().StringArrayVarP(&targets, "target", "t", nil, MsgFlagTarget)
	return cmd
}

func newRelinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "relink [source_dir]",
		Short:   MsgRelinkShort,
		Long:    MsgRelinkLong,
		GroupID: "project",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			view, err := commands.Relink(commands.RelinkOptions{
				SourceDir: projectDir(args),
				Settings:  settings,
			})
			if err != nil {
				return err
			}
			return render(cmd, view)
		},
	}
}

func newReplaceLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "replace-link <link>",
		Short:   MsgReplaceLinkShort,
		Long:    MsgReplaceLinkLong,
		GroupID: "project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := commands.ReplaceLink(commands.ReplaceLinkOptions{Link: args[0]})
			if err != nil {
				return err
			}
			return render(cmd, view)
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Short:   MsgInfoShort,
		Long:    MsgInfoLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			view, err := commands.Info(commands.InfoOptions{Settings: settings})
			if err != nil {
				return err
			}
			return render(cmd, view)
		},
	}
}
