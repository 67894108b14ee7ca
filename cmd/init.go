package cmd

import (
	"fmt"

	"github.com/KostasZigo/gitodb/internal/constants"
	"github.com/KostasZigo/gitodb/internal/repository"
	"github.com/KostasZigo/gitodb/utils"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create an empty repository",
	Long: `The 'init' command sets up a new repository in the current directory or in the given one.
It creates the .git directory with objects/, refs/heads/, refs/tags/ and a HEAD file
pointing at the configured default branch (default_branch, "main" unless configured).
If a repository already exists, the command will not overwrite existing data.`,
	SilenceUsage: true,
	Args:         maximumArgs(1),
	RunE:         runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// runInit executes repository initialization at specified or current directory.
func runInit(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	dirPath := s.startDir()
	if len(args) > 0 {
		dirPath = s.resolvePath(args[0])
	}

	if err := repository.InitRepository(dirPath, s.cfg.DefaultBranch, s.log); err != nil {
		return fmt.Errorf("failed to initialize repository - %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty Git repository in %s\n", utils.BuildDirPath(dirPath, constants.GitDir))
	return nil
}
