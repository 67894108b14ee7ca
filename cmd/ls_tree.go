package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/spf13/cobra"
)

var lsTreeCmd = &cobra.Command{
	Use:   "ls-tree [--name-only] <tree>",
	Short: "List the contents of a tree object",
	Long: `List the entries of a tree object in stored order.
Each line has the form "<mode> <type> <object>\t<name>" where mode is
zero padded to six digits and type is derived from the mode.`,
	SilenceUsage: true,
	Args:         exactArgs(1, "tree"),
	RunE:         runLsTree,
}

var nameOnlyFlag bool

func init() {
	rootCmd.AddCommand(lsTreeCmd)

	lsTreeCmd.Flags().BoolVar(&nameOnlyFlag, "name-only", false, "List only entry names")
}

func runLsTree(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	store, err := s.openStore()
	if err != nil {
		return err
	}

	tree, err := store.ReadTree(args[0])
	if err != nil {
		return err
	}

	return writeTreeListing(cmd.OutOrStdout(), tree.Entries(), nameOnlyFlag)
}

// writeTreeListing prints one line per entry, keeping the given order.
func writeTreeListing(w io.Writer, entries []objects.TreeEntry, nameOnly bool) error {
	bw := bufio.NewWriter(w)

	for _, entry := range entries {
		if nameOnly {
			fmt.Fprintln(bw, entry.Name())
			continue
		}
		fmt.Fprintf(bw, "%s %s %s\t%s\n", entry.Mode().Padded(), entry.Mode().ObjectType(), entry.Hash(), entry.Name())
	}

	return bw.Flush()
}
