package cmd

import (
	"fmt"

	"github.com/KostasZigo/gitodb/internal/errdefs"
	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/spf13/cobra"
)

var catFileCmd = &cobra.Command{
	Use:   "cat-file [-p | -t | -s] <object>",
	Short: "Provide content, type or size of a stored object",
	Long: `Read an object from the object database and print it.

Without a flag the raw content is written unchanged. -p pretty prints:
blobs are written as-is and trees are listed like ls-tree. -t prints the
object type and -s its content size in bytes.`,
	SilenceUsage: true,
	Args:         exactArgs(1, "object"),
	RunE:         runCatFile,
}

var (
	prettyFlag   bool
	typeOnlyFlag bool
	sizeOnlyFlag bool
)

func init() {
	rootCmd.AddCommand(catFileCmd)

	catFileCmd.Flags().BoolVarP(&prettyFlag, "pretty", "p", false, "Pretty-print the object content")
	catFileCmd.Flags().BoolVarP(&typeOnlyFlag, "type", "t", false, "Show the object type")
	catFileCmd.Flags().BoolVarP(&sizeOnlyFlag, "size", "s", false, "Show the object size")
}

func runCatFile(cmd *cobra.Command, args []string) error {
	if countSet(prettyFlag, typeOnlyFlag, sizeOnlyFlag) > 1 {
		cmd.SilenceUsage = false
		return fmt.Errorf("%w: options -p, -t and -s are mutually exclusive", errdefs.ErrUsage)
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	store, err := s.openStore()
	if err != nil {
		return err
	}

	hash := args[0]
	out := cmd.OutOrStdout()

	switch {
	case typeOnlyFlag:
		objectType, _, err := store.Read(hash)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, objectType)

	case sizeOnlyFlag:
		_, content, err := store.Read(hash)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, len(content))

	case prettyFlag:
		objectType, content, err := store.Read(hash)
		if err != nil {
			return err
		}
		if objectType == objects.TreeObjectType {
			entries, err := objects.ParseTree(content)
			if err != nil {
				return fmt.Errorf("object %s: %w", hash, err)
			}
			return writeTreeListing(out, entries, false)
		}
		_, err = out.Write(content)
		return err

	default:
		content, err := store.ReadRaw(hash)
		if err != nil {
			return err
		}
		_, err = out.Write(content)
		return err
	}

	return nil
}

func countSet(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
