package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object [-w] [--stdin] <file>...",
	Short: "Compute object hash and optionally store a blob from a file",
	Long: `Compute the object identifier (SHA-1 of the canonical encoding) of each file's content.
Optionally write the resulting blobs into the object database.
Identifiers are printed one per line in argument order; with --stdin the
identifier of standard input comes first.

Examples:
  # Compute hash without storing
  gitodb hash-object myfile.txt

  # Compute hashes and store in .git/objects
  gitodb hash-object -w a.txt b.txt

  # Hash standard input
  echo hello | gitodb hash-object --stdin`,
	SilenceUsage: true,
	Args:         hashObjectArgs,
	RunE:         runHashObject,
}

var (
	writeFlag bool
	stdinFlag bool
)

func init() {
	rootCmd.AddCommand(hashObjectCmd)

	hashObjectCmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "Write the object into the object database")
	hashObjectCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read the object from standard input")
}

// hashObjectArgs requires at least one path unless standard input is hashed.
func hashObjectArgs(cmd *cobra.Command, args []string) error {
	if stdinFlag {
		return nil
	}
	return minimumArgs(1, "filepath")(cmd, args)
}

// runHashObject computes hashes and optionally stores blob objects.
func runHashObject(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	// Resolve the repository before hashing so -w outside a repository fails early
	var store *objects.ObjectStore
	if writeFlag {
		if store, err = s.openStore(); err != nil {
			return err
		}
	}

	var hashes []string

	if stdinFlag {
		blob, err := objects.NewBlobFromReader(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read standard input: %w", err)
		}
		if err := storeBlob(store, blob); err != nil {
			return err
		}
		hashes = append(hashes, blob.Hash())
	}

	paths := make([]string, len(args))
	for i, arg := range args {
		paths[i] = s.resolvePath(arg)
	}

	fileHashes, err := hashFiles(commandContext(cmd), paths, store, s.log)
	if err != nil {
		return err
	}
	hashes = append(hashes, fileHashes...)

	out := cmd.OutOrStdout()
	for _, hash := range hashes {
		fmt.Fprintln(out, hash)
	}

	return nil
}

// hashFiles hashes paths concurrently and returns identifiers in argument order.
// When store is non-nil every blob is also written.
func hashFiles(ctx context.Context, paths []string, store *objects.ObjectStore, log *zap.Logger) ([]string, error) {
	hashes := make([]string, len(paths))

	p := pool.New().
		WithMaxGoroutines(runtime.GOMAXPROCS(0)).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			blob, err := objects.NewBlobFromFile(path)
			if err != nil {
				return err
			}
			if err := storeBlob(store, blob); err != nil {
				return err
			}

			log.Debug("hashed file", zap.String("path", path), zap.String("hash", blob.Hash()))
			hashes[i] = blob.Hash()
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}

	return hashes, nil
}

func storeBlob(store *objects.ObjectStore, blob *objects.Blob) error {
	if store == nil {
		return nil
	}
	if err := store.Store(blob); err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
