package cmd

import (
	"path/filepath"

	"github.com/KostasZigo/gitodb/internal/compression"
	"github.com/KostasZigo/gitodb/internal/config"
	"github.com/KostasZigo/gitodb/internal/logger"
	"github.com/KostasZigo/gitodb/internal/objects"
	"github.com/KostasZigo/gitodb/internal/repository"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// session carries the settings and logger of a single command run.
type session struct {
	cfg config.Config
	log *zap.Logger
}

func newSession() (*session, error) {
	if configErr != nil {
		return nil, configErr
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, log: log}, nil
}

// startDir is the directory repository discovery and init start from.
func (s *session) startDir() string {
	if s.cfg.WorkDir != "" {
		return s.cfg.WorkDir
	}
	return "."
}

// resolvePath interprets a relative command argument against the work directory.
func (s *session) resolvePath(path string) string {
	if s.cfg.WorkDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.cfg.WorkDir, path)
}

// openStore locates the enclosing repository and opens its object store.
func (s *session) openStore() (*objects.ObjectStore, error) {
	gitDir, err := repository.Locate(s.startDir())
	if err != nil {
		return nil, err
	}

	compressor, err := compression.NewZlib(s.cfg.CompressionLevel)
	if err != nil {
		return nil, err
	}

	s.log.Debug("opened repository",
		zap.String("root", repository.Root(gitDir)),
		zap.Int("compression_level", s.cfg.CompressionLevel),
		zap.Int("cache_size", s.cfg.CacheSize))

	return objects.NewObjectStore(gitDir,
		objects.WithCompressor(compressor),
		objects.WithLogger(s.log),
		objects.WithCacheSize(s.cfg.CacheSize),
	), nil
}

func (s *session) close() {
	// Sync on a console stderr may report EINVAL; nothing is buffered there.
	_ = s.log.Sync()
}
