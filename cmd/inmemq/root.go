package main

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/config"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/repository"
	"github.com/krew-solutions/ascetic-inmemory-go/inmemory/storage"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	itemsPath  string
	configPath string
	logLevel   string
	where      []string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:          "inmemq",
		Short:        "Query and edit YAML item files with an in-memory repository",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.itemsPath, "items", "i", "", "YAML items file")
	flags.StringVar(&opts.configPath, "config", "", "repository config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides the config file)")
	flags.StringArrayVarP(&opts.where, "where", "w", nil, "condition such as k=1, k!=1, k>1, k>=1, k<1, k<=1 (repeatable)")
	_ = rootCmd.MarkPersistentFlagRequired("items")

	rootCmd.AddCommand(
		newFindCmd(opts),
		newUpdateCmd(opts),
		newRemoveCmd(opts),
	)
	return rootCmd
}

// session is the state a subcommand works on.
type session struct {
	cfg      *config.Config
	repo     *repository.DataRepository
	store    *storage.ArrayStorage
	file     *itemsFile
	criteria []string
	logger   *log.Logger
}

func openSession(opts *globalOptions, stderr io.Writer) (*session, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if cfg.Log.Prefix == "" {
		cfg.Log.Prefix = "inmemq"
	}
	logger := cfg.Logger(stderr)

	file, err := readItemsFile(opts.itemsPath)
	if err != nil {
		return nil, err
	}

	store := storage.NewArrayStorage()
	repo, err := repository.NewBuilder().
		FromConfig(cfg).
		SetDataStorage(store).
		AddPropertyAccessor(copyOnWriteMapAccessor{}).
		SetLogger(logger).
		Build()
	if err != nil {
		return nil, errors.Wrap(err, "build repository")
	}
	file.load(repo)
	logger.Debug("items loaded", "path", opts.itemsPath, "count", len(repo.GetAllItems()))

	return &session{cfg: cfg, repo: repo, store: store, file: file, criteria: opts.where, logger: logger}, nil
}
