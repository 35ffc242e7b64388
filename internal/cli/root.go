package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute parses the command line and runs the search.
// Exits with 0 when a match was found, 1 when not, 2 on error.
func Execute() {
	var (
		cfg      Config
		patterns []string
		color    string
	)

	rootCmd := &cobra.Command{
		Use:   "hypergrep [flags] PATTERN [PATH ...]",
		Short: "Chunked multi-pattern search over large (optionally gzipped) text files",
		Long: `hypergrep scans files in bounded chunks through a set of compiled PCRE2
patterns and reports each matched line once, with correct line numbers, no
matter how chunk boundaries fall. Gzip files are searched transparently.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Patterns = patterns
			if len(cfg.Patterns) == 0 {
				if len(args) == 0 {
					return fmt.Errorf("no pattern specified")
				}
				cfg.Patterns = args[:1]
				args = args[1:]
			}
			cfg.Paths = args

			mode, err := ParseColorMode(color)
			if err != nil {
				return err
			}
			cfg.Color = mode

			fileCfg, err := LoadFileConfig()
			if err != nil {
				return err
			}
			if err := fileCfg.Apply(&cfg, cmd.Flags().Changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			os.Exit(Run(cfg))
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringArrayVarP(&patterns, "regexp", "e", nil, "pattern to search for (repeatable)")
	flags.BoolVarP(&cfg.IgnoreCase, "ignore-case", "i", false, "case insensitive matching")
	flags.BoolVarP(&cfg.LineNumbers, "line-number", "n", false, "prefix each line with its line number")
	flags.BoolVarP(&cfg.CountOnly, "count", "c", false, "print only a count of matching lines per file")
	flags.BoolVarP(&cfg.FileNamesOnly, "files-with-matches", "l", false, "print only names of files with matches")
	flags.BoolVarP(&cfg.Recursive, "recursive", "r", false, "search directories recursively")
	flags.BoolVar(&cfg.JSONOutput, "json", false, "emit results as JSON lines")
	flags.StringVar(&color, "color", "auto", "when to use color: auto, always, never")
	flags.IntVar(&cfg.Workers, "workers", 0, "parallel file scans (0 = NumCPU)")
	flags.IntVar(&cfg.ChunkSize, "chunk-size", 0, "scan window size in bytes (0 = default)")
	flags.BoolVar(&cfg.NoIgnore, "no-ignore", false, "do not honor .gitignore files")
	flags.BoolVar(&cfg.Hidden, "hidden", false, "search hidden files and directories")
	flags.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hypergrep:", err)
		os.Exit(2)
	}
}
