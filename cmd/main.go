package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"QuickFindr/internal"
)

func main() {
	app := &cli.App{
		Name:      "quickfindr",
		Usage:     "Find files by name or content under a directory tree",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Directory to search under",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:    "case-sensitive",
				Aliases: []string{"c"},
				Usage:   "Match case exactly",
			},
			&cli.BoolFlag{
				Name:    "regex",
				Aliases: []string{"e"},
				Usage:   "Treat the query as a regular expression",
			},
			&cli.BoolFlag{
				Name:    "content",
				Aliases: []string{"s"},
				Usage:   "Also search file contents, line by line",
			},
			&cli.BoolFlag{
				Name:    "gitignore",
				Aliases: []string{"g"},
				Usage:   "Honor the root .gitignore",
			},
			&cli.StringFlag{
				Name:    "exclude",
				Aliases: []string{"x"},
				Usage:   "Extensions to exclude (comma separated, e.g. 'exe,dll,.jpg')",
			},
			&cli.BoolFlag{
				Name:    "archives",
				Aliases: []string{"a"},
				Usage:   "Also search inside archives (.zip, .tar, .gz, ...)",
			},
			&cli.IntFlag{
				Name:    "threads",
				Aliases: []string{"t"},
				Usage:   "Worker pool size (default: number of CPUs)",
			},
			&cli.BoolFlag{
				Name:  "no-input",
				Usage: "Print every result instead of paging interactively",
			},
			&cli.StringFlag{
				Name:  "logfile",
				Usage: "Write logs into a file instead of stderr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "warn",
			},
		},
		Action: runSearch,
		Commands: []*cli.Command{
			favCommand(),
			recentCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func runSearch(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: quickfindr [options] <query>", 1)
	}

	cfg := loadDefaults()
	level := cfg.LogLevel
	if level == "" || c.IsSet("log-level") {
		level = c.String("log-level")
	}
	internal.InitLogger(c.String("logfile"), level)

	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return cli.Exit(fmt.Sprintf("not a directory: %s", root), 1)
	}

	opts := internal.SearchOptions{
		Query:             c.Args().First(),
		Root:              root,
		CaseSensitive:     c.Bool("case-sensitive"),
		UseRegex:          c.Bool("regex"),
		SearchContent:     c.Bool("content") || (!c.IsSet("content") && cfg.SearchContent),
		RespectGitignore:  c.Bool("gitignore") || (!c.IsSet("gitignore") && cfg.RespectGitignore),
		ExcludeExtensions: c.String("exclude"),
		Archives:          c.Bool("archives") || (!c.IsSet("archives") && cfg.Archives),
		Threads:           c.Int("threads"),
	}
	if opts.ExcludeExtensions == "" {
		opts.ExcludeExtensions = cfg.ExcludeExtensions
	}
	if opts.Threads == 0 {
		opts.Threads = cfg.Threads
	}
	if err := opts.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	opts.Prepare()

	rememberRoot(root)

	tty := isatty.IsTerminal(os.Stdout.Fd())
	color.NoColor = color.NoColor || !tty

	tok := internal.NewToken()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			logrus.Warn("Cancelling search")
			tok.Cancel()
		}
	}()

	type ready struct {
		first, rest []internal.SearchResult
		total       int
	}
	readyCh := make(chan ready, 1)
	doneCh := make(chan time.Duration, 1)
	errCh := make(chan error, 1)

	internal.NewSearcher().Start(opts, tok, internal.Events{
		OnReady: func(first, remaining []internal.SearchResult, total int) {
			readyCh <- ready{first, remaining, total}
		},
		OnDone: func(elapsed time.Duration, total int) {
			doneCh <- elapsed
		},
		OnError: func(err error) {
			errCh <- err
		},
	})

	spinnerDone := make(chan struct{})
	if tty {
		bar := progressbar.Default(-1, "Searching")
		go func() {
			ticker := time.NewTicker(120 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					_ = bar.Add(1)
				case <-spinnerDone:
					_ = bar.Finish()
					fmt.Println()
					return
				}
			}
		}()
	}

	var res ready
	select {
	case err := <-errCh:
		close(spinnerDone)
		if errors.Is(err, internal.ErrBadPattern) {
			return cli.Exit("Error: invalid pattern", 1)
		}
		return cli.Exit(err.Error(), 1)
	case res = <-readyCh:
	}
	elapsed := <-doneCh
	if tty {
		close(spinnerDone)
	}

	for _, r := range res.first {
		printResult(r)
	}

	pager := internal.NewPager(res.rest)
	if tty && !c.Bool("no-input") {
		pageInteractively(pager)
	} else {
		for batch := pager.LoadMore(); batch != nil; batch = pager.LoadMore() {
			for _, r := range batch {
				printResult(r)
			}
		}
	}

	status := "Completed"
	if tok.State() == internal.StateCancelled {
		status = "Cancelled"
	}
	fmt.Printf("\n%s: %d results in %dms\n", status, res.total, elapsed.Milliseconds())
	return nil
}

func printResult(r internal.SearchResult) {
	name := color.New(color.FgGreen, color.Bold).Sprint(r.FileName)
	path := color.New(color.Faint).Sprint(r.RelativePath)
	fmt.Printf("%s  %s\n", name, path)
	if r.LineNumber > 0 {
		fmt.Printf("    %s\n", color.YellowString("L%d: %s", r.LineNumber, r.Line))
	}
}

// pageInteractively serves the remainder page by page on request.
func pageInteractively(pager *internal.Pager) {
	in := bufio.NewReader(os.Stdin)
	for pager.Remaining() > 0 {
		fmt.Printf("-- %d more, [Enter] to load, q to quit -- ", pager.Remaining())
		line, err := in.ReadString('\n')
		if err != nil || line == "q\n" || line == "q\r\n" {
			return
		}
		for _, r := range pager.LoadMore() {
			printResult(r)
		}
	}
}

// rememberRoot records the searched directory in the recents list, like
// picking a folder does in the UI.
func rememberRoot(root string) {
	path, err := internal.DefaultFavoritesPath()
	if err != nil {
		return
	}
	if err := internal.LoadFavorites(path).AddRecent(root); err != nil {
		logrus.WithError(err).Debug("could not update recents")
	}
}

func loadDefaults() internal.Config {
	path, err := internal.DefaultConfigPath()
	if err != nil {
		return internal.Config{}
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		logrus.WithError(err).Warn("ignoring unreadable config file")
		return internal.Config{}
	}
	return cfg
}

func favCommand() *cli.Command {
	return &cli.Command{
		Name:  "fav",
		Usage: "Manage favorite folders",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a folder to favorites (default: current directory)",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					target := c.Args().First()
					if target == "" {
						target = "."
					}
					abs, err := filepath.Abs(target)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					store, err := openStore()
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if err := store.AddFavorite(abs, filepath.Base(abs)); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Printf("Added %s\n", abs)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "Remove a folder from favorites",
				ArgsUsage: "<path>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return cli.Exit("usage: quickfindr fav rm <path>", 1)
					}
					abs, err := filepath.Abs(c.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					store, err := openStore()
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					if err := store.RemoveFavorite(abs); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Printf("Removed %s\n", abs)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List favorite folders",
				Action: func(c *cli.Context) error {
					store, err := openStore()
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					printFolders(store.Favorites)
					return nil
				},
			},
		},
	}
}

func recentCommand() *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List recently searched folders",
		Action: func(c *cli.Context) error {
			store, err := openStore()
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			printFolders(store.RecentFolders)
			return nil
		},
	}
}

func openStore() (*internal.FavoritesStore, error) {
	path, err := internal.DefaultFavoritesPath()
	if err != nil {
		return nil, err
	}
	return internal.LoadFavorites(path), nil
}

func printFolders(folders []internal.FavoriteFolder) {
	for _, f := range folders {
		name := color.New(color.FgCyan, color.Bold).Sprint(f.Name)
		fmt.Printf("%s  %s\n", name, f.Path)
	}
}
