package cmd

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/ward/three-way-merge-finder/report"
	"github.com/ward/three-way-merge-finder/report/config"
	"github.com/ward/three-way-merge-finder/report/pkg/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:  "mergereport [data-dir]",
	Long: "Generates cross-linked html pages out of the merge and bugfix csv tables, with git diff statistics per merge.",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// potentially enable profiling
		p, _ := cmd.Flags().GetString("profile")
		if p != "" {
			dir, _ := ioutil.TempDir("", "profile")
			defer func() {
				fn := filepath.Join(dir, p+".pprof")
				abs, _ := filepath.Abs(os.Args[0])
				fmt.Printf("to view profile, run `go tool pprof --pdf %s %s`\n", abs, fn)
			}()
			switch p {
			case "cpu":
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
			case "mem":
				defer profile.Start(profile.MemProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
			case "trace":
				defer profile.Start(profile.TraceProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
			case "block":
				defer profile.Start(profile.BlockProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
			case "mutex":
				defer profile.Start(profile.MutexProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
			default:
				panic("unexpected profile: " + p)
			}
		}

		cfg := config.Default()
		if loc, _ := cmd.Flags().GetString("config"); loc != "" {
			var err error
			cfg, err = config.Load(loc)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
		// flags win over the config file
		if cmd.Flags().Changed("overview") {
			cfg.OverviewFile, _ = cmd.Flags().GetString("overview")
		}
		if cmd.Flags().Changed("bugfixes") {
			cfg.BugfixesDir, _ = cmd.Flags().GetString("bugfixes")
		}
		if cmd.Flags().Changed("merges") {
			cfg.MergesDir, _ = cmd.Flags().GetString("merges")
		}
		if cmd.Flags().Changed("repos") {
			cfg.ReposDir, _ = cmd.Flags().GetString("repos")
		}
		if cmd.Flags().Changed("out") {
			cfg.OutDir, _ = cmd.Flags().GetString("out")
		}
		if cmd.Flags().Changed("git") {
			cfg.GitCommand, _ = cmd.Flags().GetString("git")
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
		}
		if cmd.Flags().Changed("cache") {
			cfg.CacheDir, _ = cmd.Flags().GetString("cache")
		}

		dataDir := "."
		if len(args) == 1 {
			dataDir = args[0]
		}

		debug, _ := cmd.Flags().GetBool("debug")
		gen := report.New(report.Opts{
			DataDir: dataDir,
			Config:  cfg,
			Logger:  logger.NewDefaultLogger(os.Stdout, debug),
		})

		var projects, pages, dropped int
		results := make(chan report.ProjectResult, 10)
		resultsDone := make(chan bool, 1)
		go func() {
			for r := range results {
				projects++
				pages += r.Merges
				dropped += r.Dropped
				fmt.Printf("[%s] %s merge pages, %v merges without a fix, took %v\n", color.CyanString(r.Project), color.GreenString("%v", r.Merges), r.Dropped, r.Elapsed)
			}
			resultsDone <- true
		}()
		started := time.Now()
		err := gen.Run(ctx, results)
		<-resultsDone
		if err != nil {
			fmt.Println(color.RedString("%v", err))
			os.Exit(1)
		}
		fmt.Printf("finished writing %d merge pages for %d projects (%d merges without a fix) in %v\n", pages, projects, dropped, time.Since(started))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Flags().String("config", "", "yaml config file, flags override its values")
	rootCmd.Flags().String("overview", "", "overview csv file, relative to the data dir")
	rootCmd.Flags().String("bugfixes", "", "bugfixes csv dir, relative to the data dir")
	rootCmd.Flags().String("merges", "", "merges csv dir, relative to the data dir")
	rootCmd.Flags().String("repos", "", "dir with one working copy per project")
	rootCmd.Flags().String("out", "", "output dir for the html pages")
	rootCmd.Flags().String("git", "", "git executable to invoke")
	rootCmd.Flags().Int("concurrency", 1, "projects processed in parallel, 1 is fully sequential")
	rootCmd.Flags().String("cache", "", "dir to cache git output in, empty disables caching")
	rootCmd.Flags().Bool("debug", false, "log debug output")
	rootCmd.Flags().String("profile", "", "one of mem, mutex, cpu, block, trace or empty to disable")
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
