package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tmfelwu/obsidian-file-rename/internal/app"
	"github.com/tmfelwu/obsidian-file-rename/internal/config"
	"github.com/tmfelwu/obsidian-file-rename/internal/pipeline"
	"github.com/tmfelwu/obsidian-file-rename/pkg/types"
	"gopkg.in/yaml.v3"
)

var (
	appVersion = "0.1.0"

	cfgFile  string
	vaultDir string
	dataDir  string
	logFile  string
	logJSON  bool

	dateFormat         string
	separator          string
	position           string
	dateSource         string
	conflictStrategy   string
	markdownOnly       bool
	avoidDuplicateDate bool

	historyLimit int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "datestamp",
	Short: "Prefix or suffix note file names with a formatted date",
	Long: `datestamp renames a file inside a notes vault by adding a date to its
name, resolving name collisions with a " (n)" counter or by skipping.`,
	SilenceUsage: true,
}

var renameCmd = &cobra.Command{
	Use:   "rename [file]",
	Short: "Rename a vault file by applying the date",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRename(cmd, args, false)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Show the name rename would produce without renaming",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRename(cmd, args, true)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the persisted rename settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save it immediately",
	Long: `Keys: dateFormat, separator, avoidDuplicateDate, position,
dateSource, conflictStrategy, markdownOnly.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent renames",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the files rename can be applied to",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(appVersion)
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&vaultDir, "vault", "v", "", "vault root directory")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for settings and history")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output JSON logs")

	for _, cmd := range []*cobra.Command{renameCmd, previewCmd, configShowCmd, listCmd} {
		cmd.Flags().StringVar(&dateFormat, "date-format", "", "date pattern using YYYY, MM, DD, HH, mm, ss")
		cmd.Flags().StringVar(&separator, "separator", "", "text between date and name")
		cmd.Flags().StringVar(&position, "position", "", "prepend or append")
		cmd.Flags().StringVar(&dateSource, "date-source", "", "now, created or modified")
		cmd.Flags().StringVar(&conflictStrategy, "conflict", "", "conflict strategy: append-counter, skip")
		cmd.Flags().BoolVar(&markdownOnly, "markdown-only", true, "only rename .md files")
		cmd.Flags().BoolVar(&avoidDuplicateDate, "avoid-duplicate-date", true, "skip names that already carry the date")
	}

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of records to show (0=all)")
}

// loadConfig applies defaults, then the config file, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if vaultDir != "" {
		cfg.Vault = vaultDir
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
		if cfg.LogFile == config.DefaultConfig().LogFile {
			cfg.LogFile = ""
		}
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logJSON {
		cfg.LogJSON = true
	}

	cfg.Rename = overlayFlags(cmd, cfg.Rename)
	return cfg, nil
}

// overlayFlags sets the fields of p whose flags were given explicitly.
func overlayFlags(cmd *cobra.Command, p config.Partial) config.Partial {
	flags := cmd.Flags()
	if flags.Changed("date-format") {
		p.DateFormat = &dateFormat
	}
	if flags.Changed("separator") {
		p.Separator = &separator
	}
	if flags.Changed("position") {
		v := types.Position(position)
		p.Position = &v
	}
	if flags.Changed("date-source") {
		v := types.DateSource(dateSource)
		p.DateSource = &v
	}
	if flags.Changed("conflict") {
		v := types.ConflictStrategy(conflictStrategy)
		p.ConflictStrategy = &v
	}
	if flags.Changed("markdown-only") {
		p.MarkdownOnly = &markdownOnly
	}
	if flags.Changed("avoid-duplicate-date") {
		p.AvoidDuplicateDate = &avoidDuplicateDate
	}
	return p
}

func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.Open(cfg)
}

func runRename(cmd *cobra.Command, args []string, dryRun bool) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Logger.SetConsole(cmd.OutOrStdout())

	if len(args) == 1 {
		if err := a.Vault.SetActiveFile(args[0]); err != nil {
			return err
		}
	}

	if dryRun {
		_, err = a.Pipeline.PreviewActive()
	} else {
		_, err = a.Pipeline.RenameActive()
	}
	if pipeline.IsNoop(err) {
		return nil
	}
	return err
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := yaml.Marshal(a.Pipeline.Settings())
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	patch, err := parseSetting(args[0], args[1])
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.Settings.Update(patch)
	if err != nil {
		return err
	}
	a.Logger.Info(fmt.Sprintf("Settings updated: %s=%s", args[0], args[1]))

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// parseSetting turns one key/value pair into a settings patch. Keys use the
// same names as settings.json.
func parseSetting(key, value string) (config.Partial, error) {
	var v interface{} = value
	switch key {
	case "avoidDuplicateDate", "avoidDuplicatePrefix", "markdownOnly":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return config.Partial{}, &config.ValidationError{Field: key, Message: "must be true or false"}
		}
		v = b
	}

	data, err := json.Marshal(map[string]interface{}{key: v})
	if err != nil {
		return config.Partial{}, err
	}

	var patch config.Partial
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return config.Partial{}, &config.ValidationError{Field: key, Message: "unknown setting"}
	}
	return patch, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Logger.SetConsole(cmd.OutOrStdout())

	a.Logger.History(a.Journal.Recent(historyLimit))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var exts []string
	if a.Pipeline.Settings().MarkdownOnly {
		exts = []string{"md"}
	}
	files, err := a.Vault.Files(exts...)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}
