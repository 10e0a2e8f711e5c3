package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"mpage/internal/app"
	"mpage/internal/config"
	"mpage/internal/credentials"
	"mpage/internal/journal"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config, resolves the access token, and creates an MPApp.
// The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Open", "Heatmap").
func newApp(operation string) (*app.MPApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	token, err := resolveToken(cfg)
	if err != nil {
		return nil, err
	}

	a, err := app.NewMPApp(cfg, operation, token)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// resolveToken returns the GitHub access token: MPAGE_TOKEN when set,
// otherwise the encrypted token store unlocked with a passphrase prompt.
// The memory backend needs no token.
func resolveToken(cfg *config.Config) (string, error) {
	if cfg.Remote.Type == "memory" {
		return "", nil
	}

	if token := os.Getenv("MPAGE_TOKEN"); token != "" {
		return token, nil
	}

	store := credentials.NewStore(cfg.Credentials.TokenPath)
	if !store.IsConfigured() {
		return "", fmt.Errorf("no access token configured: run 'mpage login' first")
	}

	passphrase, err := promptSecret("Passphrase: ")
	if err != nil {
		return "", err
	}

	token, err := store.Load(passphrase)
	if err != nil {
		return "", fmt.Errorf("unlocking token: %w", err)
	}
	return token, nil
}

// promptSecret reads a line from the terminal without echoing it.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

var rootCmd = &cobra.Command{
	Use:   "mpage",
	Short: "Morning pages journal backed by a GitHub repository",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		repo, _ := cmd.Flags().GetString("repo")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		deviceID := uuid.New().String()

		cfg := config.NewConfig(deviceID, owner, repo, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		pterm.Success.Printfln("Configuration initialized at %s", defaults["config_path"])
		fmt.Printf("Device ID: %s\n", deviceID)
		fmt.Printf("Base Dir:  %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Device ID:  %s\n", cfg.DeviceID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Repository: %s/%s\n", cfg.Remote.Owner, cfg.Remote.Repo)
		return nil
	},
}

// login command
var loginCmd = &cobra.Command{
	Use:   "login REPO_URL",
	Short: "Store an access token for a journal repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, repo, err := app.ParseRepoURL(args[0])
		if err != nil {
			return err
		}

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("getting defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("reading config (run 'mpage config init' first): %w", err)
		}
		cfg.Remote.Owner = owner
		cfg.Remote.Repo = repo

		token, err := promptSecret("GitHub access token: ")
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("token is empty")
		}

		// Validate before persisting anything.
		a, err := app.NewMPApp(cfg, "Login", token)
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		spinner, _ := pterm.DefaultSpinner.Start("Verifying repository access...")
		login, err := a.ValidateAccess(cmd.Context())
		if err != nil {
			spinner.Fail("Repository access check failed")
			return err
		}
		spinner.Success(fmt.Sprintf("Authenticated as %s with access to %s/%s", login, owner, repo))

		passphrase, err := promptSecret("New passphrase for the token store: ")
		if err != nil {
			return err
		}
		confirm, err := promptSecret("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		store := credentials.NewStore(cfg.Credentials.TokenPath)
		if err := store.Save(token, passphrase); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}

		if err := config.Save(defaults["config_path"], cfg); err != nil {
			return err
		}

		pterm.Success.Printfln("Token stored at %s", cfg.Credentials.TokenPath)
		return nil
	},
}

// open command
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the entry for a date (today by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")

		a, err := newApp("Open")
		if err != nil {
			return err
		}
		defer a.Close()

		spinner, _ := pterm.DefaultSpinner.Start("Loading entries...")
		if err := a.Open(cmd.Context(), date); err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Stop()

		printEditorState(a.Session().State())
		return nil
	},
}

// printEditorState renders the current selection.
func printEditorState(state journal.EditorState) {
	pterm.DefaultSection.Println(state.Title)

	mode := pterm.FgGreen.Sprint("editable")
	if state.Mode == journal.ModeReadOnly {
		mode = pterm.FgYellow.Sprint("read-only")
	}
	fmt.Printf("Path: %s\n", state.SelectedPath)
	fmt.Printf("Mode: %s\n", mode)
	if state.LastSavedAt != nil {
		fmt.Printf("Saved: %s\n", state.LastSavedAt.Local().Format("2006-01-02 15:04"))
	}

	if state.Content != "" {
		fmt.Println()
		fmt.Println(state.Content)
	}
}

// write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Append to the entry for a date and save it",
	Long: `Append text to the entry for a date (today by default) and save it.
Text is read from --file or standard input. Saving requires at least 1000
characters unless --force is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		title, _ := cmd.Flags().GetString("title")
		file, _ := cmd.Flags().GetString("file")
		force, _ := cmd.Flags().GetBool("force")

		body, err := readBody(file)
		if err != nil {
			return err
		}

		a, err := newApp("Write")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if err := a.Open(ctx, date); err != nil {
			return err
		}

		session := a.Session()
		if title != "" {
			state := session.State()
			if err := session.SetTitle(strings.TrimRight(state.Title, " ") + " " + title); err != nil {
				return err
			}
		}
		if err := session.Append(body); err != nil {
			return err
		}

		if err := session.Save(ctx, force); err != nil {
			return err
		}

		state := session.State()
		pterm.Success.Printfln("Saved %s", state.SelectedPath)
		return nil
	},
}

// readBody reads the entry text from a file, or stdin when file is empty.
func readBody(file string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(b), nil
	}

	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(b), nil
}

// tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the entry folder tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Tree")
		if err != nil {
			return err
		}
		defer a.Close()

		spinner, _ := pterm.DefaultSpinner.Start("Loading entries...")
		if err := a.Open(cmd.Context(), ""); err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.Stop()

		nodes := a.FileTree()
		if len(nodes) == 0 {
			fmt.Println("No entries yet.")
			return nil
		}

		root := pterm.TreeNode{Text: "journal", Children: toPtermNodes(nodes)}
		return pterm.DefaultTree.WithRoot(root).Render()
	},
}

// toPtermNodes converts journal tree nodes into pterm's renderable shape.
func toPtermNodes(nodes []*journal.TreeNode) []pterm.TreeNode {
	out := make([]pterm.TreeNode, 0, len(nodes))
	for _, n := range nodes {
		text := n.Name
		if !n.Folder && n.State.IsDraft() {
			text = pterm.FgLightCyan.Sprint(n.Name + " (draft)")
		}
		out = append(out, pterm.TreeNode{
			Text:     text,
			Children: toPtermNodes(n.Children),
		})
	}
	return out
}

// heatmap command
var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show when each entry was written",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Heatmap")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()

		spinner, _ := pterm.DefaultSpinner.Start("Loading entries...")
		if err := a.Open(ctx, ""); err != nil {
			spinner.Fail(err.Error())
			return err
		}
		spinner.UpdateText("Resolving commit times...")
		cells := a.Heatmap(ctx)
		spinner.Stop()

		if len(cells) == 0 {
			fmt.Println("No entries yet.")
			return nil
		}

		for _, cell := range cells {
			style := heatmapStyle(cell.Status)
			fmt.Printf("%s %s  %s\n", style.Sprint("■"), cell.Date, cell.Title)
		}
		return nil
	},
}

func heatmapStyle(status journal.HeatmapStatus) *pterm.Style {
	switch status {
	case journal.StatusGreen:
		return pterm.NewStyle(pterm.FgGreen)
	case journal.StatusOrange:
		return pterm.NewStyle(pterm.FgYellow)
	case journal.StatusRed:
		return pterm.NewStyle(pterm.FgRed)
	default:
		return pterm.NewStyle(pterm.FgDarkGray)
	}
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show writing statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Stats")
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, err := a.Stats(cmd.Context())
		if err != nil {
			if journal.IsKind(err, journal.KindConfigNotFound) {
				fmt.Println("No statistics yet. Write your first entry!")
				return nil
			}
			return err
		}

		fmt.Printf("Total days: %d\n", snapshot.TotalDays)
		fmt.Printf("Streak:     %d\n", snapshot.Streak)
		if snapshot.LastDate != "" {
			fmt.Printf("Last entry: %s\n", snapshot.LastDate)
		}
		return nil
	},
}

// favorites command
var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage favorite entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListFavorites")
		if err != nil {
			return err
		}
		defer a.Close()

		paths, err := a.ListFavorites(cmd.Context())
		if err != nil {
			return err
		}

		if len(paths) == 0 {
			fmt.Println("No favorites yet.")
			return nil
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add PATH",
	Short: "Mark an entry as favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddFavorite")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if err := a.Open(ctx, ""); err != nil {
			return err
		}
		if err := a.AddFavorite(ctx, args[0]); err != nil {
			return err
		}

		pterm.Success.Printfln("Added %s to favorites", args[0])
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove PATH",
	Short: "Remove an entry from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RemoveFavorite")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveFavorite(cmd.Context(), args[0]); err != nil {
			return err
		}

		pterm.Success.Printfln("Removed %s from favorites", args[0])
		return nil
	},
}

// morning command
var morningCmd = &cobra.Command{
	Use:   "morning",
	Short: "Show the configured heatmap time windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("MorningTime")
		if err != nil {
			return err
		}
		defer a.Close()

		windows, err := a.MorningTime(cmd.Context())
		if err != nil {
			return err
		}
		if windows == nil {
			fmt.Println("No custom windows configured (using 10:00/14:00 thresholds).")
			return nil
		}

		fmt.Printf("Green:  %s\n", windows.Green)
		fmt.Printf("Orange: %s\n", windows.Orange)
		return nil
	},
}

var morningSetCmd = &cobra.Command{
	Use:   "set GREEN ORANGE",
	Short: "Set the heatmap time windows (HH:MM-HH:MM each)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		green, err := journal.ParseWindowSpec(args[0])
		if err != nil {
			return err
		}
		orange, err := journal.ParseWindowSpec(args[1])
		if err != nil {
			return err
		}

		a, err := newApp("SetMorningTime")
		if err != nil {
			return err
		}
		defer a.Close()

		windows := journal.TimeWindows{Green: green, Orange: orange}
		if err := a.SetMorningTime(cmd.Context(), windows); err != nil {
			return err
		}

		pterm.Success.Printfln("Windows saved: green %s, orange %s", green, orange)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("owner", "", "GitHub repository owner")
	configInitCmd.Flags().String("repo", "", "GitHub repository name")

	// favorites subcommands
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)

	// morning subcommands
	morningCmd.AddCommand(morningSetCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().String("date", "", "Entry date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().String("date", "", "Entry date (YYYY-MM-DD, default today)")
	writeCmd.Flags().String("title", "", "Title appended after the date prefix")
	writeCmd.Flags().String("file", "", "Read the entry text from this file instead of stdin")
	writeCmd.Flags().BoolP("force", "f", false, "Save even below the 1000-character minimum")
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(morningCmd)
}
