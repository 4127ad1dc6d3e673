package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"

	"askweb/internal/app"
	"askweb/internal/config"
	"askweb/internal/pipeline"
)

const (
	Version = "0.1.0"

	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// Run starts the interactive ask loop.
func Run(cfg *config.Config) error {
	printWelcome()

	if !cfg.IsModelKeyConfigured() {
		return promptAPIKey(cfg)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer a.Close()

	return runREPL(a.Pipeline)
}

// printWelcome prints welcome message
func printWelcome() {
	fmt.Printf("\n%saskweb v%s%s - answers grounded in live web search\n", colorCyan, Version, colorReset)
	fmt.Printf("%sAsk a question, one per line. Type /help for help, /exit to quit%s\n\n", colorGray, colorReset)
}

// promptAPIKey prompts user to configure the model API Key
func promptAPIKey(cfg *config.Config) error {
	fmt.Printf("%s⚠️  Model API key not configured%s\n\n", colorYellow, colorReset)

	rl, err := readline.New(fmt.Sprintf("Please enter your %s API key: ", cfg.Model.Provider))
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	apiKey, err := rl.Readline()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	cfg.Model.APIKey = apiKey
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\n%s✅ API key saved%s\n\n", colorGreen, colorReset)

	// Restart
	return Run(cfg)
}

// getHistoryFilePath returns the history file path
func getHistoryFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	historyDir := filepath.Join(homeDir, ".askweb")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return ""
	}
	return filepath.Join(historyDir, "history")
}

// runREPL runs the interactive loop with readline support
func runREPL(p *pipeline.Pipeline) error {
	rlConfig := &readline.Config{
		Prompt:          fmt.Sprintf("%sAsk: %s", colorGreen, colorReset),
		HistoryFile:     getHistoryFilePath(),
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:      true,
		DisableAutoSaveHistory: false,
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Printf("\n\n%sGoodbye! 👋%s\n", colorCyan, colorReset)
		cancel()
		rl.Close()
		os.Exit(0)
	}()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf("\n%sPress Ctrl+C again or type /exit to quit%s\n", colorYellow, colorReset)
				continue
			}
			if err == io.EOF {
				fmt.Printf("\n%sGoodbye! 👋%s\n", colorCyan, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if handleCommand(input) {
				continue
			}
			return nil // /exit command
		}

		processQuestion(ctx, p, input)
	}
}

// processQuestion runs one query through the pipeline and prints the result
func processQuestion(ctx context.Context, p *pipeline.Pipeline, question string) {
	fmt.Printf("\n%sThinking...%s\n", colorGray, colorReset)

	candidate, err := p.Run(ctx, question)
	if err != nil {
		fmt.Printf("%s❌ Error: %v%s\n\n", colorRed, err, colorReset)
		return
	}

	fmt.Printf("\n%sAnswer:%s %s\n", colorBlue, colorReset, candidate.Answer)
	if len(candidate.Sources) > 0 {
		fmt.Printf("\n%sSources:%s\n", colorYellow, colorReset)
		for i, url := range candidate.Sources {
			fmt.Printf("  %d. %s\n", i+1, url)
		}
	}
	fmt.Println()
}

// handleCommand handles built-in commands, returns true to continue loop, false to exit
func handleCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true
	}

	command := strings.ToLower(parts[0])

	switch command {
	case "/help":
		printHelp()
		return true

	case "/exit", "/quit", "/q":
		fmt.Printf("%sGoodbye! 👋%s\n", colorCyan, colorReset)
		return false

	case "/config":
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("%s❌ Failed to load config: %v%s\n", colorRed, err, colorReset)
		} else {
			fmt.Println(cfg.String())
		}
		return true

	case "/history":
		if len(parts) > 1 && parts[1] == "clear" {
			historyFile := getHistoryFilePath()
			if historyFile != "" {
				if err := os.WriteFile(historyFile, []byte{}, 0644); err != nil {
					fmt.Printf("%s❌ Failed to clear history: %v%s\n", colorRed, err, colorReset)
				} else {
					fmt.Printf("%s✅ Command history cleared%s\n", colorGreen, colorReset)
				}
			}
		} else {
			fmt.Printf("%sUse Up/Down arrow keys to browse command history%s\n", colorGray, colorReset)
			fmt.Printf("%sUse /history clear to clear history%s\n", colorGray, colorReset)
		}
		return true

	default:
		fmt.Printf("%s❓ Unknown command: %s%s\n", colorYellow, cmd, colorReset)
		fmt.Println("Type /help for available commands")
		return true
	}
}

// printHelp prints help information
func printHelp() {
	fmt.Printf(`
%s📚 askweb Help%s

%sBuilt-in Commands:%s
  /help           - Show this help message
  /config         - Show current configuration
  /history        - Show history usage tips
  /history clear  - Clear command history
  /exit           - Exit program

%sHow it works:%s
  • Questions needing fresh information go through web search
  • Top pages are fetched and summarized before answering
  • Answers from the web list their source URLs
  • Everything else is answered from the model directly

%sExamples:%s
  "best mirrorless cameras in 2025"
  "golang 1.24 release highlights"
  "what is a goroutine"

`, colorCyan, colorReset, colorYellow, colorReset, colorYellow, colorReset, colorYellow, colorReset)
}
