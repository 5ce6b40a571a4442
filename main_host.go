//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	yaml "go.yaml.in/yaml/v3"
	"golang.org/x/term"

	"ember/app"
	"ember/hal"
	"ember/internal/buildinfo"
	"ember/internal/config"
)

var errColor = color.New(color.FgRed, color.Bold)

var rootCmd = &cobra.Command{
	Use:           "ember",
	Short:         "Run the ember kernel on the host",
	Long:          "Boots the kernel in a window, or headless with stdin typed on the keyboard.",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runKernel,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective boot configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

func main() {
	rootCmd.Version = buildinfo.Short()

	addBootFlags(rootCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		errColor.Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addBootFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "boot configuration file (.yaml or .toml)")
	f.Bool("headless", false, "run without a window; stdin is typed on the keyboard")
	f.Int("hz", 60, "timer interrupt rate in headless mode")
	f.Uint64("ticks", 0, "stop after N timer interrupts in headless mode (0 runs forever)")
	f.String("layout", "us104", "keyboard layout (us104, uk105)")
	f.Bool("tick-marks", false, "print a dot on every timer tick")
	f.String("log-level", "info", "log level")
}

// loadConfig reads --config, if given, and applies the flags that were set
// explicitly on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()
	cfg := config.Default()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if f.Changed("headless") {
		cfg.Host.Headless, _ = f.GetBool("headless")
	}
	if f.Changed("hz") {
		cfg.Host.Hz, _ = f.GetInt("hz")
	}
	if f.Changed("ticks") {
		cfg.Host.Ticks, _ = f.GetUint64("ticks")
	}
	if f.Changed("layout") {
		cfg.Keyboard.Layout, _ = f.GetString("layout")
	}
	if f.Changed("tick-marks") {
		cfg.Timer.TickMarks, _ = f.GetBool("tick-marks")
	}
	if f.Changed("log-level") {
		cfg.Log.Level, _ = f.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runKernel(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	boot := func(h hal.HAL) (hal.Runner, error) {
		return app.Boot(h, cfg)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if cfg.Host.Headless {
		err = runHeadless(ctx, boot, cfg)
	} else {
		err = hal.RunWindow(ctx, boot)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runHeadless puts a terminal stdin into raw mode so keys reach the keyboard
// as they are pressed. Ctrl-C then arrives as a byte and stops the run.
func runHeadless(ctx context.Context, boot hal.BootFunc, cfg config.Config) error {
	hc := hal.HeadlessConfig{
		Hz:    cfg.Host.Hz,
		Ticks: cfg.Host.Ticks,
		Input: os.Stdin,
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("stdin raw mode: %w", err)
		}
		defer term.Restore(fd, old)

		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		hc.Input = &rawInput{r: os.Stdin, interrupt: cancel}
		hc.Log = crlfWriter{w: os.Stdout}
	}
	return hal.RunHeadless(ctx, boot, hc)
}

const ctrlC = 0x03

// rawInput maps a raw terminal's Enter to newline and Ctrl-C to interrupt.
type rawInput struct {
	r         io.Reader
	interrupt func()
}

func (in *rawInput) Read(p []byte) (int, error) {
	n, err := in.r.Read(p)
	for i := 0; i < n; i++ {
		switch p[i] {
		case '\r':
			p[i] = '\n'
		case ctrlC:
			in.interrupt()
			return i, io.EOF
		}
	}
	return n, err
}

// crlfWriter restores the newline translation raw mode turns off.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p)+8)
	for _, b := range p {
		if b == '\n' {
			out = append(out, '\r')
		}
		out = append(out, b)
	}
	if _, err := c.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
