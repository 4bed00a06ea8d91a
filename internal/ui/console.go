// Package ui renders command output for the terminal. Results go to the
// output stream; badges, diagnostics and empty/failure notices go to the
// error stream so that piping the result stays clean.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/hpn/hpn-transform/internal/domain"
	"github.com/hpn/hpn-transform/internal/security"
)

var (
	// Badge colors
	successBadge = color.New(color.BgGreen, color.FgBlack, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	errorBadge   = color.New(color.BgRed, color.FgWhite, color.Bold)
	infoBadge    = color.New(color.FgCyan, color.Bold)

	// Text colors
	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed)
	infoText    = color.New(color.FgCyan)
	mutedText   = color.New(color.FgHiBlack)
	accentText  = color.New(color.FgMagenta, color.Bold)
	neonBlue    = color.New(color.FgHiCyan, color.Bold)
)

// Console writes styled output. The zero value is not usable; call NewConsole.
type Console struct {
	out     io.Writer
	errOut  io.Writer
	quiet   bool
	verbose bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithQuiet limits output to the result text.
func WithQuiet(quiet bool) ConsoleOption {
	return func(c *Console) { c.quiet = quiet }
}

// WithVerbose adds a provider/model/latency line after each result.
func WithVerbose(verbose bool) ConsoleOption {
	return func(c *Console) { c.verbose = verbose }
}

// NewConsole creates a Console writing results to out and diagnostics to errOut.
func NewConsole(out, errOut io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{out: out, errOut: errOut}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Outcome prints a transformation outcome.
func (c *Console) Outcome(o domain.Outcome) {
	switch o.Status {
	case domain.StatusSuccess:
		fmt.Fprintln(c.out, o.Text)
		if c.verbose && !c.quiet {
			c.printDetails(o)
		}
	case domain.StatusEmpty:
		if c.quiet {
			return
		}
		warningBadge.Fprint(c.errOut, "[EMPTY]")
		fmt.Fprint(c.errOut, " ")
		warningText.Fprintf(c.errOut, "%s returned no content", o.Provider)
		mutedText.Fprintf(c.errOut, " (model %s)\n", o.Model)
	default:
		if c.quiet {
			return
		}
		errorBadge.Fprint(c.errOut, " FAILED ")
		fmt.Fprint(c.errOut, " ")
		errorText.Fprintln(c.errOut, o.Message)
		if c.verbose {
			c.printDetails(o)
		}
	}
}

// printDetails prints provider, model and latency with a color gradient.
// Green: < 2s, Yellow: < 10s, Red: >= 10s
func (c *Console) printDetails(o domain.Outcome) {
	mutedText.Fprint(c.errOut, "  via ")
	accentText.Fprint(c.errOut, o.Provider)
	mutedText.Fprint(c.errOut, " / ")
	infoText.Fprint(c.errOut, o.Model)
	mutedText.Fprint(c.errOut, " in ")

	latency := fmt.Sprintf("%dms", o.Duration.Milliseconds())
	switch {
	case o.Duration < 2*time.Second:
		successText.Fprintln(c.errOut, latency)
	case o.Duration < 10*time.Second:
		warningText.Fprintln(c.errOut, latency)
	default:
		errorText.Fprintln(c.errOut, latency)
	}
}

// Error prints a configuration or input error, with a hint for missing keys.
func (c *Console) Error(err error) {
	errorBadge.Fprint(c.errOut, " ERROR ")
	fmt.Fprint(c.errOut, " ")
	errorText.Fprintln(c.errOut, err.Error())

	if errors.Is(err, domain.ErrNoCredentials) {
		mutedText.Fprintln(c.errOut, "  set OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY,")
		mutedText.Fprintln(c.errOut, "  or run: hpn-transform config set-key <provider> <key>")
	}
}

// Warn prints a non-fatal notice.
func (c *Console) Warn(msg string) {
	if c.quiet {
		return
	}
	warningBadge.Fprint(c.errOut, "[WARN]")
	fmt.Fprint(c.errOut, " ")
	warningText.Fprintln(c.errOut, msg)
}

// Saved confirms a configuration change.
func (c *Console) Saved(msg string) {
	successBadge.Fprint(c.errOut, " OK ")
	fmt.Fprint(c.errOut, " ")
	successText.Fprintln(c.errOut, msg)
}

// Models prints listings grouped by provider in priority order.
func (c *Console) Models(listings map[domain.ProviderType][]string) {
	if len(listings) == 0 {
		c.Warn("no provider is configured")
		return
	}
	for _, p := range domain.AllProviders() {
		models, ok := listings[p]
		if !ok {
			continue
		}
		c.ModelList(p, models)
	}
}

// ModelList prints one provider's models, one per line.
func (c *Console) ModelList(provider domain.ProviderType, models []string) {
	if !c.quiet {
		infoBadge.Fprintf(c.out, "[%s]", provider)
		mutedText.Fprintf(c.out, " %d models\n", len(models))
	}
	if len(models) == 0 && !c.quiet {
		mutedText.Fprintln(c.out, "  (none available)")
		return
	}
	for _, m := range models {
		if c.quiet {
			fmt.Fprintln(c.out, m)
			continue
		}
		fmt.Fprintf(c.out, "  %s\n", m)
	}
}

// Suggestions prints the built-in model suggestions for a provider.
func (c *Console) Suggestions(provider string, models []string) {
	if len(models) == 0 {
		c.Warn(fmt.Sprintf("no suggestions for provider %q", provider))
		return
	}
	for _, m := range models {
		fmt.Fprintln(c.out, m)
	}
}

// Config prints the effective settings with keys masked.
func (c *Console) Config(source string, settings domain.Settings) {
	if source == "" {
		source = "(environment only)"
	}
	infoBadge.Fprint(c.out, "[CONFIG]")
	fmt.Fprint(c.out, " ")
	mutedText.Fprintln(c.out, source)

	for _, p := range domain.AllProviders() {
		fmt.Fprintf(c.out, "  %-8s ", p)
		if settings.Credentials.Has(p) {
			successText.Fprint(c.out, security.MaskKey(settings.Credentials.Get(p)))
		} else {
			mutedText.Fprint(c.out, "not set")
		}
		if m := settings.Defaults.Model(p); m != "" {
			mutedText.Fprint(c.out, "  model=")
			fmt.Fprint(c.out, m)
		}
		fmt.Fprintln(c.out)
	}

	preferred := "(none)"
	if settings.Defaults.Preferred != "" {
		preferred = settings.Defaults.Preferred.String()
	}
	fmt.Fprintf(c.out, "  default  %s\n", preferred)

	order := domain.PriorityOrder(settings.Defaults.Priority)
	names := make([]string, len(order))
	for i, p := range order {
		names[i] = p.String()
	}
	fmt.Fprintf(c.out, "  order    %s\n", strings.Join(names, " > "))
}

// StartupInfo prints the serve command's listen address and active providers.
func (c *Console) StartupInfo(addr string, providers []domain.ProviderType) {
	infoBadge.Fprint(c.errOut, "[SERVE]")
	fmt.Fprint(c.errOut, " Listening on ")
	neonBlue.Fprintf(c.errOut, "http://%s\n", addr)

	infoBadge.Fprint(c.errOut, "[SERVE]")
	fmt.Fprint(c.errOut, " Providers: ")
	if len(providers) == 0 {
		errorText.Fprintln(c.errOut, "none")
		return
	}
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.String()
	}
	accentText.Fprintln(c.errOut, strings.Join(names, ", "))
}

// Shutdown prints a styled shutdown message.
func (c *Console) Shutdown() {
	fmt.Fprintln(c.errOut)
	warningBadge.Fprint(c.errOut, "[SHUTDOWN]")
	warningText.Fprintln(c.errOut, " Graceful shutdown initiated...")
}

// Goodbye prints a styled goodbye message.
func (c *Console) Goodbye() {
	successBadge.Fprint(c.errOut, " OK ")
	fmt.Fprint(c.errOut, " ")
	successText.Fprintln(c.errOut, "Server stopped.")
}
