// Package cli implements the ufscompras command line client: catalog
// browsing, login, checkout and the administrator tools, all against the
// UFSCompras REST backend.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"ufscompras/internal/admin"
	"ufscompras/internal/catalog"
	"ufscompras/internal/messaging"
	"ufscompras/internal/purchase"
	"ufscompras/internal/session"
)

var (
	ErrUsage               = errors.New("invalid usage")
	ErrNotAuthenticated    = errors.New(`not logged in: run "ufscompras login <email> <senha>" first`)
	ErrNotAdmin            = errors.New("administrator access required")
	ErrNotFound            = errors.New("not found")
	ErrBrokerNotConfigured = errors.New("RABBITMQ_URL is not configured")
)

// App wires the commands to their collaborators. Broker is optional.
type App struct {
	Out io.Writer
	Err io.Writer

	Session   *session.Store
	Catalog   *catalog.Engine
	Purchases *purchase.Submitter
	Backend   admin.Doer
	Broker    *messaging.RabbitMQ
}

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, args []string) error
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"login":           {"login <email> <senha>", "Entra na loja e guarda a sessão", a.runLogin},
		"logout":          {"logout", "Encerra a sessão", a.runLogout},
		"whoami":          {"whoami", "Mostra o usuário da sessão", a.runWhoami},
		"categories":      {"categories", "Lista as categorias", a.runCategories},
		"products":        {"products [--categoria --cores --tamanhos --precoMin --precoMax --ordem --busca --page --limit --destaque]", "Consulta o catálogo", a.runProducts},
		"product":         {"product <id>", "Detalha um produto", a.runProduct},
		"featured":        {"featured [--limit]", "Lista os destaques", a.runFeatured},
		"accessories":     {"accessories [--category <id>]", "Lista os acessórios", a.runAccessories},
		"buy":             {"buy <productId> [--qty n] [--acessorio id]...", "Confirma uma compra", a.runBuy},
		"admin":           {"admin <subcomando>", "Ferramentas de administração", a.runAdmin},
		"watch-purchases": {"watch-purchases", "Acompanha as compras confirmadas", a.runWatch},
	}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	cmds := a.commands()

	if len(args) == 0 {
		printCommands(a.Err, "ufscompras", cmds)
		return ErrUsage
	}
	switch args[0] {
	case "help", "-h", "--help":
		printCommands(a.Out, "ufscompras", cmds)
		return nil
	}

	cmd, ok := cmds[args[0]]
	if !ok {
		printCommands(a.Err, "ufscompras", cmds)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return cmd.run(ctx, args[1:])
}

func printCommands(w io.Writer, prefix string, cmds map[string]command) {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintf(w, "Uso: %s <comando> [opções]\n\n", prefix)
	tw := newTable(w)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", cmds[name].usage, cmds[name].summary)
	}
	_ = tw.Flush()
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("ufscompras "+name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	return fs
}

// parseArgs parses flags wherever they appear and returns the positional
// arguments in order, so "buy prod-1 --qty 2" works like "buy --qty 2 prod-1".
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func expectArgs(positional []string, n int, usage string) error {
	if len(positional) != n {
		return fmt.Errorf("%w: ufscompras %s", ErrUsage, usage)
	}
	return nil
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	if value = strings.TrimSpace(value); value != "" {
		*s = append(*s, value)
	}
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// formatPrice renders a price the way the storefront shows it: R$ 149,90.
func formatPrice(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
