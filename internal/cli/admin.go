package cli

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"ufscompras/internal/admin"
)

const movementDateLayout = "02/01/2006 15:04"

func (a *App) runAdmin(ctx context.Context, args []string) error {
	if !a.Session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if !a.Session.IsAdmin() {
		return ErrNotAdmin
	}

	client := admin.NewClient(a.Backend, a.Session.Token())
	cmds := map[string]command{
		"categories":      {"categories", "Lista as categorias", func(ctx context.Context, args []string) error { return a.adminCategories(ctx, client, args) }},
		"category-add":    {"category-add --nome <nome> [--slug <slug>]", "Cria uma categoria", func(ctx context.Context, args []string) error { return a.adminCategoryAdd(ctx, client, args) }},
		"category-delete": {"category-delete <id>", "Remove uma categoria", func(ctx context.Context, args []string) error { return a.adminCategoryDelete(ctx, client, args) }},
		"products":        {"products [--page --limit --busca]", "Lista produtos com estoque", func(ctx context.Context, args []string) error { return a.adminProducts(ctx, client, args) }},
		"accessories":     {"accessories", "Lista acessórios, inclusive inativos", func(ctx context.Context, args []string) error { return a.adminAccessories(ctx, client, args) }},
		"movements":       {"movements [--from --to --tipo --produto]", "Lista movimentações de estoque", func(ctx context.Context, args []string) error { return a.adminMovements(ctx, client, args) }},
		"movement-add":    {"movement-add --tipo --quantidade --valor --produto [--obs]", "Registra uma movimentação", func(ctx context.Context, args []string) error { return a.adminMovementAdd(ctx, client, args) }},
		"reports":         {"reports [--from --to --limit]", "Resumo de vendas e estoque", func(ctx context.Context, args []string) error { return a.adminReports(ctx, client, args) }},
	}

	if len(args) == 0 {
		printCommands(a.Err, "ufscompras admin", cmds)
		return ErrUsage
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		printCommands(a.Err, "ufscompras admin", cmds)
		return fmt.Errorf("%w: unknown admin command %q", ErrUsage, args[0])
	}
	return cmd.run(ctx, args[1:])
}

func (a *App) adminCategories(ctx context.Context, client *admin.Client, args []string) error {
	if _, err := parseArgs(a.flagSet("admin categories"), args); err != nil {
		return err
	}

	categories, err := client.ListCategories(ctx)
	if err != nil {
		return err
	}

	tw := newTable(a.Out)
	fmt.Fprintln(tw, "ID\tSLUG\tNOME")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Slug, c.Name)
	}
	return tw.Flush()
}

func (a *App) adminCategoryAdd(ctx context.Context, client *admin.Client, args []string) error {
	fs := a.flagSet("admin category-add")
	name := fs.String("nome", "", "nome da categoria")
	slug := fs.String("slug", "", "slug (opcional)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	created, err := client.CreateCategory(ctx, admin.CategoryInput{Name: *name, Slug: *slug})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Categoria criada: %s (%s)\n", created.Name, created.ID)
	return nil
}

func (a *App) adminCategoryDelete(ctx context.Context, client *admin.Client, args []string) error {
	positional, err := parseArgs(a.flagSet("admin category-delete"), args)
	if err != nil {
		return err
	}
	if err := expectArgs(positional, 1, "admin category-delete <id>"); err != nil {
		return err
	}

	if err := client.DeleteCategory(ctx, positional[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Categoria %s removida.\n", positional[0])
	return nil
}

func (a *App) adminProducts(ctx context.Context, client *admin.Client, args []string) error {
	fs := a.flagSet("admin products")
	page := fs.Int("page", 0, "página")
	limit := fs.Int("limit", 0, "itens por página")
	search := fs.String("busca", "", "texto de busca")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	params := url.Values{}
	if *page > 0 {
		params.Set("page", strconv.Itoa(*page))
	}
	if *limit > 0 {
		params.Set("limit", strconv.Itoa(*limit))
	}
	if s := strings.TrimSpace(*search); s != "" {
		params.Set("search", s)
	}

	list, err := client.ListProducts(ctx, params)
	if err != nil {
		return err
	}

	tw := newTable(a.Out)
	fmt.Fprintln(tw, "ID\tNOME\tPREÇO\tESTOQUE\tDESTAQUE")
	for _, p := range list.Data {
		stock := "-"
		if p.Stock != nil {
			stock = strconv.Itoa(int(*p.Stock))
		}
		featured := ""
		if p.IsFeatured {
			featured = "sim"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, formatPrice(p.Price), stock, featured)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "\n%d produtos (página %d de %d)\n",
		list.Pagination.Total, list.Pagination.Page, list.Pagination.TotalPages)
	return nil
}

func (a *App) adminAccessories(ctx context.Context, client *admin.Client, args []string) error {
	if _, err := parseArgs(a.flagSet("admin accessories"), args); err != nil {
		return err
	}

	accessories, err := client.ListAccessories(ctx)
	if err != nil {
		return err
	}

	tw := newTable(a.Out)
	fmt.Fprintln(tw, "ID\tNOME\tPREÇO\tATIVO")
	for _, acc := range accessories {
		active := "sim"
		if acc.Active != nil && !*acc.Active {
			active = "não"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", acc.ID, acc.Name, formatPrice(acc.Price), active)
	}
	return tw.Flush()
}

func (a *App) adminMovements(ctx context.Context, client *admin.Client, args []string) error {
	fs := a.flagSet("admin movements")
	var q admin.MovementQuery
	fs.StringVar(&q.From, "from", "", "data inicial (AAAA-MM-DD)")
	fs.StringVar(&q.To, "to", "", "data final (AAAA-MM-DD)")
	movementType := fs.String("tipo", "", "Entrada ou Saida")
	fs.StringVar(&q.ProductID, "produto", "", "id do produto")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if *movementType != "" {
		t, ok := admin.ParseMovementType(*movementType)
		if !ok {
			return fmt.Errorf("%w: --tipo must be Entrada or Saida", ErrUsage)
		}
		q.Type = t
	}

	movements, err := client.ListMovements(ctx, q)
	if err != nil {
		return err
	}
	if len(movements) == 0 {
		fmt.Fprintln(a.Out, "Nenhuma movimentação no período.")
		return nil
	}

	tw := newTable(a.Out)
	fmt.Fprintln(tw, "DATA\tTIPO\tPRODUTO\tQTD\tUNITÁRIO\tTOTAL\tACESSÓRIOS")
	for _, m := range movements {
		product := "-"
		if m.Product != nil {
			product = m.Product.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			m.Date.UTC().Format(movementDateLayout), m.Type, product, m.Quantity,
			formatPrice(m.UnitValue), formatPrice(m.Total()), orDash(summarize(m.SummarizeAccessories())))
	}
	return tw.Flush()
}

func summarize(items []admin.AccessorySummary) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Name
		if item.Count > 1 {
			parts[i] += fmt.Sprintf(" x%d", item.Count)
		}
	}
	return strings.Join(parts, ", ")
}

func (a *App) adminMovementAdd(ctx context.Context, client *admin.Client, args []string) error {
	fs := a.flagSet("admin movement-add")
	movementType := fs.String("tipo", "", "Entrada ou Saida")
	quantity := fs.Int("quantidade", 0, "quantidade")
	value := fs.String("valor", "0", "valor unitário")
	productID := fs.String("produto", "", "id do produto")
	note := fs.String("obs", "", "observação")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	unitValue, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(*value), ",", ".", 1))
	if err != nil {
		return fmt.Errorf("%w: --valor %q is not a number", ErrUsage, *value)
	}

	created, err := client.CreateMovement(ctx, admin.NewMovement{
		Type:      admin.MovementType(strings.TrimSpace(*movementType)),
		Quantity:  *quantity,
		UnitValue: unitValue,
		Note:      strings.TrimSpace(*note),
		ProductID: strings.TrimSpace(*productID),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Movimentação registrada: %s\n", created.ID)
	return nil
}

// adminReports loads the three dashboard reports concurrently.
func (a *App) adminReports(ctx context.Context, client *admin.Client, args []string) error {
	fs := a.flagSet("admin reports")
	var r admin.DateRange
	fs.StringVar(&r.From, "from", "", "data inicial (AAAA-MM-DD)")
	fs.StringVar(&r.To, "to", "", "data final (AAAA-MM-DD)")
	limit := fs.Int("limit", 5, "produtos no ranking")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	var (
		sales admin.SalesReport
		stock admin.StockMovementReport
		top   []admin.TopProductReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = client.SalesReport(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		stock, err = client.StockMovementReport(gctx, r)
		return err
	})
	g.Go(func() (err error) {
		top, err = client.TopProducts(gctx, r, *limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "Vendas:   %d unidades, %s\n", sales.TotalUnits, formatPrice(sales.TotalRevenue))
	fmt.Fprintf(a.Out, "Entradas: %d unidades, %s\n", stock.In.TotalUnits, formatPrice(stock.In.TotalValue))
	fmt.Fprintf(a.Out, "Saídas:   %d unidades, %s\n", stock.Out.TotalUnits, formatPrice(stock.Out.TotalValue))

	if len(top) == 0 {
		return nil
	}
	fmt.Fprintln(a.Out, "\nMais vendidos:")
	tw := newTable(a.Out)
	for i, p := range top {
		fmt.Fprintf(tw, "  %d.\t%s\t%d un.\t%s\n", i+1, p.Product.Name, p.TotalUnits, formatPrice(p.TotalRevenue))
	}
	return tw.Flush()
}
