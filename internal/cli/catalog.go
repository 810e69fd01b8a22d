package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"ufscompras/internal/catalog"
	"ufscompras/internal/domain"
	"ufscompras/internal/observability"
)

func (a *App) runCategories(ctx context.Context, args []string) error {
	if _, err := parseArgs(a.flagSet("categories"), args); err != nil {
		return err
	}

	categories, err := a.Catalog.Categories().Resolve(ctx)
	if err != nil {
		return err
	}

	tw := newTable(a.Out)
	fmt.Fprintln(tw, "SLUG\tNOME\tSUBCATEGORIAS\tDESCRIÇÃO")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Slug, c.Title, orDash(strings.Join(c.Subcategories, ", ")), c.Description)
	}
	return tw.Flush()
}

var productFlags = []struct {
	name  string
	usage string
}{
	{domain.QueryCategory, "slug da categoria"},
	{domain.QuerySubcategory, "subcategoria"},
	{domain.QueryColors, "cores separadas por vírgula"},
	{domain.QuerySizes, "tamanhos separados por vírgula (XS, P, M, G, GG)"},
	{domain.QueryPriceMin, "preço mínimo"},
	{domain.QueryPriceMax, "preço máximo"},
	{domain.QuerySort, "price-asc ou price-desc"},
	{domain.QuerySearch, "texto de busca"},
	{domain.QueryPage, "página"},
	{domain.QueryLimit, "itens por página"},
}

// runProducts takes the storefront's own query keys as flags and parses them
// exactly like a shared URL, so invalid values widen the query.
func (a *App) runProducts(ctx context.Context, args []string) error {
	fs := a.flagSet("products")
	for _, f := range productFlags {
		fs.String(f.name, "", f.usage)
	}
	fs.Bool(domain.QueryFeatured, false, "somente destaques")

	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	values := url.Values{}
	fs.Visit(func(f *flag.Flag) {
		values.Set(f.Name, f.Value.String())
	})

	list, err := a.Catalog.GetProducts(ctx, domain.ParseProductFilters(values))
	if err != nil {
		return err
	}

	if len(list.Items) == 0 {
		fmt.Fprintln(a.Out, "Nenhum produto encontrado.")
		return nil
	}
	if err := a.printProducts(list.Items); err != nil {
		return err
	}

	first, last := list.Pagination.Range()
	fmt.Fprintf(a.Out, "\nExibindo %d-%d de %d itens (página %d de %d)\n",
		first, last, list.Pagination.Total,
		list.Pagination.ClampPage(list.Pagination.Page), max(list.Pagination.TotalPages, 1))
	return nil
}

func (a *App) printProducts(products []domain.Product) error {
	tw := newTable(a.Out)
	fmt.Fprintln(tw, "ID\tNOME\tPREÇO\tCATEGORIA\tCORES\tTAMANHOS")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, formatPrice(p.Price), p.Category,
			orDash(strings.Join(p.Colors, ", ")), orDash(joinSizes(p.Sizes)))
	}
	return tw.Flush()
}

func (a *App) runProduct(ctx context.Context, args []string) error {
	positional, err := parseArgs(a.flagSet("product"), args)
	if err != nil {
		return err
	}
	if err := expectArgs(positional, 1, "product <id>"); err != nil {
		return err
	}
	id := positional[0]

	product, ok, err := a.Catalog.GetProductByID(ctx, id)
	if err != nil {
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) && fetchErr.IsNotFound() {
			return fmt.Errorf("%w: produto %s", ErrNotFound, id)
		}
		return err
	}
	if !ok {
		return fmt.Errorf("%w: produto %s", ErrNotFound, id)
	}

	fmt.Fprintln(a.Out, product.Name)
	fmt.Fprintf(a.Out, "Preço:      %s\n", formatPrice(product.Price))
	fmt.Fprintf(a.Out, "Categoria:  %s\n", product.Category)
	fmt.Fprintf(a.Out, "Cores:      %s\n", orDash(strings.Join(product.Colors, ", ")))
	fmt.Fprintf(a.Out, "Tamanhos:   %s\n", orDash(joinSizes(product.Sizes)))
	fmt.Fprintf(a.Out, "Imagens:    %d\n", len(product.Images))
	if product.Description != "" {
		fmt.Fprintf(a.Out, "\n%s\n", product.Description)
	}

	// Accessories are a suggestion; the product page still renders without them.
	accessories, err := a.Catalog.GetAccessories(ctx, catalog.AccessoryOptions{CategoryID: product.CategoryID})
	if err != nil {
		observability.FromContext(ctx).Warn("failed to load accessories",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		return nil
	}
	if len(accessories) > 0 {
		fmt.Fprintln(a.Out, "\nCombine com:")
		for _, acc := range accessories {
			fmt.Fprintf(a.Out, "  %s  %s (%s)\n", acc.ID, acc.Name, formatPrice(acc.Price))
		}
	}
	return nil
}

func (a *App) runFeatured(ctx context.Context, args []string) error {
	fs := a.flagSet("featured")
	limit := fs.Int("limit", catalog.DefaultFeaturedLimit, "quantidade de destaques")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	products, err := a.Catalog.GetFeaturedProducts(ctx, *limit)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(a.Out, "Nenhum destaque no momento.")
		return nil
	}
	return a.printProducts(products)
}

func (a *App) runAccessories(ctx context.Context, args []string) error {
	fs := a.flagSet("accessories")
	categoryID := fs.String("category", "", "id da categoria")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	accessories, err := a.Catalog.GetAccessories(ctx, catalog.AccessoryOptions{CategoryID: *categoryID})
	if err != nil {
		return err
	}

	tw := newTable(a.Out)
	fmt.Fprintln(tw, "ID\tNOME\tPREÇO\tDESCRIÇÃO")
	for _, acc := range accessories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", acc.ID, acc.Name, formatPrice(acc.Price), orDash(acc.Description))
	}
	return tw.Flush()
}

func joinSizes(sizes []domain.Size) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
