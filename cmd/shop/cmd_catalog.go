package main

import (
	"errors"
	"fmt"

	"evimeria/internal/client"
	"evimeria/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newHomeCmd(app func() *shopApp) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show categories and featured products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			home := a.browse.Home(cmd.Context())

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "== Catégories ==")
			if err := a.printCategories(w, home.Categories); err != nil {
				return err
			}
			fmt.Fprintln(w, "\n== Produits vedettes ==")
			return a.printProducts(w, home.Featured)
		},
	}
}

type productsOptions struct {
	category      string
	subCategory   string
	query         string
	minPrice      string
	maxPrice      string
	onlyAvailable bool
	sort          string
	page          int
	perPage       int
}

func newProductsCmd(app func() *shopApp) *cobra.Command {
	opts := &productsOptions{}
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			filter := usecase.ProductFilter{
				Query:         opts.query,
				OnlyAvailable: opts.onlyAvailable,
				Sort:          opts.sort,
			}
			var err error
			if filter.MinPrice, err = parsePrice(opts.minPrice); err != nil {
				return fmt.Errorf("--min: %w", err)
			}
			if filter.MaxPrice, err = parsePrice(opts.maxPrice); err != nil {
				return fmt.Errorf("--max: %w", err)
			}

			products := a.catalog.ListProducts(ctx)
			if opts.category != "" {
				products = a.catalog.ListProductsByCategory(ctx, opts.category, opts.subCategory)
			}

			filtered, err := a.browse.FilterProducts(products, filter)
			if err != nil {
				return fmt.Errorf("--sort %q: %w", opts.sort, err)
			}
			page, totalPages := a.browse.Paginate(filtered, opts.page, opts.perPage)

			w := cmd.OutOrStdout()
			if err := a.printProducts(w, page); err != nil {
				return err
			}
			if totalPages > 1 {
				fmt.Fprintf(w, "\nPage %d/%d (%d produits)\n", opts.page, totalPages, len(filtered))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "Category slug")
	cmd.Flags().StringVar(&opts.subCategory, "subcategory", "", "Sub-category slug (with --category)")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Filter by name or description")
	cmd.Flags().StringVar(&opts.minPrice, "min", "", "Minimum price (EUR)")
	cmd.Flags().StringVar(&opts.maxPrice, "max", "", "Maximum price (EUR)")
	cmd.Flags().BoolVar(&opts.onlyAvailable, "available", false, "Only products in stock")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "new, price_asc, price_desc or name")
	cmd.Flags().IntVar(&opts.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 12, "Products per page")
	return cmd
}

func parsePrice(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func newProductCmd(app func() *shopApp) *cobra.Command {
	return &cobra.Command{
		Use:   "product <slug>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			p, err := a.catalog.GetProductBySlug(cmd.Context(), args[0])
			if errors.Is(err, client.ErrProductNotFound) {
				return fmt.Errorf("Produit non trouvé: %s", args[0])
			}
			if err != nil {
				return err
			}
			return a.printProduct(cmd.OutOrStdout(), p)
		},
	}
}

func newSearchCmd(app func() *shopApp) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			return a.printProducts(cmd.OutOrStdout(), a.catalog.SearchProducts(cmd.Context(), args[0]))
		},
	}
}

func newCategoriesCmd(app func() *shopApp) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			return a.printCategories(cmd.OutOrStdout(), a.catalog.ListCategories(cmd.Context()))
		},
	}
}

func newSubCategoriesCmd(app func() *shopApp) *cobra.Command {
	return &cobra.Command{
		Use:   "subcategories <category-slug>",
		Short: "List the sub-categories of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			subs := a.catalog.ListSubCategories(cmd.Context(), args[0])

			w := cmd.OutOrStdout()
			if len(subs) == 0 {
				_, err := fmt.Fprintln(w, "Aucune sous-catégorie.")
				return err
			}
			for _, s := range subs {
				fmt.Fprintf(w, "%s\t%s\n", s.Slug, s.Name)
			}
			return nil
		},
	}
}
