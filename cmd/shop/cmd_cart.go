package main

import (
	"errors"
	"fmt"
	"strconv"

	"evimeria/internal/client"

	"github.com/spf13/cobra"
)

func newCartCmd(app func() *shopApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and edit the local cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			return a.printCart(cmd.OutOrStdout(), a.cart.State())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				return a.printCart(cmd.OutOrStdout(), a.cart.State())
			},
		},
		newCartAddCmd(app),
		&cobra.Command{
			Use:   "remove <product-id>",
			Short: "Remove a line from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				a := app()
				return a.printCart(cmd.OutOrStdout(), a.cart.RemoveFromCart(cmd.Context(), id))
			},
		},
		&cobra.Command{
			Use:   "update <product-id> <quantity>",
			Short: "Set the quantity of a line",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				qty, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				a := app()
				return a.printCart(cmd.OutOrStdout(), a.cart.UpdateQuantity(cmd.Context(), id, qty))
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				return a.printCart(cmd.OutOrStdout(), a.cart.ClearCart(cmd.Context()))
			},
		},
	)
	return cmd
}

func newCartAddCmd(app func() *shopApp) *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "add <slug>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			p, err := a.catalog.GetProductBySlug(ctx, args[0])
			if errors.Is(err, client.ErrProductNotFound) {
				return fmt.Errorf("Produit non trouvé: %s", args[0])
			}
			if err != nil {
				return err
			}
			return a.printCart(cmd.OutOrStdout(), a.cart.AddToCart(ctx, p.ToCartItem(qty)))
		},
	}
	cmd.Flags().IntVarP(&qty, "quantity", "n", 1, "Quantity to add")
	return cmd
}

func parseProductID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}
