package main

import (
	"errors"
	"fmt"

	"evimeria/internal/domain/model"
	"evimeria/internal/usecase"

	"github.com/spf13/cobra"
)

func newCheckoutCmd(app func() *shopApp) *cobra.Command {
	var (
		shipping model.ShippingInfo
		payment  string
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order with the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			receipt, err := a.checkout.PlaceOrder(cmd.Context(), usecase.CheckoutInput{
				Shipping:      shipping,
				PaymentMethod: model.PaymentMethod(payment),
			})
			switch {
			case errors.Is(err, usecase.ErrEmptyCart):
				return errors.New("Votre panier est vide")
			case errors.Is(err, usecase.ErrInvalidCheckout):
				return fmt.Errorf("informations de livraison incomplètes: %w", err)
			case err != nil:
				return err
			}
			return a.printReceipt(cmd.OutOrStdout(), receipt)
		},
	}

	f := cmd.Flags()
	f.StringVar(&shipping.FirstName, "first-name", "", "First name")
	f.StringVar(&shipping.LastName, "last-name", "", "Last name")
	f.StringVar(&shipping.Email, "email", "", "Email")
	f.StringVar(&shipping.Address, "address", "", "Street address")
	f.StringVar(&shipping.City, "city", "", "City")
	f.StringVar(&shipping.PostalCode, "postal-code", "", "Postal code")
	f.StringVar(&shipping.Country, "country", "", "Country")
	f.StringVar(&payment, "payment", string(model.PaymentCreditCard), "credit_card, paypal or bank_transfer")
	return cmd
}
