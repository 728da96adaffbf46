package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"evimeria/internal/domain/model"
	"evimeria/internal/money"

	"github.com/shopspring/decimal"
)

func (a *shopApp) price(amount decimal.Decimal) string {
	s, err := money.Format(amount, a.cfg.Currency)
	if err != nil {
		return amount.StringFixed(2)
	}
	return s
}

func (a *shopApp) printProducts(w io.Writer, products []model.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "Aucun produit.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Slug, p.Name, a.price(p.Price), p.Stock)
	}
	return tw.Flush()
}

func (a *shopApp) printProduct(w io.Writer, p model.Product) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", p.Name)
	fmt.Fprintf(tw, "Slug\t%s\n", p.Slug)
	fmt.Fprintf(tw, "Price\t%s\n", a.price(p.Price))
	fmt.Fprintf(tw, "Stock\t%d\n", p.Stock)
	if p.Category != nil {
		fmt.Fprintf(tw, "Category\t%s\n", p.Category.Name)
	}
	if img := p.MainImage(); img != "" {
		fmt.Fprintf(tw, "Image\t%s\n", img)
	}
	if p.Description != "" {
		fmt.Fprintf(tw, "\n%s\n", p.Description)
	}
	return tw.Flush()
}

func (a *shopApp) printCategories(w io.Writer, categories []model.Category) error {
	if len(categories) == 0 {
		_, err := fmt.Fprintln(w, "Aucune catégorie.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tIMAGE")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Slug, c.Name, c.DisplayImage())
	}
	return tw.Flush()
}

func (a *shopApp) printCart(w io.Writer, state model.CartState) error {
	if state.IsEmpty() {
		_, err := fmt.Fprintln(w, "Votre panier est vide.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tLINE")
	for _, it := range state.Items {
		line := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", it.ID, it.Name, it.Quantity, a.price(it.Price), a.price(line))
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%s\n", state.TotalItems, a.price(state.TotalAmount))
	return tw.Flush()
}

func (a *shopApp) printReceipt(w io.Writer, r model.OrderReceipt) error {
	fmt.Fprintf(w, "Commande %s (%s)\n", r.OrderNumber, r.Status)
	fmt.Fprintf(w, "Livraison: %s %s, %s, %s %s, %s\n",
		r.Shipping.FirstName, r.Shipping.LastName,
		r.Shipping.Address, r.Shipping.PostalCode, r.Shipping.City, r.Shipping.Country)
	fmt.Fprintf(w, "Paiement: %s\n", r.PaymentMethod)
	fmt.Fprintf(w, "Sous-total: %s\n", a.price(r.Subtotal))
	fmt.Fprintf(w, "Livraison: %s\n", a.price(r.ShippingFee))
	_, err := fmt.Fprintf(w, "Total: %s\n", a.price(r.Total))
	return err
}
