package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"foodstore/internal/checkout"

	"github.com/shopspring/decimal"
)

func loadCart(path string) (checkout.CartSnapshot, error) {
	var cart checkout.CartSnapshot

	f, err := os.Open(path)
	if err != nil {
		return cart, fmt.Errorf("open cart: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cart); err != nil {
		return cart, fmt.Errorf("decode cart %s: %w", path, err)
	}
	return cart, nil
}

func rupiah(d decimal.Decimal) string {
	return "Rp " + d.String() + ",-"
}

// printSummary writes the detail lines and the order summary the way the
// checkout screen lays them out.
func printSummary(w io.Writer, cart checkout.CartSnapshot, cash decimal.Decimal) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Details")
	for _, item := range cart.LineItems {
		fmt.Fprintf(tw, "  %s\t%dx\t%s\n", item.Name, item.Quantity, rupiah(checkout.LineTotal(item)))
	}

	fmt.Fprintln(tw, "Order Summary")
	fmt.Fprintf(tw, "  Sub total\t\t%s\n", rupiah(cart.SubTotal))
	fmt.Fprintf(tw, "  Tax\t\t%s\n", rupiah(cart.Tax))
	fmt.Fprintf(tw, "  Total\t\t%s\n", rupiah(checkout.Total(cart)))
	fmt.Fprintf(tw, "  Cash\t\t%s\n", rupiah(cash))
	fmt.Fprintf(tw, "  Return\t\t%s\n", rupiah(checkout.Change(cash, cart.SubTotal)))

	return tw.Flush()
}

func printFieldErrors(w io.Writer, errs checkout.ValidationErrors) {
	for _, fe := range errs {
		fmt.Fprintf(w, "  %s: %s\n", fe.Field, fe.Message)
	}
}
