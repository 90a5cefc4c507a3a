package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"cardpay/internal/services/cardform"
	"cardpay/internal/services/messages"
)

type cardInput struct {
	Number string
	Expiry string
	Cvc    string
	Name   string
}

type fieldReport struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type cardReport struct {
	Brand  cardform.Brand `json:"brand"`
	Valid  bool           `json:"valid"`
	Fields []fieldReport  `json:"fields"`
}

func runFormat(w io.Writer, fieldName, raw string) error {
	field, err := cardform.ParseField(fieldName)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, cardform.Normalize(field, raw))
	return err
}

// validateCard runs every field through the same formatting and rules as a
// live form, with all fields treated as touched: an empty field is invalid
// but carries no error text.
func validateCard(in cardInput, minYear int, lookup messages.Lookup) cardReport {
	v := cardform.NewValidator(minYear)
	raw := []struct {
		field cardform.Field
		value string
	}{
		{cardform.FieldCardNumber, in.Number},
		{cardform.FieldExpiry, in.Expiry},
		{cardform.FieldCvc, in.Cvc},
		{cardform.FieldHolderName, in.Name},
	}

	report := cardReport{Valid: true}
	for _, r := range raw {
		value := cardform.Normalize(r.field, r.value)
		fr := fieldReport{Field: r.field.String(), Value: value, Valid: v.Valid(r.field, value)}
		if !fr.Valid {
			report.Valid = false
			if value != "" {
				fr.Error = lookup.String(r.field.ErrorKey())
			}
		}
		if r.field == cardform.FieldCardNumber {
			report.Brand = cardform.CardBrand(value)
		}
		report.Fields = append(report.Fields, fr)
	}
	return report
}

func writeReport(w io.Writer, report cardReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "brand\t%s\n", report.Brand)
		for _, f := range report.Fields {
			status := "ok"
			if !f.Valid {
				status = f.Error
				if status == "" {
					status = "missing"
				}
			}
			fmt.Fprintf(tw, "%s\t%q\t%s\n", f.Field, f.Value, status)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
