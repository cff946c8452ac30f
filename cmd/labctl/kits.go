package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"labtrack_backend/internals/client/forms"
	"labtrack_backend/internals/features/kits/model"
)

var errInvalidForm = errors.New("form không hợp lệ")

func (a *app) availabilityCmd() *cobra.Command {
	var kitType string
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Tồn kho kit theo loại và trạng thái",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter *uuid.UUID
			if kitType != "" {
				id, err := uuid.Parse(kitType)
				if err != nil {
					return fmt.Errorf("--kit-type: %w", err)
				}
				filter = &id
			}

			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			items, err := c.Availability(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			header := []string{"CODE", "NAME"}
			for _, s := range model.AllKitStatuses {
				header = append(header, strings.ToUpper(string(s)))
			}
			fmt.Fprintln(w, strings.Join(append(header, "TOTAL"), "\t"))
			for _, it := range items {
				row := []string{it.KitTypeCode, it.KitTypeName}
				for _, s := range model.AllKitStatuses {
					row = append(row, fmt.Sprint(it.ByStatus[s]))
				}
				fmt.Fprintln(w, strings.Join(append(row, fmt.Sprint(it.Total)), "\t"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&kitType, "kit-type", "", "lọc theo kit_type_id")
	return cmd
}

func (a *app) kitBatchCmd() *cobra.Command {
	var f forms.KitBatchForm
	cmd := &cobra.Command{
		Use:   "kit-batch",
		Short: "Nhập một lô kit (bulk-create)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if errs := f.Validate(); len(errs) > 0 {
				printFieldErrors(a, errs)
				return errInvalidForm
			}

			c, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			res, err := c.BulkCreate(cmd.Context(), f.ToRequest())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "lô %s: %d kit\n", res.Batch.BatchCode, res.Count)
			for _, k := range res.Kits {
				fmt.Fprintln(a.out, k.KitCode)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.BatchCode, "code", "", "mã lô")
	fl.StringVar(&f.KitTypeID, "kit-type", "", "kit_type_id")
	fl.StringVar(&f.Supplier, "supplier", "", "nhà cung cấp")
	fl.StringVar(&f.PurchasedAt, "purchased", "", "ngày mua YYYY-MM-DD")
	fl.StringVar(&f.UnitCost, "unit-cost", "", "đơn giá")
	fl.StringVar(&f.Quantity, "quantity", "", "số lượng (1..100)")
	fl.StringVar(&f.ExpiresAt, "expires", "", "ngày hết hạn YYYY-MM-DD")
	fl.StringVar(&f.Note, "note", "", "ghi chú")
	return cmd
}

// printFieldErrors: urut nama field supaya output stabil
func printFieldErrors(a *app, errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for k := range errs {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	for _, k := range fields {
		fmt.Fprintf(a.out, "%s: %s\n", k, errs[k])
	}
}
