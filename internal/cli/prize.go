package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPrizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prize",
		Short: "Prize management commands",
	}

	cmd.AddCommand(newPrizeListCmd())
	cmd.AddCommand(newPrizeCreateCmd())
	cmd.AddCommand(newPrizeUpdateCmd())
	cmd.AddCommand(newPrizeDeleteCmd())

	return cmd
}

func newPrizeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <company_id>",
		Short: "List a company's prizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Prize

			path := fmt.Sprintf("/api/v1/companies/%s/prizes", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPrizeCreateCmd() *cobra.Command {
	var name string
	var position int

	cmd := &cobra.Command{
		Use:   "create <company_id>",
		Short: "Add a prize to a company's wheel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":     name,
				"position": position,
			}
			var result Prize

			path := fmt.Sprintf("/api/v1/companies/%s/prizes", args[0])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Prize name (required)")
	cmd.Flags().IntVar(&position, "position", 0, "Slice position on the wheel")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPrizeUpdateCmd() *cobra.Command {
	var name string
	var position int

	cmd := &cobra.Command{
		Use:   "update <company_id> <prize_id>",
		Short: "Update a prize",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":     name,
				"position": position,
			}
			var result Prize

			path := fmt.Sprintf("/api/v1/companies/%s/prizes/%s", args[0], args[1])
			if err := client.Put(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Prize name (required)")
	cmd.Flags().IntVar(&position, "position", 0, "Slice position on the wheel")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPrizeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <company_id> <prize_id>",
		Short: "Remove a prize from the wheel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/companies/%s/prizes/%s", args[0], args[1])
			if err := client.Delete(path); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Prize deleted")
			return nil
		},
	}
}
