package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompanyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Company management commands",
	}

	cmd.AddCommand(newCompanyCreateCmd())
	cmd.AddCommand(newCompanyGetCmd())
	cmd.AddCommand(newCompanyCollaboratorCmd())

	return cmd
}

func newCompanyCreateCmd() *cobra.Command {
	var name, eventID, logoURL string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":     name,
				"event_id": eventID,
				"logo_url": logoURL,
			}
			var result Company

			if err := client.Post("/api/v1/companies", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Company name (required)")
	cmd.Flags().StringVar(&eventID, "event", "", "Event ID")
	cmd.Flags().StringVar(&logoURL, "logo", "", "Logo URL")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCompanyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <company_id>",
		Short: "Show a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Company

			if err := client.Get("/api/v1/companies/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCompanyCollaboratorCmd() *cobra.Command {
	var name, code string

	cmd := &cobra.Command{
		Use:   "add-collaborator <company_id>",
		Short: "Register a collaborator with a verification code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name": name,
				"code": code,
			}
			var result map[string]any

			path := fmt.Sprintf("/api/v1/companies/%s/collaborators", args[0])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Collaborator name")
	cmd.Flags().StringVar(&code, "code", "", "Verification code (required)")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
