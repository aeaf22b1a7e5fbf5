package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newWheelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wheel",
		Short: "Prize wheel commands",
	}

	cmd.AddCommand(newWheelRegisterCmd())
	cmd.AddCommand(newWheelVerifyCmd())
	cmd.AddCommand(newWheelSpinCmd())
	cmd.AddCommand(newWheelStatusCmd())
	cmd.AddCommand(newWheelParticipantsCmd())
	cmd.AddCommand(newWheelExportCmd())

	return cmd
}

func newWheelRegisterCmd() *cobra.Command {
	var name, email, phone string

	cmd := &cobra.Command{
		Use:   "register <company_id>",
		Short: "Register a participant for a company's wheel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":  name,
				"email": email,
				"phone": phone,
			}
			var result Participant

			path := fmt.Sprintf("/api/v1/companies/%s/participants", args[0])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Participant name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Participant email (required)")
	cmd.Flags().StringVar(&phone, "phone", "", "Participant phone")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newWheelVerifyCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "verify-code <company_id>",
		Short: "Exchange a collaborator code for a spin token",
		Long:  "Verifies a collaborator code and saves the returned spin token for use by later commands.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"code": code}
			var result VerifyResult

			path := fmt.Sprintf("/api/v1/companies/%s/verify-code", args[0])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.SpinToken); err != nil {
				return fmt.Errorf("failed to save spin token: %w", err)
			}
			client.SetToken(result.SpinToken)

			out := NewOutput(cfg.Output)
			out.Print(result)
			if cfg.Output == "text" {
				out.PrintMessage("Spin token saved to " + cfg.TokenFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Collaborator code (required)")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newWheelSpinCmd() *cobra.Command {
	var participantID string

	cmd := &cobra.Command{
		Use:   "spin <company_id>",
		Short: "Spin the wheel for a registered participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"participant_id": participantID}
			var result SpinState

			path := fmt.Sprintf("/api/v1/companies/%s/spin", args[0])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&participantID, "participant", "", "Participant ID (required)")
	_ = cmd.MarkFlagRequired("participant")

	return cmd
}

func newWheelStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <company_id>",
		Short: "Show the current spin state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SpinState

			path := fmt.Sprintf("/api/v1/companies/%s/spin", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newWheelParticipantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participants <company_id>",
		Short: "List a company's participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Participant

			path := fmt.Sprintf("/api/v1/companies/%s/participants", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newWheelExportCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export <company_id>",
		Short: "Download the participation history as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/companies/%s/participants/export", args[0])
			data, err := client.GetRaw(path)
			if err != nil {
				return err
			}

			if outFile == "" {
				_, err = os.Stdout.Write(data)
				return err
			}

			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outFile, err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("History written to " + outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Write CSV to a file instead of stdout")

	return cmd
}
