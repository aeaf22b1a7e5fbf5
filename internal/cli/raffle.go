package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newRaffleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raffle",
		Short: "Raffle and organizer draw commands",
	}

	cmd.AddCommand(newRaffleCreateCmd())
	cmd.AddCommand(newRaffleListCmd())
	cmd.AddCommand(newRaffleEnterCmd())
	cmd.AddCommand(newRaffleEligibleCmd())
	cmd.AddCommand(newRaffleDrawCmd())
	cmd.AddCommand(newRaffleDrawStatusCmd())
	cmd.AddCommand(newRaffleDrawCancelCmd())
	cmd.AddCommand(newRaffleWinnersCmd())

	return cmd
}

func newRaffleCreateCmd() *cobra.Command {
	var eventID, name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a raffle",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"event_id": eventID,
				"name":     name,
			}
			var result Raffle

			if err := client.Post("/api/v1/raffles", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&eventID, "event", "", "Event ID (required)")
	cmd.Flags().StringVar(&name, "name", "", "Raffle name (required)")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRaffleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <event_id>",
		Short: "List raffles for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Raffle

			path := fmt.Sprintf("/api/v1/events/%s/raffles", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRaffleEnterCmd() *cobra.Command {
	var name, email, phone string

	cmd := &cobra.Command{
		Use:   "enter <raffle_id>",
		Short: "Enter a participant into a raffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":  name,
				"email": email,
				"phone": phone,
			}
			var result Participant

			path := fmt.Sprintf("/api/v1/raffles/%s/participants", args[0])
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

func newRaffleEligibleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eligible <raffle_id>...",
		Short: "Count participants eligible across one or more raffles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result EligibleResult

			if err := client.Get("/api/v1/raffles/eligible?"+raffleIDQuery(args), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	return cmd
}

func newRaffleDrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw <raffle_id>...",
		Short: "Start a countdown draw over one or more raffles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"raffle_ids": args}
			var result DrawState

			if err := client.Post("/api/v1/raffles/draw", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRaffleDrawStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw-status <draw_id>",
		Short: "Show a draw's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result DrawState

			path := fmt.Sprintf("/api/v1/raffles/draw/%s", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRaffleDrawCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw-cancel <draw_id>",
		Short: "Cancel a draw during its countdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/raffles/draw/%s", args[0])
			if err := client.Delete(path); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Draw cancelled")
			return nil
		},
	}
}

func newRaffleWinnersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "winners <raffle_id>",
		Short: "List recorded winners for a raffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []DrawWinner

			path := fmt.Sprintf("/api/v1/raffles/%s/winners", args[0])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func raffleIDQuery(ids []string) string {
	q := url.Values{}
	for _, id := range ids {
		q.Add("raffle_id", id)
	}
	return q.Encode()
}
