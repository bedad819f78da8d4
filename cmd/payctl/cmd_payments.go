package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vantungdz/payment/internal/api"
	"github.com/vantungdz/payment/internal/calculator"
	"github.com/vantungdz/payment/internal/intent"
	"github.com/vantungdz/payment/internal/models"
	"github.com/vantungdz/payment/internal/money"
	"github.com/vantungdz/payment/internal/store"
)

var createFlags struct {
	to          []string
	total       string
	amount      string
	title       string
	desc        string
	includeSelf bool
	asJSON      bool
}

var payFlags struct {
	participant string
	confirm     bool
}

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all payment requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := newStore(newClient())
		if err := st.Refresh(cmd.Context()); err != nil {
			return err
		}
		requests := st.Requests()
		if listJSON {
			return printJSON(requests)
		}
		if len(requests) == 0 {
			fmt.Println("No payment requests")
			return nil
		}
		for _, r := range requests {
			printRequest(r)
		}
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create and send a payment request (admin)",
	Long: `Create a payment request and send it immediately.

With one recipient and --amount, the request carries that exact share.
With several recipients and --total, the total is split equally; add
--include-self to take a share yourself.`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

var sendCmd = &cobra.Command{
	Use:   "send <requestID>",
	Short: "Send a draft payment request (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := newClient().SendPaymentRequest(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Sent %q to %d participants\n", req.Title, len(req.Participants))
		return nil
	},
}

var payCmd = &cobra.Command{
	Use:   "pay <requestID>",
	Short: "Show the MoMo transfer details for your share",
	Long: `Print the transfer details for your share of a request: the
recipient, the amount, the momo:// deep link and its web fallback, plus
a copy-paste block for manual transfer.

The actual transfer happens in the MoMo app. With --confirm (and
--self-report) the share is also marked paid on the server; admins can
mark any participant paid with --participant.`,
	Args: cobra.ExactArgs(1),
	RunE: runPay,
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show your pending and paid shares",
	Args:  cobra.NoArgs,
	RunE:  runView,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users you can request payment from (admin)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		me, err := client.Me(cmd.Context())
		if err != nil {
			return err
		}
		users, err := client.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range users {
			// The requester never splits with their own account.
			if u.ID == me.ID {
				continue
			}
			fmt.Printf("%-16s %-24s %s\n", u.Username, u.FullName, u.Phone)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show payment aggregates (admin dashboard)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newClient().GetDashboardStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Requests:  %d (%d completed)\n", stats.TotalRequests, stats.CompletedRequests)
		fmt.Printf("Total:     %s\n", money.FormatCurrency(stats.TotalAmount))
		fmt.Printf("Paid:      %s\n", money.FormatCurrency(stats.PaidAmount))
		fmt.Printf("Pending:   %s\n", money.FormatCurrency(stats.PendingAmount))
		return nil
	},
}

func runCreate(cmd *cobra.Command, args []string) error {
	if len(createFlags.to) == 0 {
		return errors.New("--to is required")
	}

	client := newClient()
	me, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}

	recipients, users, err := resolveRecipients(cmd.Context(), client, createFlags.to)
	if err != nil {
		return err
	}

	var draft models.PaymentRequestDraft
	switch {
	case len(recipients) == 1 && createFlags.amount != "":
		draft = store.SingleDraft(*recipients[0], money.ParseNumber(createFlags.amount), createFlags.desc)
	case createFlags.total != "":
		draft, err = bulkDraft(recipients, users, *me)
		if err != nil {
			return err
		}
	default:
		return errors.New("use --amount with one recipient or --total with several")
	}
	if createFlags.title != "" {
		draft.Title = createFlags.title
	}

	st := newStore(client)
	req, err := st.Create(cmd.Context(), draft)
	if err != nil {
		if req != nil {
			// Created but not sent; the draft can be sent later.
			fmt.Printf("Created %s but sending failed: %v\n", req.ID, err)
			fmt.Printf("Retry with: payctl send %s\n", req.ID)
			return nil
		}
		return err
	}

	if createFlags.asJSON {
		return printJSON(req)
	}
	fmt.Printf("Created and sent %q (%s)\n", req.Title, money.FormatCurrency(req.TotalAmount))
	for _, p := range req.Participants {
		fmt.Printf("  %-24s %s\n", p.Name, money.FormatCurrency(p.Amount))
	}
	return nil
}

// bulkDraft runs the equal split over the resolved recipients and
// assembles the request draft from the resulting selection.
func bulkDraft(recipients []*models.User, users []models.User, admin models.User) (models.PaymentRequestDraft, error) {
	total := money.ParseNumber(createFlags.total)
	split, err := calculator.EqualSplit(total, len(recipients), createFlags.includeSelf)
	if err != nil {
		return models.PaymentRequestDraft{}, err
	}

	sel := calculator.NewSelection()
	for _, r := range recipients {
		sel.Toggle(r.ID)
	}
	sel.ApplyEqualSplit(split)

	return store.BulkDraft(sel, users, admin, createFlags.includeSelf, total, createFlags.desc)
}

func runPay(cmd *cobra.Command, args []string) error {
	client := newClient()
	requestID := args[0]

	if payFlags.participant != "" {
		// Admin path: mark an arbitrary participant paid.
		req, err := client.PayParticipant(cmd.Context(), requestID, payFlags.participant)
		if err != nil {
			return err
		}
		fmt.Printf("Marked paid; request is now %s\n", req.Status)
		return nil
	}

	me, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}

	st := newStore(client)
	if err := st.Refresh(cmd.Context()); err != nil {
		return err
	}
	var req *models.PaymentRequest
	for _, r := range st.Requests() {
		if r.ID == requestID {
			req = &r
			break
		}
	}
	if req == nil {
		return fmt.Errorf("payment request not found: %s", requestID)
	}

	in, err := intent.Build(req, me)
	if err != nil {
		return err
	}

	fmt.Printf("Pay %s to %s (%s)\n", in.AmountText, in.RecipientName, in.RecipientPhone)
	fmt.Printf("Message:   %s\n", in.Message)
	fmt.Printf("Deep link: %s\n", in.DeepLink())
	fmt.Printf("Web link:  %s\n", in.WebLink())
	fmt.Println()
	fmt.Println(in.ClipboardText())

	if !payFlags.confirm {
		return nil
	}
	p := req.ParticipantByPhone(me.Phone)
	if _, err := st.MarkPaid(cmd.Context(), req.ID, p.ID); err != nil {
		if errors.Is(err, store.ErrSelfReportDisabled) {
			return errors.New("self-reporting is disabled; rerun with --self-report or ask the admin to confirm")
		}
		return err
	}
	fmt.Println("Marked as paid")
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	client := newClient()
	me, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}

	st := newStore(client)
	if err := st.Refresh(cmd.Context()); err != nil {
		return err
	}
	view := st.UserView(me.Phone)

	fmt.Printf("Pending (%s total):\n", money.FormatCurrency(view.TotalPending))
	if len(view.Pending) == 0 {
		fmt.Println("  nothing to pay")
	}
	for _, r := range view.Pending {
		p := r.ParticipantByPhone(me.Phone)
		fmt.Printf("  %-12s %-32s %s\n", r.ID, r.Title, money.FormatCurrency(p.Amount))
	}

	fmt.Println("Paid:")
	for _, r := range view.Paid {
		p := r.ParticipantByPhone(me.Phone)
		fmt.Printf("  %-12s %-32s %s\n", r.ID, r.Title, money.FormatCurrency(p.Amount))
	}
	return nil
}

// resolveRecipients matches each --to value against the user directory
// by username or phone. The full directory is returned too so drafts can
// preserve its ordering.
func resolveRecipients(ctx context.Context, client *api.Client, to []string) ([]*models.User, []models.User, error) {
	users, err := client.ListUsers(ctx)
	if err != nil {
		return nil, nil, err
	}

	var recipients []*models.User
	for _, want := range to {
		want = strings.TrimSpace(want)
		found := false
		for i := range users {
			if users[i].Username == want || users[i].Phone == want {
				recipients = append(recipients, &users[i])
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("no user matching %q", want)
		}
	}
	return recipients, users, nil
}

func printRequest(r models.PaymentRequest) {
	fmt.Printf("%s  %-32s %-10s %s\n", r.ID, r.Title, r.Status, money.FormatCurrency(r.TotalAmount))
	for _, p := range r.Participants {
		mark := " "
		if p.Status == models.ParticipantPaid {
			mark = "x"
		}
		fmt.Printf("  [%s] %-24s %s\n", mark, p.Name, money.FormatCurrency(p.Amount))
	}
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print raw JSON")

	createCmd.Flags().StringSliceVar(&createFlags.to, "to", nil, "recipient usernames or phones")
	createCmd.Flags().StringVar(&createFlags.total, "total", "", "total amount to split equally")
	createCmd.Flags().StringVar(&createFlags.amount, "amount", "", "exact amount for a single recipient")
	createCmd.Flags().StringVar(&createFlags.title, "title", "", "request title")
	createCmd.Flags().StringVar(&createFlags.desc, "desc", "", "request description")
	createCmd.Flags().BoolVar(&createFlags.includeSelf, "include-self", false, "count yourself into the equal split")
	createCmd.Flags().BoolVar(&createFlags.asJSON, "json", false, "print the created request as JSON")

	payCmd.Flags().StringVar(&payFlags.participant, "participant", "", "participant ID to mark paid (admin)")
	payCmd.Flags().BoolVar(&payFlags.confirm, "confirm", false, "also mark your share paid on the server")
}
