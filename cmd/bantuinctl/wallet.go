package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/workflow"
)

func (a *app) walletCmd() *cobra.Command {
	wallet := &cobra.Command{Use: "wallet", Short: "Кошелёк и вывод средств"}

	balance := &cobra.Command{
		Use:   "balance",
		Short: "Баланс и счета",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := workflow.NewWallet(client).Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(a.out, map[string]interface{}{"balance": snap.Balance, "accounts": snap.Accounts})
			}
			fmt.Fprintf(a.out, "Баланс: %s\n", money(snap.Balance))
			for _, acc := range snap.Accounts {
				fmt.Fprintf(a.out, "  %s  %s %s (%s)\n", acc.ID, acc.BankName, acc.AccountNumber, acc.AccountName)
			}
			return nil
		},
	}

	var account dto.PayoutAccountRequest
	addAccount := &cobra.Command{
		Use:   "add-account",
		Short: "Добавить банковский счёт",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			acc, err := workflow.NewWallet(client).AddAccount(cmd.Context(), account)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Счёт %s добавлен\n", acc.ID)
			return nil
		},
	}
	addAccount.Flags().StringVar(&account.BankName, "bank", "", "банк")
	addAccount.Flags().StringVar(&account.AccountNumber, "number", "", "номер счёта")
	addAccount.Flags().StringVar(&account.AccountName, "name", "", "владелец счёта")

	payouts := &cobra.Command{
		Use:   "payouts",
		Short: "История заявок на вывод",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			list, err := workflow.NewWallet(client).Payouts(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(a.out, list)
			}
			rows := make([]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s", p.ID, p.CreatedAt.Format("2006-01-02"), money(p.Amount), p.Status))
			}
			return table(a.out, "ID\tДАТА\tСУММА\tСТАТУС", rows)
		},
	}

	var (
		amount    string
		accountID string
	)
	payout := &cobra.Command{
		Use:   "payout",
		Short: "Заявка на вывод средств",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := valueobject.ParseMoney(amount)
			if err != nil {
				return err
			}
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			w := workflow.NewWallet(client)
			snap, err := w.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			req, err := w.RequestPayout(cmd.Context(), snap, dto.PayoutRequest{Amount: m.Amount, PayoutAccountID: accountID})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Заявка %s на %s создана (%s)\n", req.ID, money(req.Amount), req.Status)
			return nil
		},
	}
	payout.Flags().StringVar(&amount, "amount", "", "сумма, не менее Rp 50.000")
	payout.Flags().StringVar(&accountID, "account", "", "ID счёта")

	wallet.AddCommand(balance, addAccount, payouts, payout)
	return wallet
}
