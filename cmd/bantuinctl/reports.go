package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/workflow"
)

func (a *app) reportCmd() *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Жалобы"}

	var req dto.CreateReportRequest
	user := &cobra.Command{
		Use:   "user USER_ID",
		Short: "Пожаловаться на пользователя",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, me, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			req.ReportedUserID = args[0]
			created, err := workflow.NewReports(client).File(cmd.Context(), me.ID, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Жалоба %s отправлена\n", created.ID)
			return nil
		},
	}
	user.Flags().StringVar(&req.Reason, "reason", "", fmt.Sprintf("причина: %v", valueobject.ReportReasons))
	user.Flags().StringVar(&req.Description, "description", "", "описание, не менее 10 символов")

	report.AddCommand(user)
	return report
}

func (a *app) adminCmd() *cobra.Command {
	admin := &cobra.Command{Use: "admin", Short: "Команды администратора"}
	reports := &cobra.Command{Use: "reports", Short: "Жалобы пользователей"}

	adminReports := func(cmd *cobra.Command) (*workflow.Reports, error) {
		client, user, err := a.authed(cmd.Context())
		if err != nil {
			return nil, err
		}
		if !user.IsAdmin() {
			return nil, apperror.New(apperror.ErrCodeForbidden, "команда доступна только администратору")
		}
		return workflow.NewReports(client), nil
	}

	var page int
	list := &cobra.Command{
		Use:   "list",
		Short: "Все жалобы",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := adminReports(cmd)
			if err != nil {
				return err
			}
			items, pagination, err := r.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(a.out, map[string]interface{}{"reports": items, "pagination": pagination})
			}
			rows := make([]string, 0, len(items))
			for _, it := range items {
				reported := it.ReportedUserID
				if it.ReportedUser != nil {
					reported = it.ReportedUser.FullName
				}
				rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t%s", it.ID, it.Status, it.Reason, reported, it.Description))
			}
			if err := table(a.out, "ID\tСТАТУС\tПРИЧИНА\tНА КОГО\tОПИСАНИЕ", rows); err != nil {
				return err
			}
			if pagination != nil && pagination.HasNext() {
				fmt.Fprintf(a.out, "страница %d из %d, следующая: --page %d\n", pagination.Page, pagination.TotalPages, pagination.Page+1)
			}
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 1, "страница")

	var status string
	resolve := &cobra.Command{
		Use:   "resolve REPORT_ID",
		Short: "Закрыть жалобу",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := valueobject.NewReportStatus(status)
			if err != nil {
				return err
			}
			r, err := adminReports(cmd)
			if err != nil {
				return err
			}
			if err := r.Resolve(cmd.Context(), args[0], next); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Жалоба %s: %s\n", args[0], status)
			return nil
		},
	}
	resolve.Flags().StringVar(&status, "status", string(valueobject.ReportStatusResolved), "RESOLVED или DISMISSED")

	reports.AddCommand(list, resolve)
	admin.AddCommand(reports)
	return admin
}
