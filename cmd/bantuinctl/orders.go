package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/workflow"
)

func (a *app) orders(ctx context.Context) (*workflow.Orders, error) {
	client, user, err := a.authed(ctx)
	if err != nil {
		return nil, err
	}
	return workflow.NewOrders(client, client, user.ID), nil
}

// orderAction загружает заказ, выполняет действие и печатает новое состояние.
func (a *app) orderAction(use, short string, run func(ctx context.Context, o *workflow.Orders, view *workflow.OrderView) (*workflow.OrderView, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ORDER_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := a.orders(ctx)
			if err != nil {
				return err
			}
			view, err := o.Load(ctx, args[0])
			if err != nil {
				return err
			}
			next, err := run(ctx, o, view)
			if err != nil {
				return err
			}
			return a.printView(next)
		},
	}
}

func (a *app) ordersCmd() *cobra.Command {
	orders := &cobra.Command{Use: "orders", Short: "Заказы"}

	orders.AddCommand(
		a.ordersListCmd(),
		a.ordersShowCmd(),
		a.ordersCreateCmd(),
		a.orderAction("confirm", "Подтвердить черновик и получить ссылку на оплату", func(ctx context.Context, o *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
			next, payment, err := o.Confirm(ctx, v)
			if err == nil && payment != nil && !a.asJSON {
				fmt.Fprintf(a.out, "Оплата: %s\n", payment.PaymentRedirectURL)
			}
			return next, err
		}),
		a.orderAction("start", "Начать работу над оплаченным заказом", func(ctx context.Context, o *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
			return o.Start(ctx, v)
		}),
		a.orderAction("approve", "Принять работу", func(ctx context.Context, o *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
			return o.Approve(ctx, v)
		}),
		a.ordersProgressCmd(),
		a.ordersDeliverCmd(),
		a.ordersReviseCmd(),
		a.ordersDisputeCmd(),
		a.ordersDisputeInfoCmd(),
		a.ordersReviewCmd(),
		a.ordersRespondCmd(),
	)
	return orders
}

func (a *app) ordersListCmd() *cobra.Command {
	var (
		role string
		tab  string
		page int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список заказов",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := workflow.ParseTab(tab)
			if err != nil {
				return err
			}
			o, err := a.orders(cmd.Context())
			if err != nil {
				return err
			}
			list, err := o.List(cmd.Context(), valueobject.ParseRole(role), t, page)
			if err != nil {
				return err
			}

			if a.asJSON {
				views := make([]orderJSON, 0, len(list.Views))
				for _, v := range list.Views {
					views = append(views, viewJSON(v))
				}
				return writeJSON(a.out, map[string]interface{}{
					"orders":     views,
					"pagination": list.Pagination,
					"stats":      list.Stats,
				})
			}

			rows := make([]string, 0, len(list.Views))
			for _, v := range list.Views {
				rows = append(rows, fmt.Sprintf("%s\t%s\t%d%%\t%s\t%s", v.Order.ID, v.Label, v.Progress, money(v.Order.Price), v.Order.Title))
			}
			if err := table(a.out, "ID\tСТАТУС\tПРОГРЕСС\tЦЕНА\tНАЗВАНИЕ", rows); err != nil {
				return err
			}
			if list.Stats != nil {
				fmt.Fprintf(a.out, "\nактивных: %d, завершённых: %d, потрачено: %s\n",
					list.Stats.Active, list.Stats.Completed, money(list.Stats.TotalSpent))
			}
			if list.Pagination != nil && list.Pagination.HasNext() {
				fmt.Fprintf(a.out, "страница %d из %d, следующая: --page %d\n",
					list.Pagination.Page, list.Pagination.TotalPages, list.Pagination.Page+1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "buyer", "buyer или seller")
	cmd.Flags().StringVar(&tab, "tab", "all", "all, active, completed, other")
	cmd.Flags().IntVar(&page, "page", 1, "страница")
	return cmd
}

func (a *app) ordersShowCmd() *cobra.Command {
	return a.orderAction("show", "Показать заказ и доступные действия", func(_ context.Context, _ *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
		return v, nil
	})
}

func (a *app) ordersCreateCmd() *cobra.Command {
	var req dto.CreateOrderRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать черновик заказа",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := a.orders(cmd.Context())
			if err != nil {
				return err
			}
			view, err := o.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printView(view)
		},
	}
	cmd.Flags().StringVar(&req.ServiceID, "service", "", "ID услуги")
	cmd.Flags().StringVar(&req.Requirements, "requirements", "", "требования, не менее 10 символов")
	cmd.Flags().StringSliceVar(&req.Attachments, "attachment", nil, "ссылка на вложение (можно несколько)")
	return cmd
}

func (a *app) ordersProgressCmd() *cobra.Command {
	var req dto.ProgressLogRequest
	cmd := a.orderAction("progress", "Добавить запись о ходе работы", func(ctx context.Context, o *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
		return o.LogProgress(ctx, v, req)
	})
	cmd.Flags().StringVar(&req.Title, "title", "", "заголовок")
	cmd.Flags().StringVar(&req.Description, "description", "", "описание")
	cmd.Flags().StringSliceVar(&req.Images, "image", nil, "ссылка на изображение")
	return cmd
}

func (a *app) ordersDeliverCmd() *cobra.Command {
	var req dto.DeliverRequest
	cmd := a.orderAction("deliver", "Сдать работу", func(ctx context.Context, o *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
		return o.Deliver(ctx, v, req)
	})
	cmd.Flags().StringVar(&req.DeliveryNote, "note", "", "сопроводительный текст")
	cmd.Flags().StringSliceVar(&req.DeliveryFiles, "file", nil, "ссылка на файл результата (хотя бы одна)")
	return cmd
}

func (a *app) ordersReviseCmd() *cobra.Command {
	var req dto.RevisionRequest
	cmd := a.orderAction("revise", "Запросить ревизию", func(ctx context.Context, o *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
		return o.RequestRevision(ctx, v, req)
	})
	cmd.Flags().StringVar(&req.RevisionNote, "note", "", "что исправить")
	cmd.Flags().StringSliceVar(&req.Attachments, "attachment", nil, "ссылка на вложение")
	return cmd
}

func (a *app) ordersDisputeCmd() *cobra.Command {
	var req dto.DisputeRequest
	cmd := a.orderAction("dispute", "Открыть спор", func(ctx context.Context, o *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
		next, dispute, err := o.OpenDispute(ctx, v, req)
		if err == nil && dispute != nil && !a.asJSON {
			fmt.Fprintf(a.out, "Спор %s открыт\n", dispute.ID)
		}
		return next, err
	})
	cmd.Flags().StringVar(&req.Reason, "reason", "", "причина, не менее 50 символов")
	return cmd
}

func (a *app) ordersDisputeInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dispute-info ORDER_ID DISPUTE_ID",
		Short: "Показать спор по заказу",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o, err := a.orders(ctx)
			if err != nil {
				return err
			}
			view, err := o.Load(ctx, args[0])
			if err != nil {
				return err
			}
			dispute, err := o.Dispute(ctx, view, args[1])
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(a.out, dispute)
			}
			fmt.Fprintf(a.out, "Спор %s (%s)\n  причина: %s\n", dispute.ID, dispute.Status, dispute.Reason)
			if dispute.Resolution != nil {
				fmt.Fprintf(a.out, "  решение: %s\n", *dispute.Resolution)
			}
			return nil
		},
	}
}

func (a *app) ordersReviewCmd() *cobra.Command {
	var req dto.ReviewRequest
	cmd := a.orderAction("review", "Оставить отзыв о завершённом заказе", func(ctx context.Context, o *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
		next, review, err := o.Review(ctx, v, req)
		if err == nil && review != nil && !a.asJSON {
			fmt.Fprintf(a.out, "Отзыв %s сохранён\n", review.ID)
		}
		return next, err
	})
	cmd.Flags().IntVar(&req.Rating, "rating", 5, "оценка 1-5")
	cmd.Flags().StringVar(&req.Comment, "comment", "", "комментарий")
	return cmd
}

func (a *app) ordersRespondCmd() *cobra.Command {
	var (
		reviewID string
		req      dto.ReviewResponseRequest
	)
	cmd := a.orderAction("respond", "Ответить на отзыв", func(ctx context.Context, o *workflow.Orders, v *workflow.OrderView) (*workflow.OrderView, error) {
		if reviewID == "" {
			return v, apperror.Validation(apperror.FieldError{Field: "review", Message: "укажите --review"})
		}
		return o.RespondReview(ctx, v, reviewID, req)
	})
	cmd.Flags().StringVar(&reviewID, "review", "", "ID отзыва")
	cmd.Flags().StringVar(&req.Response, "response", "", "текст ответа")
	return cmd
}
