package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/bantuin-gateway/internal/goroutine"
	"github.com/ignatzorin/bantuin-gateway/internal/notifications"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/token"
	"github.com/ignatzorin/bantuin-gateway/internal/session"
)

func (a *app) notificationsCmd() *cobra.Command {
	n := &cobra.Command{Use: "notifications", Short: "Уведомления"}

	var page, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "Список уведомлений",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			items, p, err := client.Notifications(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(a.out, map[string]interface{}{"notifications": items, "pagination": p})
			}
			rows := make([]string, 0, len(items))
			for _, item := range items {
				mark := "*"
				if item.IsRead {
					mark = " "
				}
				rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s", mark, item.ID, item.CreatedAt.Format("2006-01-02 15:04"), item.Content))
			}
			return table(a.out, " \tID\tДАТА\tТЕКСТ", rows)
		},
	}
	list.Flags().IntVar(&page, "page", 1, "страница")
	list.Flags().IntVar(&limit, "limit", 20, "размер страницы")

	unread := &cobra.Command{
		Use:   "unread",
		Short: "Количество непрочитанных",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			count, err := client.UnreadCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, count)
			return nil
		},
	}

	read := &cobra.Command{
		Use:   "read NOTIFICATION_ID",
		Short: "Отметить уведомление прочитанным",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			return client.MarkNotificationRead(cmd.Context(), args[0])
		},
	}

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Отметить все уведомления прочитанными",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			return client.MarkAllNotificationsRead(cmd.Context())
		},
	}

	n.AddCommand(list, unread, read, readAll, a.notificationsWatchCmd())
	return n
}

// notificationsWatchCmd печатает счётчик при каждом изменении. Завершается по Ctrl+C
// или когда сессию закрыли в другом терминале.
func (a *app) notificationsWatchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Следить за счётчиком непрочитанных",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, _, err := a.authed(cmd.Context()); err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			signedOut := make(chan struct{})
			var once sync.Once
			unsubscribe := a.session.Subscribe(func(st session.State) {
				// сбой сети тоже обнуляет профиль, но токен при этом остаётся
				if st.User == nil && !st.Loading && a.session.Token() == "" {
					once.Do(func() { close(signedOut) })
				}
			})
			defer unsubscribe()
			goroutine.SafeGoWithContext(ctx, "bantuinctl.session", func(ctx context.Context) {
				_ = a.session.Run(ctx)
			})

			updates := make(chan int, 1)
			source := notifications.CountSourceFunc(func(ctx context.Context) (int, error) {
				if err := a.session.Resume(ctx); err != nil {
					return 0, err
				}
				return a.client.WithToken(a.session.Token()).UnreadCount(ctx)
			})
			poller := notifications.NewPoller(source, interval, func(count int) {
				// остаётся только последнее значение
				select {
				case <-updates:
				default:
				}
				updates <- count
			}, token.Fingerprint(a.session.Token()))
			stopPoller := poller.Start(ctx)
			defer stopPoller()

			last := -1
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-signedOut:
					fmt.Fprintln(a.out, "Сессия закрыта")
					return nil
				case count := <-updates:
					if count == last {
						continue
					}
					last = count
					fmt.Fprintf(a.out, "%s непрочитанных: %d\n", time.Now().Format("15:04:05"), count)
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", notifications.DefaultInterval, "период опроса")
	return cmd
}
