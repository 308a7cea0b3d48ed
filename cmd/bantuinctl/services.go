package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/repository"
	"github.com/ignatzorin/bantuin-gateway/internal/workflow"
)

func (a *app) printServices(services []entity.Service, page *entity.Pagination) error {
	if a.asJSON {
		return writeJSON(a.out, map[string]interface{}{"services": services, "pagination": page})
	}
	rows := make([]string, 0, len(services))
	for _, s := range services {
		active := "да"
		if !s.IsActive {
			active = "нет"
		}
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%.1f\t%s\t%s", s.ID, money(s.Price), s.Category, s.Rating, active, s.Title))
	}
	if err := table(a.out, "ID\tЦЕНА\tКАТЕГОРИЯ\tРЕЙТИНГ\tАКТИВНА\tНАЗВАНИЕ", rows); err != nil {
		return err
	}
	if page != nil && page.HasNext() {
		fmt.Fprintf(a.out, "страница %d из %d\n", page.Page, page.TotalPages)
	}
	return nil
}

func (a *app) servicesCmd() *cobra.Command {
	services := &cobra.Command{Use: "services", Short: "Каталог услуг"}

	var filter repository.ServiceFilter
	search := &cobra.Command{
		Use:   "search",
		Short: "Поиск по каталогу",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// каталог публичный, токен не обязателен
			client := a.client.WithToken(a.session.Token())
			list, page, err := workflow.NewServices(client).Search(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.printServices(list, page)
		},
	}
	f := search.Flags()
	f.IntVar(&filter.Page, "page", 1, "страница")
	f.IntVar(&filter.Limit, "limit", 12, "размер страницы (до 100)")
	f.StringVar(&filter.Category, "category", "", "категория")
	f.StringVar(&filter.PriceMin, "price-min", "", "минимальная цена")
	f.StringVar(&filter.PriceMax, "price-max", "", "максимальная цена")
	f.StringVar(&filter.RatingMin, "rating-min", "", "минимальный рейтинг")
	f.StringVar(&filter.SortBy, "sort", "", "newest, popular, rating, price-low, price-high")
	f.StringVarP(&filter.Query, "query", "q", "", "текст поиска")

	show := &cobra.Command{
		Use:   "show SERVICE_ID",
		Short: "Показать услугу",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := workflow.NewServices(a.client.WithToken(a.session.Token())).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(a.out, s)
			}
			fmt.Fprintf(a.out, "%s\n  цена:     %s\n  срок:     %d дн.\n  ревизий:  %d\n  рейтинг:  %.1f (%d)\n\n%s\n",
				s.Title, money(s.Price), s.DeliveryTime, s.Revisions, s.Rating, s.TotalReviews, s.Description)
			return nil
		},
	}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "Мои услуги (продавец)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			list, err := workflow.NewServices(client).Mine(cmd.Context())
			if err != nil {
				return err
			}
			return a.printServices(list, nil)
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle SERVICE_ID",
		Short: "Включить или скрыть услугу",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			s, err := workflow.NewServices(client).Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Услуга %s активна: %t\n", s.ID, s.IsActive)
			return nil
		},
	}

	services.AddCommand(search, show, mine, toggle)
	return services
}
