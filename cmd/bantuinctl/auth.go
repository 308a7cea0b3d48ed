package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
)

func (a *app) loginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Сохранить токен и проверить его",
		Long:  "Без --token печатает адрес входа через Google. Полученный токен передайте через --token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				url := a.client.LoginURL()
				if url == "" {
					return apperror.ErrNotConfigured
				}
				fmt.Fprintf(a.out, "Откройте в браузере: %s\n", url)
				return nil
			}
			if err := a.session.SignIn(cmd.Context(), token); err != nil {
				return err
			}
			user := a.session.User()
			if user == nil {
				return apperror.New(apperror.ErrCodeUnauthorized, "токен отклонён backend")
			}
			fmt.Fprintf(a.out, "Вы вошли как %s (%s)\n", user.FullName, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer токен")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Выйти и удалить сохранённый токен",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Вы вышли")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Показать текущего пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, user, err := a.authed(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(a.out, user)
			}
			fmt.Fprintf(a.out, "%s <%s>\n", user.FullName, user.Email)
			fmt.Fprintf(a.out, "  id:       %s\n", user.ID)
			fmt.Fprintf(a.out, "  продавец: %t\n", user.IsSeller)
			if user.IsAdmin() {
				fmt.Fprintln(a.out, "  администратор")
			}
			return nil
		},
	}
}

func (a *app) sellerCmd() *cobra.Command {
	seller := &cobra.Command{Use: "seller", Short: "Режим продавца"}

	var req dto.ActivateSellerRequest
	activate := &cobra.Command{
		Use:   "activate",
		Short: "Включить режим продавца",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, _, err := a.authed(cmd.Context()); err != nil {
				return err
			}
			if err := a.session.ActivateSeller(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Режим продавца включён")
			return nil
		},
	}
	activate.Flags().StringVar(&req.PhoneNumber, "phone", "", "номер телефона (08..., +62...)")
	activate.Flags().StringVar(&req.Bio, "bio", "", "о себе, не менее 10 символов")

	seller.AddCommand(activate)
	return seller
}
