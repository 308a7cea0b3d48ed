// Command bantuinctl клиент Bantuin для терминала: сессия, заказы, кошелёк, уведомления.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/bantuin-gateway/internal/config"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/logger"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/session"
	"github.com/ignatzorin/bantuin-gateway/internal/upstream"
)

// app общее состояние команд. Заполняется в PersistentPreRunE корневой команды.
type app struct {
	cfg     *config.Config
	client  *upstream.Client
	store   session.TokenStore
	session *session.Session
	out     io.Writer

	apiURL    string
	tokenFile string
	token     string
	asJSON    bool
	verbose   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{out: os.Stdout}
	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bantuinctl",
		Short:         "Клиент маркетплейса Bantuin",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", "", "адрес backend API (по умолчанию API_URL)")
	flags.StringVar(&a.tokenFile, "token-file", "", "файл с токеном (по умолчанию BANTUIN_TOKEN_FILE)")
	flags.StringVar(&a.token, "token", "", "токен для одного запуска, файл не изменяется")
	flags.BoolVar(&a.asJSON, "json", false, "вывод в JSON")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "подробные логи")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.sellerCmd(),
		a.ordersCmd(),
		a.servicesCmd(),
		a.walletCmd(),
		a.notificationsCmd(),
		a.reportCmd(),
		a.adminCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = strings.TrimRight(a.apiURL, "/")
	}
	if !cfg.UpstreamConfigured() {
		return apperror.New(apperror.ErrCodeValidation, "не задан адрес backend: укажите --api-url или API_URL")
	}
	if a.tokenFile != "" {
		cfg.TokenFile = a.tokenFile
	}
	a.cfg = cfg

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	logger.Init(level)
	logger.SetTextFormatter()
	logger.Log.SetOutput(os.Stderr)

	a.client = upstream.NewClient(cfg.APIURL, cfg.UpstreamTimeout)
	if a.token != "" {
		a.store = session.NewMemoryStore(a.token)
	} else {
		a.store = session.NewFileStore(cfg.TokenFile)
	}
	a.session = session.New(a.store, func(tok string) session.API {
		return a.client.WithToken(tok)
	})

	logger.Entry().WithFields(logrus.Fields{
		"api":        a.client.BaseURL(),
		"token_file": cfg.TokenFile,
	}).Debug("bantuinctl: configured")
	return nil
}

// authed загружает профиль и возвращает клиента с токеном текущего пользователя.
func (a *app) authed(ctx context.Context) (*upstream.Client, *entity.User, error) {
	if !a.client.Configured() {
		return nil, nil, apperror.ErrNotConfigured
	}
	if err := a.session.Bootstrap(ctx); err != nil {
		return nil, nil, err
	}
	user := a.session.User()
	if user == nil {
		return nil, nil, apperror.New(apperror.ErrCodeUnauthorized, "вы не вошли: выполните bantuinctl login --token <токен>")
	}
	return a.client.WithToken(a.session.Token()), user, nil
}

// exitCode различает ошибки ввода, авторизации и отсутствующие объекты.
func exitCode(err error) int {
	switch {
	case apperror.IsValidation(err):
		return 2
	case apperror.IsUnauthorized(err):
		return 3
	case apperror.IsNotFound(err):
		return 4
	default:
		return 1
	}
}

func printError(w io.Writer, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		fmt.Fprintf(w, "ошибка: %v\n", err)
		return
	}
	fmt.Fprintf(w, "ошибка: %s\n", appErr.Message)
	for _, f := range appErr.Fields {
		fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
	}
}
