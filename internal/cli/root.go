package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Abdulrehman1203/invera-tech-store/internal/api"
	"github.com/Abdulrehman1203/invera-tech-store/internal/cart"
	"github.com/Abdulrehman1203/invera-tech-store/internal/config"
	climetrics "github.com/Abdulrehman1203/invera-tech-store/internal/metrics"
	"github.com/Abdulrehman1203/invera-tech-store/internal/notify"
	"github.com/Abdulrehman1203/invera-tech-store/internal/output"
	"github.com/Abdulrehman1203/invera-tech-store/internal/session"
	"github.com/Abdulrehman1203/invera-tech-store/internal/store"
	pkgerrors "github.com/Abdulrehman1203/invera-tech-store/pkg/errors"
	"github.com/Abdulrehman1203/invera-tech-store/pkg/logger"
	"github.com/Abdulrehman1203/invera-tech-store/pkg/validation"
)

var (
	cfg        *config.Config
	appLogger  logger.Logger
	sess       *session.Store
	apiClient  *api.Client
	cartCache  *cart.SummaryCache
	notifier   *notify.Channel
	cliMetrics *climetrics.CLIMetrics
	rootCtx    context.Context

	validator = validation.NewValidator()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "invera",
	Short: "Invera Tech Store CLI - клиент интернет-магазина",
	Long: `Invera Tech Store CLI - инструмент командной строки для работы
с магазином техники: просмотр каталога, управление корзиной,
оформление заказов и администрирование товаров, заказов и пользователей.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Командам version и completion зависимости не нужны
		switch cmd.Name() {
		case "version", "completion", "help":
			return nil
		}
		return initApp()
	},
}

// Execute executes the root command
func Execute(ctx context.Context) error {
	rootCtx = ctx
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Показать версию",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Invera Tech Store CLI v%s\n", rootCmd.Version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.invera/config.yaml)")
	rootCmd.PersistentFlags().StringP("server", "s", "", "API server base URL")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetEnvPrefix("INVERA")
	viper.AutomaticEnv()

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(adminCmd)
}

// initApp собирает зависимости приложения: конфигурацию, логгер,
// хранилище учетных данных, API клиент и кэши.
func initApp() error {
	configPath := viper.GetString("config")
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}

	var err error
	cfg, err = config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	// Флаги и переменные окружения перекрывают файл конфигурации
	if server := viper.GetString("server"); server != "" {
		cfg.API.BaseURL = server
	}
	if format := viper.GetString("output"); format != "" {
		cfg.Output.Format = format
	}
	if viper.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	appLogger, err = logger.NewLogger(cfg.Log.Environment, cfg.Log.Level, "invera-cli")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	creds, err := newCredentialStore(cfg)
	if err != nil {
		return err
	}

	cliMetrics = climetrics.NewCLIMetrics(appLogger)
	notifier = notify.NewChannel()

	// Провайдер токена замыкается на пакетную переменную sess:
	// к моменту первого запроса сессия уже создана
	tokens := func() string { return sess.AccessToken() }

	apiClient = api.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.Timeout)*time.Second,
		tokens,
		appLogger,
		&cliMetrics.Metrics,
	)
	sess = session.NewStore(creds, apiClient, appLogger)
	cartCache = cart.NewSummaryCache(apiClient, tokens, appLogger)

	// Восстанавливаем сессию из сохраненных учетных данных
	sess.Restore()

	return nil
}

// newCredentialStore выбирает бэкенд хранилища по конфигурации
func newCredentialStore(cfg *config.Config) (store.CredentialStore, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return store.NewRedisCredentialStore(
			cfg.Storage.RedisAddr,
			cfg.Storage.RedisPassword,
			cfg.Storage.RedisDB,
		)
	default:
		return store.NewFileCredentialStore()
	}
}

// runCommand выполняет команду с записью метрик
func runCommand(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	cliMetrics.CommandExecuted(name, err == nil, time.Since(start))
	return err
}

// handleError handles errors consistently across commands
func handleError(err error, cmd *cobra.Command) error {
	if err == nil {
		return nil
	}

	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		appErr = pkgerrors.New(pkgerrors.ErrInternal, err.Error())
	}

	if appLogger != nil {
		appLogger.Error("command failed",
			logger.String("command", cmd.Name()),
			logger.Error(appErr))
	}

	return fmt.Errorf("%s: %s", cmd.Name(), appErr.GetUserMessage())
}

// requireAuth проверяет, что пользователь вошел в систему
func requireAuth() error {
	if sess.Current() == nil {
		return pkgerrors.New(pkgerrors.ErrUnauthorized,
			"You are not logged in. Run 'invera auth login'")
	}
	return nil
}

// adminError переводит 403 в сообщение об отсутствии прав администратора
func adminError(err error, failedTo string) error {
	if statusErr, ok := api.AsStatusError(err); ok {
		if statusErr.StatusCode == 403 {
			return pkgerrors.New(pkgerrors.ErrForbidden,
				"Access denied. Admin privileges required.")
		}
		return pkgerrors.Wrap(err, pkgerrors.FromHTTPStatus(statusErr.StatusCode), failedTo)
	}
	return pkgerrors.Wrap(err, pkgerrors.ErrUnavailable, failedTo)
}

// fetchError сводит ошибку загрузки страницы к сообщению "Failed to load X"
func fetchError(err error, what string) error {
	code := pkgerrors.ErrUnavailable
	if statusErr, ok := api.AsStatusError(err); ok {
		code = pkgerrors.FromHTTPStatus(statusErr.StatusCode)
	}
	return pkgerrors.Wrap(err, code, "Failed to load "+what)
}

// showNotification показывает уведомление и печатает его в терминал.
// Канал уведомлений гарантирует, что видно только последнее сообщение.
func showNotification(message string, kind notify.Kind) {
	notifier.Notify(message, kind)

	current := notifier.Current()
	icon := "✓"
	if current.Kind == notify.KindFailure {
		icon = "✕"
	}
	fmt.Printf("%s %s\n", icon, current.Message)
}

// formatOutput печатает данные в выбранном формате
func formatOutput(data interface{}) error {
	formatter, err := output.NewFormatter(cfg.Output.Format)
	if err != nil {
		return err
	}

	text, err := formatter.Format(data)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, text)
	return nil
}
