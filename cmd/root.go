package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"LicenseKeyAdmin/internal/admin"
	"LicenseKeyAdmin/internal/client"
	"LicenseKeyAdmin/internal/config"
	climetrics "LicenseKeyAdmin/internal/metrics"
	"LicenseKeyAdmin/internal/output"
	"LicenseKeyAdmin/internal/session"
	"LicenseKeyAdmin/internal/state"
	"LicenseKeyAdmin/internal/store"
	pkgerrors "LicenseKeyAdmin/pkg/errors"
	"LicenseKeyAdmin/pkg/logger"
	"LicenseKeyAdmin/pkg/metrics"
)

// App собирает все зависимости CLI в одном месте.
// Сессия создается явно при запуске команды и передается в шлюз и
// синхронизатор - никакого глобального токена в состоянии процесса.
type App struct {
	Config       *config.Config
	Logger       logger.Logger
	Session      *session.Session
	Gateway      *client.Gateway
	Auth         *client.AuthClient
	Admin        *client.AdminClient
	Synchronizer *state.Synchronizer
	Manager      *admin.Manager
	Metrics      *climetrics.CLIMetrics
}

var application *App

// rootCmd - базовая команда CLI
var rootCmd = &cobra.Command{
	Use:   "lkadmin",
	Short: "License Key Admin - управление бэкендом лицензионных ключей",
	Long: `License Key Admin - инструмент командной строки для администрирования
бэкенда выпуска лицензионных ключей.

Поддерживает регистрацию систем, выпуск лицензионных ключей,
управление ограничением IP адресов и просмотр списка лицензий
с поиском и постраничным выводом.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute выполняет корневую команду
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Глобальные флаги
	rootCmd.PersistentFlags().StringP("config", "c", "", "файл конфигурации (по умолчанию $HOME/.lkadmin/config.yaml)")
	rootCmd.PersistentFlags().StringP("server", "s", "", "адрес бэкенда лицензий")
	rootCmd.PersistentFlags().StringP("output", "o", "", "формат вывода (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "подробный вывод")

	// Привязываем флаги к viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Добавляем подкоманды
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(systemsCmd)
	rootCmd.AddCommand(licensesCmd)
	rootCmd.AddCommand(completionCmd)
}

// initConfig читает переменные окружения
func initConfig() {
	viper.SetEnvPrefix("LKADMIN")
	viper.AutomaticEnv()
}

// getApp собирает зависимости CLI при первом обращении
func getApp() (*App, error) {
	if application != nil {
		return application, nil
	}

	// Загружаем конфигурацию
	configPath := viper.GetString("config")
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка определения пути конфигурации")
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка загрузки конфигурации")
	}

	// Переопределения из флагов и окружения
	if server := viper.GetString("server"); server != "" {
		cfg.API.BaseURL = server
	}
	if format := viper.GetString("output"); format != "" {
		cfg.Output.Format = format
	}
	if viper.GetBool("verbose") {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrValidation, "некорректная конфигурация")
	}

	// Создаем логгер
	log, err := logger.NewLogger(cfg.Logging.Environment, cfg.Logging.Level, "lkadmin")
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка создания логгера")
	}

	// Инициализируем трассировку
	if err := metrics.InitializeOpenTelemetry("lkadmin"); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка инициализации трассировки")
	}

	cliMetrics := climetrics.NewCLIMetrics(log)

	// Отдаем метрики Prometheus, если задан адрес
	if cfg.MetricsListen != "" {
		go serveMetrics(cfg.MetricsListen, cliMetrics, log)
	}

	// Создаем хранилище токена
	tokenStore, err := newTokenStore(cfg, log)
	if err != nil {
		return nil, err
	}

	sess := session.NewSession(tokenStore, log)
	gateway := client.NewGateway(
		cfg.API.BaseURL,
		time.Duration(cfg.API.Timeout)*time.Second,
		sess,
		&cliMetrics.Metrics,
		log,
	)
	authClient := client.NewAuthClient(gateway, log)
	adminClient := client.NewAdminClient(gateway, log)
	synchronizer := state.NewSynchronizer(adminClient, sess, log)
	manager := admin.NewManager(adminClient, synchronizer, cliMetrics, log)

	application = &App{
		Config:       cfg,
		Logger:       log,
		Session:      sess,
		Gateway:      gateway,
		Auth:         authClient,
		Admin:        adminClient,
		Synchronizer: synchronizer,
		Manager:      manager,
		Metrics:      cliMetrics,
	}

	return application, nil
}

// newTokenStore создает хранилище токена по конфигурации
func newTokenStore(cfg *config.Config, log logger.Logger) (store.Store, error) {
	if cfg.Store.Type == "redis" {
		redisStore, err := store.NewRedisTokenStore(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
		if err != nil {
			return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка подключения к хранилищу токена")
		}
		log.Info("используется хранилище токена Redis", logger.String("addr", cfg.Store.RedisAddr))
		return redisStore, nil
	}

	fileStore, err := store.NewTokenStore()
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка создания хранилища токена")
	}
	return fileStore, nil
}

// serveMetrics отдает метрики Prometheus на отдельном адресе
func serveMetrics(addr string, m *climetrics.CLIMetrics, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	log.Info("метрики Prometheus доступны", logger.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("ошибка сервера метрик", logger.Error(err))
	}
}

// handleError единообразно обрабатывает ошибки команд.
// Отмена контекста не показывается оператору.
func handleError(err error, cmd *cobra.Command) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}

	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) {
		appErr = pkgerrors.New(pkgerrors.ErrInternal, err.Error())
	}

	if application != nil && application.Logger != nil {
		application.Logger.Error("команда завершилась с ошибкой",
			logger.String("command", cmd.Name()),
			logger.Error(appErr))
	}

	return fmt.Errorf("%s: %s", cmd.Name(), appErr.GetUserMessage())
}

// printOutput выводит данные в выбранном формате
func printOutput(app *App, tableData interface{}, raw interface{}) error {
	start := time.Now()

	format := output.FormatType(app.Config.Output.Format)
	formatter := output.GetFormatter(format, true, app.Config.Output.Colors)

	// Для JSON и YAML выводим исходные структуры, а не таблицу
	data := tableData
	if format == output.FormatJSON || format == output.FormatYAML {
		data = raw
	}

	formatted, err := formatter.Format(data)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.ErrInternal, "ошибка форматирования вывода")
	}

	fmt.Fprintln(os.Stdout, formatted)
	app.Metrics.OutputGenerated(string(format), 1, time.Since(start))

	return nil
}
