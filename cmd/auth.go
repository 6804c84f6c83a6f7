package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"LicenseKeyAdmin/internal/store"
	pkgerrors "LicenseKeyAdmin/pkg/errors"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление аутентификацией",
	Long: `Команды для управления аутентификацией оператора:
вход, выход и проверка статуса сессии.`,
}

// loginCmd представляет команду входа
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Войти в систему",
	Long: `Выполняет вход оператора по имени пользователя и паролю.
Сохраняет bearer токен для последующих команд.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleError(handleLogin(cmd, args), cmd)
	},
}

// logoutCmd представляет команду выхода
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	Long:  `Удаляет сохраненный bearer токен.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleError(handleLogout(cmd, args), cmd)
	},
}

// statusCmd представляет команду статуса сессии
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Проверить статус аутентификации",
	Long:  `Показывает, сохранены ли учетные данные оператора локально.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleError(handleAuthStatus(cmd, args), cmd)
	},
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	// Флаги входа
	loginCmd.Flags().StringP("password", "p", "", "пароль (если не указан, запрашивается интерактивно)")
}

// handleLogin выполняет вход оператора
func handleLogin(cmd *cobra.Command, args []string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	username := ""
	if len(args) > 0 {
		username = args[0]
	}

	password, _ := cmd.Flags().GetString("password")

	// Запрашиваем недостающие данные интерактивно
	reader := bufio.NewReader(os.Stdin)
	if username == "" {
		fmt.Print("Имя пользователя: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "ошибка чтения имени пользователя")
		}
		username = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Print("Пароль: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return pkgerrors.Wrap(err, pkgerrors.ErrValidation, "ошибка чтения пароля")
		}
		password = strings.TrimSpace(line)
	}

	if username == "" {
		return pkgerrors.New(pkgerrors.ErrValidation, "имя пользователя не может быть пустым")
	}
	if password == "" {
		return pkgerrors.New(pkgerrors.ErrValidation, "пароль не может быть пустым")
	}

	// Выполняем вход и сохраняем учетные данные
	token, err := app.Auth.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}

	if err := app.Session.Establish(&store.Credential{
		AccessToken: token,
		Username:    username,
		SavedAt:     time.Now(),
	}); err != nil {
		return err
	}

	fmt.Println("Вход выполнен успешно")
	return nil
}

// handleLogout выполняет выход оператора
func handleLogout(cmd *cobra.Command, _ []string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	if err := app.Session.Logout(); err != nil {
		return err
	}

	fmt.Println("Выход выполнен, учетные данные удалены")
	return nil
}

// handleAuthStatus показывает статус сессии
func handleAuthStatus(cmd *cobra.Command, _ []string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	if app.Session.HasCredential() {
		fmt.Println("Аутентифицирован: учетные данные сохранены")
	} else {
		fmt.Println("Не аутентифицирован: выполните `lkadmin auth login`")
	}

	return nil
}
