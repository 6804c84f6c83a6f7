package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"LicenseKeyAdmin/internal/output"
)

var systemsCmd = &cobra.Command{
	Use:   "systems",
	Short: "Управление системами",
	Long: `Команды для управления системами, на которые выпускаются лицензии:
просмотр списка и регистрация новых систем.`,
}

// systemsListCmd представляет команду списка систем
var systemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать зарегистрированные системы",
	Long:  `Синхронизирует состояние с бэкендом и выводит список систем.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleError(handleSystemsList(cmd, args), cmd)
	},
}

// systemsRegisterCmd представляет команду регистрации системы
var systemsRegisterCmd = &cobra.Command{
	Use:   "register <имя>",
	Short: "Зарегистрировать новую систему",
	Long: `Регистрирует новую систему на бэкенде. Пустое имя отклоняется
локально без обращения к бэкенду.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleError(handleSystemsRegister(cmd, args), cmd)
	},
}

func init() {
	systemsCmd.AddCommand(systemsListCmd)
	systemsCmd.AddCommand(systemsRegisterCmd)
}

// handleSystemsList выводит список систем
func handleSystemsList(cmd *cobra.Command, _ []string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	st, err := app.Synchronizer.Sync(cmd.Context())
	if err != nil {
		return err
	}

	return printOutput(app, output.SystemsTable(st.Systems), st.Systems)
}

// handleSystemsRegister регистрирует новую систему
func handleSystemsRegister(cmd *cobra.Command, args []string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	// Имя может состоять из нескольких аргументов
	systemName := strings.Join(args, " ")

	if err := app.Manager.RegisterSystem(cmd.Context(), systemName); err != nil {
		return err
	}

	fmt.Printf("Система %q зарегистрирована\n", systemName)
	return nil
}
