package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"LicenseKeyAdmin/internal/output"
	"LicenseKeyAdmin/internal/view"
	pkgerrors "LicenseKeyAdmin/pkg/errors"
)

var licensesCmd = &cobra.Command{
	Use:   "licenses",
	Short: "Управление лицензиями",
	Long: `Команды для управления лицензионными ключами: просмотр списка
с поиском и постраничным выводом, выпуск ключей и управление
ограничением IP адресов.`,
}

// licensesListCmd представляет команду списка лицензий
var licensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать лицензионные ключи",
	Long: `Синхронизирует состояние с бэкендом и выводит страницу списка
лицензий. Поиск выполняется по подстроке ключа или имени системы
без учета регистра.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleError(handleLicensesList(cmd, args), cmd)
	},
}

// licensesGenerateCmd представляет команду выпуска ключа
var licensesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Выпустить лицензионный ключ",
	Long: `Выпускает новый лицензионный ключ для выбранной системы.
Содержимое ключа определяется бэкендом.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleError(handleLicensesGenerate(cmd, args), cmd)
	},
}

// licensesSetIPLimitCmd представляет команду изменения ограничения IP
var licensesSetIPLimitCmd = &cobra.Command{
	Use:   "set-ip-limit <ключ> [лимит]",
	Short: "Изменить ограничение IP для ключа",
	Long: `Устанавливает максимальное число различных IP адресов для
лицензионного ключа. Пустое значение или отсутствие аргумента
снимает ограничение. Отрицательные и нечисловые значения
отклоняются локально без обращения к бэкенду.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleError(handleLicensesSetIPLimit(cmd, args), cmd)
	},
}

func init() {
	licensesCmd.AddCommand(licensesListCmd)
	licensesCmd.AddCommand(licensesGenerateCmd)
	licensesCmd.AddCommand(licensesSetIPLimitCmd)

	// Флаги списка лицензий
	licensesListCmd.Flags().String("search", "", "поиск по ключу или имени системы")
	licensesListCmd.Flags().Int("page", 1, "номер страницы")

	// Флаги выпуска ключа
	licensesGenerateCmd.Flags().Int("system", 0, "идентификатор системы")
	licensesGenerateCmd.MarkFlagRequired("system")
}

// handleLicensesList выводит страницу списка лицензий
func handleLicensesList(cmd *cobra.Command, _ []string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	search, _ := cmd.Flags().GetString("search")
	pageNum, _ := cmd.Flags().GetInt("page")

	if pageNum < 1 {
		return pkgerrors.New(pkgerrors.ErrValidation, "номер страницы должен быть не меньше 1")
	}

	st, err := app.Synchronizer.Sync(cmd.Context())
	if err != nil {
		return err
	}

	page := view.Project(st, view.NewCursor(search, pageNum))

	// Выход за границы предотвращается здесь, а не подгонкой результата
	if pageNum > page.TotalPages {
		return pkgerrors.New(pkgerrors.ErrValidation,
			fmt.Sprintf("страница %d вне диапазона 1..%d", pageNum, page.TotalPages))
	}

	if err := printOutput(app, output.LicensesTable(page), page); err != nil {
		return err
	}

	// Сводка по страницам выводится только для табличного формата
	if app.Config.Output.Format == string(output.FormatTable) {
		fmt.Printf("Страница %d/%d, всего лицензий: %d\n", page.Page, page.TotalPages, page.Total)
		if !page.HasPrev {
			fmt.Println("Это первая страница")
		}
		if !page.HasNext {
			fmt.Println("Это последняя страница")
		}
	}

	return nil
}

// handleLicensesGenerate выпускает новый лицензионный ключ
func handleLicensesGenerate(cmd *cobra.Command, _ []string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	systemID, _ := cmd.Flags().GetInt("system")

	if err := app.Manager.IssueLicense(cmd.Context(), systemID); err != nil {
		return err
	}

	fmt.Println("Лицензионный ключ выпущен")
	return nil
}

// handleLicensesSetIPLimit изменяет ограничение IP для ключа
func handleLicensesSetIPLimit(cmd *cobra.Command, args []string) error {
	app, err := getApp()
	if err != nil {
		return err
	}

	licenseKey := args[0]

	// Отсутствие второго аргумента означает снятие ограничения
	rawLimit := ""
	if len(args) > 1 {
		rawLimit = args[1]
	}

	if err := app.Manager.UpdateIPLimit(cmd.Context(), licenseKey, rawLimit); err != nil {
		return err
	}

	if rawLimit == "" {
		fmt.Printf("Ограничение IP для ключа %s снято\n", licenseKey)
	} else {
		fmt.Printf("Ограничение IP для ключа %s установлено: %s\n", licenseKey, rawLimit)
	}
	return nil
}
