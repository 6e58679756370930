package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Abdulrehman1203/invera-tech-store/internal/catalog"
	"github.com/Abdulrehman1203/invera-tech-store/internal/output"
	pkgerrors "github.com/Abdulrehman1203/invera-tech-store/pkg/errors"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Просмотр каталога товаров",
	Long:  `Команды для просмотра каталога товаров магазина.`,
}

// productsListCmd represents the products list command
var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать список товаров",
	Long: `Показывает список активных товаров. Можно отфильтровать по категории:
mobile-accessories, laptop-accessories, audio-devices, smart-wearables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("products_list", func() error {
			return handleProductsList(cmd, args)
		})
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Показать доступные категории",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("products_categories", func() error {
			return handleCategories(cmd, args)
		})
	},
}

func init() {
	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(categoriesCmd)

	productsListCmd.Flags().String("category", "", "фильтр по категории")
}

func handleProductsList(cmd *cobra.Command, args []string) error {
	categoryID, _ := cmd.Flags().GetString("category")
	if categoryID != "" && !catalog.Known(categoryID) {
		return handleError(pkgerrors.New(pkgerrors.ErrValidation,
			fmt.Sprintf("Unknown category: %s", categoryID)), cmd)
	}

	products, err := apiClient.ListProducts(rootCtx)
	if err != nil {
		return handleError(fetchError(err, "products"), cmd)
	}

	products = catalog.FilterByCategory(products, categoryID)

	fmt.Printf("🛍️  %s (%d)\n\n", catalog.Label(categoryID), len(products))

	table := output.NewTableData("ID", "NAME", "PRICE", "STOCK")
	for _, p := range products {
		table.AddRow(
			strconv.FormatInt(p.ID, 10),
			p.Name,
			"$"+p.Price,
			strconv.Itoa(p.StockQuantity),
		)
	}
	if err := formatOutput(table); err != nil {
		return handleError(err, cmd)
	}

	// Значок корзины показываем только авторизованным пользователям
	if sess.Current() != nil {
		cartCache.Refresh(rootCtx)
		fmt.Printf("\n🛒 Позиций в корзине: %d\n", cartCache.Count())
	}

	return nil
}

func handleCategories(cmd *cobra.Command, args []string) error {
	table := output.NewTableData("ID", "LABEL", "KEYWORDS")
	for _, c := range catalog.Categories() {
		table.AddRow(c.ID, c.Label, strconv.Itoa(len(c.Keywords)))
	}
	return handleError(formatOutput(table), cmd)
}
