package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Abdulrehman1203/invera-tech-store/internal/notify"
	"github.com/Abdulrehman1203/invera-tech-store/internal/output"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Управление заказами",
	Long:  `Команды для оформления заказов и просмотра истории покупок.`,
}

// checkoutCmd represents the orders checkout command
var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Оформить заказ из корзины",
	Long: `Создает заказ из текущего содержимого корзины.
После оформления корзина очищается.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("orders_checkout", func() error {
			return handleCheckout(cmd, args)
		})
	},
}

// ordersListCmd represents the orders list command
var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать историю заказов",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("orders_list", func() error {
			return handleOrdersList(cmd, args)
		})
	},
}

func init() {
	ordersCmd.AddCommand(checkoutCmd)
	ordersCmd.AddCommand(ordersListCmd)
}

func handleCheckout(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	order, err := apiClient.Checkout(rootCtx)
	if err != nil {
		return handleError(fetchError(err, "order"), cmd)
	}

	// После оформления корзина на сервере пуста
	cartCache.SetCount(0)

	showNotification("Order placed successfully!", notify.KindSuccess)
	fmt.Printf("📦 Заказ: %s\n", order.ID)
	fmt.Printf("💰 Сумма: $%s\n", order.TotalAmount)
	fmt.Printf("📋 Статус: %s\n", order.Status)

	return nil
}

func handleOrdersList(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	orders, err := apiClient.ListOrders(rootCtx)
	if err != nil {
		return handleError(fetchError(err, "orders"), cmd)
	}

	fmt.Printf("📦 Заказы (%d)\n\n", len(orders))

	table := output.NewTableData("ID", "STATUS", "TOTAL", "ITEMS", "CREATED")
	for _, o := range orders {
		table.AddRow(
			o.ID,
			o.Status,
			"$"+o.TotalAmount,
			strconv.Itoa(len(o.Items)),
			o.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return handleError(formatOutput(table), cmd)
}
