package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Abdulrehman1203/invera-tech-store/internal/notify"
	"github.com/Abdulrehman1203/invera-tech-store/internal/output"
	pkgerrors "github.com/Abdulrehman1203/invera-tech-store/pkg/errors"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Управление корзиной",
	Long:  `Команды для работы с корзиной: просмотр, добавление, изменение и удаление позиций.`,
}

// cartShowCmd represents the cart show command
var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Показать содержимое корзины",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("cart_show", func() error {
			return handleCartShow(cmd, args)
		})
	},
}

// cartAddCmd represents the cart add command
var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Добавить товар в корзину",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("cart_add", func() error {
			return handleCartAdd(cmd, args)
		})
	},
}

// cartUpdateCmd represents the cart update command
var cartUpdateCmd = &cobra.Command{
	Use:   "update <item-id>",
	Short: "Изменить количество позиции",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("cart_update", func() error {
			return handleCartUpdate(cmd, args)
		})
	},
}

// cartRemoveCmd represents the cart remove command
var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Удалить позицию из корзины",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("cart_remove", func() error {
			return handleCartRemove(cmd, args)
		})
	},
}

func init() {
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)

	cartAddCmd.Flags().IntP("quantity", "q", 1, "количество")
	cartUpdateCmd.Flags().IntP("quantity", "q", 1, "новое количество")
}

func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.ErrValidation,
			fmt.Sprintf("Invalid %s: %s", what, arg))
	}
	return id, nil
}

func handleCartShow(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	cart, err := apiClient.GetCart(rootCtx)
	if err != nil {
		return handleError(fetchError(err, "cart"), cmd)
	}
	cartCache.SetCount(len(cart.Items))

	fmt.Printf("🛒 Корзина (%d позиций)\n\n", len(cart.Items))

	table := output.NewTableData("ITEM ID", "PRODUCT", "PRICE", "QTY")
	for _, item := range cart.Items {
		table.AddRow(
			strconv.FormatInt(item.ID, 10),
			item.Product.Name,
			"$"+item.Product.Price,
			strconv.Itoa(item.Quantity),
		)
	}
	if err := formatOutput(table); err != nil {
		return handleError(err, cmd)
	}

	fmt.Printf("\n💰 Итого: $%s\n", cart.Total)
	return nil
}

func handleCartAdd(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	productID, err := parseID(args[0], "product id")
	if err != nil {
		return handleError(err, cmd)
	}
	quantity, _ := cmd.Flags().GetInt("quantity")
	if err := validator.ValidateQuantity(quantity); err != nil {
		return handleError(err, cmd)
	}

	// Название товара нужно для уведомления
	productName := fmt.Sprintf("Product #%d", productID)
	if products, listErr := apiClient.ListProducts(rootCtx); listErr == nil {
		for _, p := range products {
			if p.ID == productID {
				productName = p.Name
				break
			}
		}
	}

	if err := apiClient.AddCartItem(rootCtx, productID, quantity); err != nil {
		return handleError(fetchError(err, "cart"), cmd)
	}

	cartCache.Refresh(rootCtx)
	showNotification(fmt.Sprintf("%s added to cart!", productName), notify.KindSuccess)
	fmt.Printf("🛒 Позиций в корзине: %d\n", cartCache.Count())

	return nil
}

func handleCartUpdate(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	itemID, err := parseID(args[0], "item id")
	if err != nil {
		return handleError(err, cmd)
	}
	quantity, _ := cmd.Flags().GetInt("quantity")
	if err := validator.ValidateQuantity(quantity); err != nil {
		return handleError(err, cmd)
	}

	if err := apiClient.UpdateCartItem(rootCtx, itemID, quantity); err != nil {
		return handleError(fetchError(err, "cart"), cmd)
	}

	if cart, getErr := apiClient.GetCart(rootCtx); getErr == nil {
		cartCache.SetCount(len(cart.Items))
	}
	fmt.Printf("✅ Количество обновлено\n")

	return nil
}

func handleCartRemove(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	itemID, err := parseID(args[0], "item id")
	if err != nil {
		return handleError(err, cmd)
	}

	if err := apiClient.RemoveCartItem(rootCtx, itemID); err != nil {
		return handleError(fetchError(err, "cart"), cmd)
	}

	if cart, getErr := apiClient.GetCart(rootCtx); getErr == nil {
		cartCache.SetCount(len(cart.Items))
	}
	showNotification("Item removed from cart", notify.KindSuccess)
	fmt.Printf("🛒 Позиций в корзине: %d\n", cartCache.Count())

	return nil
}
