package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Abdulrehman1203/invera-tech-store/internal/api"
	"github.com/Abdulrehman1203/invera-tech-store/internal/notify"
	"github.com/Abdulrehman1203/invera-tech-store/internal/output"
	pkgerrors "github.com/Abdulrehman1203/invera-tech-store/pkg/errors"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Административные команды",
	Long: `Команды администрирования магазина: управление товарами,
заказами и пользователями. Требуют прав staff или superuser.`,
}

var adminProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Управление товарами",
}

var adminProductsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать все товары, включая неактивные",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("admin_products_list", func() error {
			return handleAdminProductsList(cmd, args)
		})
	},
}

var adminProductsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать товар",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("admin_products_create", func() error {
			return handleAdminProductsCreate(cmd, args)
		})
	},
}

var adminProductsUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Обновить товар",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("admin_products_update", func() error {
			return handleAdminProductsUpdate(cmd, args)
		})
	},
}

var adminProductsDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Удалить товар",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("admin_products_delete", func() error {
			return handleAdminProductsDelete(cmd, args)
		})
	},
}

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Управление заказами",
}

var adminOrdersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать все заказы",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("admin_orders_list", func() error {
			return handleAdminOrdersList(cmd, args)
		})
	},
}

var adminOrdersStatusCmd = &cobra.Command{
	Use:   "set-status <order-id> <status>",
	Short: "Изменить статус заказа",
	Long:  `Допустимые статусы: PENDING, PAID, SHIPPED, CANCELLED.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("admin_orders_status", func() error {
			return handleAdminOrdersStatus(cmd, args)
		})
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Управление пользователями",
}

var adminUsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать пользователей",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("admin_users_list", func() error {
			return handleAdminUsersList(cmd, args)
		})
	},
}

var adminUsersRoleCmd = &cobra.Command{
	Use:   "set-role <user-id>",
	Short: "Изменить роль пользователя",
	Long:  `Включает или выключает роль staff либо superuser.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("admin_users_role", func() error {
			return handleAdminUsersRole(cmd, args)
		})
	},
}

func init() {
	adminCmd.AddCommand(adminProductsCmd)
	adminCmd.AddCommand(adminOrdersCmd)
	adminCmd.AddCommand(adminUsersCmd)

	adminProductsCmd.AddCommand(adminProductsListCmd)
	adminProductsCmd.AddCommand(adminProductsCreateCmd)
	adminProductsCmd.AddCommand(adminProductsUpdateCmd)
	adminProductsCmd.AddCommand(adminProductsDeleteCmd)

	adminOrdersCmd.AddCommand(adminOrdersListCmd)
	adminOrdersCmd.AddCommand(adminOrdersStatusCmd)

	adminUsersCmd.AddCommand(adminUsersListCmd)
	adminUsersCmd.AddCommand(adminUsersRoleCmd)

	for _, c := range []*cobra.Command{adminProductsCreateCmd, adminProductsUpdateCmd} {
		c.Flags().String("name", "", "название товара")
		c.Flags().String("description", "", "описание товара")
		c.Flags().String("price", "", "цена, например 19.99")
		c.Flags().Int("stock", 0, "количество на складе")
		c.Flags().Bool("active", true, "товар активен")
		c.Flags().String("image", "", "путь к файлу изображения")
	}

	adminUsersRoleCmd.Flags().Bool("staff", false, "выдать права staff")
	adminUsersRoleCmd.Flags().Bool("superuser", false, "выдать права superuser")
	adminUsersRoleCmd.Flags().Bool("revoke", false, "отозвать роль вместо выдачи")
}

func productFormFromFlags(cmd *cobra.Command) (api.ProductForm, error) {
	form := api.ProductForm{}
	form.Name, _ = cmd.Flags().GetString("name")
	form.Description, _ = cmd.Flags().GetString("description")
	form.Price, _ = cmd.Flags().GetString("price")
	form.StockQuantity, _ = cmd.Flags().GetInt("stock")
	form.IsActive, _ = cmd.Flags().GetBool("active")
	form.ImagePath, _ = cmd.Flags().GetString("image")

	if err := validator.ValidateRequiredFields(map[string]interface{}{
		"name":  form.Name,
		"price": form.Price,
	}); err != nil {
		return form, pkgerrors.New(pkgerrors.ErrValidation, err.Error())
	}
	return form, nil
}

func handleAdminProductsList(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	products, err := apiClient.ListAdminProducts(rootCtx)
	if err != nil {
		return handleError(adminError(err, "list products"), cmd)
	}

	table := output.NewTableData("ID", "NAME", "PRICE", "STOCK", "ACTIVE")
	for _, p := range products {
		table.AddRow(
			strconv.FormatInt(p.ID, 10),
			p.Name,
			"$"+p.Price,
			strconv.Itoa(p.StockQuantity),
			strconv.FormatBool(p.IsActive),
		)
	}
	return handleError(formatOutput(table), cmd)
}

func handleAdminProductsCreate(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	form, err := productFormFromFlags(cmd)
	if err != nil {
		return handleError(err, cmd)
	}

	product, err := apiClient.CreateProduct(rootCtx, form)
	if err != nil {
		return handleError(adminError(err, "create product"), cmd)
	}

	fmt.Printf("✅ Товар создан: %s (ID: %d)\n", product.Name, product.ID)
	return nil
}

func handleAdminProductsUpdate(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	productID, err := parseID(args[0], "product id")
	if err != nil {
		return handleError(err, cmd)
	}
	form, err := productFormFromFlags(cmd)
	if err != nil {
		return handleError(err, cmd)
	}

	product, err := apiClient.UpdateProduct(rootCtx, productID, form)
	if err != nil {
		return handleError(adminError(err, "update product"), cmd)
	}

	fmt.Printf("✅ Товар обновлен: %s (ID: %d)\n", product.Name, product.ID)
	return nil
}

func handleAdminProductsDelete(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	productID, err := parseID(args[0], "product id")
	if err != nil {
		return handleError(err, cmd)
	}

	if err := apiClient.DeleteProduct(rootCtx, productID); err != nil {
		return handleError(adminError(err, "delete product"), cmd)
	}

	fmt.Printf("✅ Товар удален (ID: %d)\n", productID)
	return nil
}

func handleAdminOrdersList(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	orders, err := apiClient.ListAdminOrders(rootCtx)
	if err != nil {
		return handleError(adminError(err, "list orders"), cmd)
	}

	table := output.NewTableData("ID", "USER", "STATUS", "TOTAL", "CREATED")
	for _, o := range orders {
		user := "-"
		if o.User != nil {
			user = o.User.Username
		}
		table.AddRow(
			o.ID,
			user,
			o.Status,
			"$"+o.TotalAmount,
			o.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return handleError(formatOutput(table), cmd)
}

func handleAdminOrdersStatus(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	orderID, status := args[0], args[1]
	if !api.ValidOrderStatus(status) {
		return handleError(pkgerrors.New(pkgerrors.ErrValidation,
			fmt.Sprintf("Invalid order status: %s", status)), cmd)
	}

	if err := apiClient.UpdateOrderStatus(rootCtx, orderID, status); err != nil {
		return handleError(adminError(err, "update order status"), cmd)
	}

	showNotification(fmt.Sprintf("Order %s marked %s", orderID, status), notify.KindSuccess)
	return nil
}

func handleAdminUsersList(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	users, err := apiClient.ListUsers(rootCtx)
	if err != nil {
		return handleError(adminError(err, "list users"), cmd)
	}

	table := output.NewTableData("ID", "USERNAME", "EMAIL", "STAFF", "SUPERUSER", "ACTIVE")
	for _, u := range users {
		table.AddRow(
			strconv.FormatInt(u.ID, 10),
			u.Username,
			u.Email,
			strconv.FormatBool(u.IsStaff),
			strconv.FormatBool(u.IsSuperuser),
			strconv.FormatBool(u.IsActive),
		)
	}
	return handleError(formatOutput(table), cmd)
}

func handleAdminUsersRole(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return handleError(err, cmd)
	}

	userID, err := parseID(args[0], "user id")
	if err != nil {
		return handleError(err, cmd)
	}

	staff, _ := cmd.Flags().GetBool("staff")
	superuser, _ := cmd.Flags().GetBool("superuser")
	revoke, _ := cmd.Flags().GetBool("revoke")

	var role string
	switch {
	case staff && !superuser:
		role = api.RoleStaff
	case superuser && !staff:
		role = api.RoleSuperuser
	default:
		return handleError(pkgerrors.New(pkgerrors.ErrValidation,
			"Specify exactly one of --staff or --superuser"), cmd)
	}

	if err := apiClient.UpdateUserRole(rootCtx, userID, role, !revoke); err != nil {
		return handleError(adminError(err, "update user role"), cmd)
	}

	action := "granted to"
	if revoke {
		action = "revoked from"
	}
	showNotification(fmt.Sprintf("Role %s %s user %d", role, action, userID), notify.KindSuccess)
	return nil
}
