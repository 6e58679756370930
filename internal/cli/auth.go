package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Abdulrehman1203/invera-tech-store/internal/session"
	pkgerrors "github.com/Abdulrehman1203/invera-tech-store/pkg/errors"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление аутентификацией",
	Long: `Команды для управления аутентификацией пользователей:
вход, выход, регистрация и проверка статуса.`,
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login [login]",
	Short: "Войти в систему",
	Long: `Выполняет вход пользователя по имени пользователя (или email) и паролю.
Сохраняет токены аутентификации для последующих команд.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("auth_login", func() error {
			return handleLogin(cmd, args)
		})
	},
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать нового пользователя",
	Long: `Создает новую учетную запись. После регистрации необходимо
выполнить вход командой 'invera auth login'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("auth_register", func() error {
			return handleRegister(cmd, args)
		})
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	Long:  `Удаляет сохраненные токены и идентичность пользователя.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("auth_logout", func() error {
			return handleLogout(cmd, args)
		})
	},
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Проверить статус аутентификации",
	Long:  `Показывает текущий статус аутентификации и информацию о пользователе.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand("auth_status", func() error {
			return handleAuthStatus(cmd, args)
		})
	},
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	// Login flags
	loginCmd.Flags().StringP("password", "p", "", "пароль")

	// Register flags
	registerCmd.Flags().StringP("username", "u", "", "имя пользователя")
	registerCmd.Flags().StringP("email", "e", "", "email адрес")
	registerCmd.Flags().StringP("password", "p", "", "пароль")
	registerCmd.Flags().String("confirm-password", "", "подтверждение пароля")
}

// promptLine читает одно значение из стандартного ввода
func promptLine(label string) (string, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("%s: ", label)
	value, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return strings.TrimSpace(value), nil
}

func handleLogin(cmd *cobra.Command, args []string) error {
	var loginValue string
	if len(args) > 0 {
		loginValue = args[0]
	} else {
		var err error
		loginValue, err = promptLine("Username or email")
		if err != nil {
			return handleError(err, cmd)
		}
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		var err error
		password, err = promptLine("Password")
		if err != nil {
			return handleError(err, cmd)
		}
	}

	result := sess.Login(rootCtx, loginValue, password)
	if !result.Success {
		return handleError(pkgerrors.New(pkgerrors.ErrUnauthorized, result.Message), cmd)
	}

	identity := sess.Current()
	if identity != nil && identity.Username != "" {
		fmt.Printf("✅ Вход выполнен успешно!\n")
		fmt.Printf("👤 Пользователь: %s (%s)\n", identity.Username, identity.Email)
		if identity.IsSuperuser {
			fmt.Printf("🔑 Роль: superuser\n")
		} else if identity.IsStaff {
			fmt.Printf("🔑 Роль: staff\n")
		}
	} else {
		fmt.Printf("✅ Вход выполнен успешно!\n")
	}

	return nil
}

func handleRegister(cmd *cobra.Command, args []string) error {
	fields := session.RegisterFields{}
	fields.Username, _ = cmd.Flags().GetString("username")
	fields.Email, _ = cmd.Flags().GetString("email")
	fields.Password, _ = cmd.Flags().GetString("password")
	fields.ConfirmPassword, _ = cmd.Flags().GetString("confirm-password")

	// Недостающие поля запрашиваем интерактивно
	var err error
	if fields.Username == "" {
		if fields.Username, err = promptLine("Username"); err != nil {
			return handleError(err, cmd)
		}
	}
	if fields.Email == "" {
		if fields.Email, err = promptLine("Email"); err != nil {
			return handleError(err, cmd)
		}
	}
	if fields.Password == "" {
		if fields.Password, err = promptLine("Password"); err != nil {
			return handleError(err, cmd)
		}
	}
	if fields.ConfirmPassword == "" {
		if fields.ConfirmPassword, err = promptLine("Confirm password"); err != nil {
			return handleError(err, cmd)
		}
	}

	result := sess.Register(rootCtx, fields)
	if !result.Success {
		return handleError(pkgerrors.New(pkgerrors.ErrValidation, result.Message), cmd)
	}

	fmt.Printf("✅ Регистрация выполнена успешно!\n")
	fmt.Printf("👤 Пользователь: %s\n", fields.Username)
	fmt.Printf("💡 Теперь выполните 'invera auth login' для входа\n")

	return nil
}

func handleLogout(cmd *cobra.Command, args []string) error {
	sess.Logout()
	cartCache.SetCount(0)

	fmt.Printf("✅ Выход выполнен успешно!\n")
	return nil
}

func handleAuthStatus(cmd *cobra.Command, args []string) error {
	identity := sess.Current()
	if identity == nil {
		fmt.Printf("❌ Не авторизован\n")
		fmt.Printf("💡 Выполните 'invera auth login' для входа\n")
		return nil
	}

	fmt.Printf("✅ Авторизован\n")
	if identity.Username != "" {
		fmt.Printf("👤 Пользователь: %s (%s)\n", identity.Username, identity.Email)
	} else {
		// Минимальный маркер: токен есть, но идентичность не сохранилась
		fmt.Printf("👤 Пользователь: данные недоступны\n")
	}
	if identity.IsSuperuser {
		fmt.Printf("🔑 Роль: superuser\n")
	} else if identity.IsStaff {
		fmt.Printf("🔑 Роль: staff\n")
	}

	cartCache.Refresh(rootCtx)
	fmt.Printf("🛒 Позиций в корзине: %d\n", cartCache.Count())

	return nil
}
