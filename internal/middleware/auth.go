package middleware

import (
	"findus-backend/internal/constants"
	"findus-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth ensures a user is in the session. 401 in the standard error
// format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetSessionUser(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// RequireCustomer ensures the session user is a customer account.
func RequireCustomer() fiber.Handler {
	return requireAccountType(constants.AccountCustomer, "Customer profile not found.")
}

// RequireCraftsman ensures the session user is a craftsman account.
func RequireCraftsman() fiber.Handler {
	return requireAccountType(constants.AccountCraftsman, "You need to be a registered craftsman")
}

func requireAccountType(accountType, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetSessionUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if user.AccountType != accountType {
			return response.Forbidden(c, message)
		}
		return c.Next()
	}
}
