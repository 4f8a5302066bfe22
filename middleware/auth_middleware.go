package middleware

import (
	config "github.com/mkamau27/school_admin/configs"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func tokenRole(c *fiber.Ctx) string {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	role, _ := claims["role"].(string)
	return role
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenRole(c) != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}

// StaffRequired admits admins and teachers, the roles that manage classes
// and fee records.
func StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := tokenRole(c)
		if role != "admin" && role != "teacher" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Staff access required",
			})
		}
		return c.Next()
	}
}

func ParentRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenRole(c) != "parent" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Parent access required",
			})
		}
		return c.Next()
	}
}
